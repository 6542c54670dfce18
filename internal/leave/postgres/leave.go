package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/leave-management/internal/core/database"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/leave"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) leave.RepositoryAPI {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(ctx context.Context, request *leaveDatamodel.LeaveRequest) error {
	return database.Conn(ctx, r.db).Create(request).Error
}

func (r *LeaveRepository) GetByID(ctx context.Context, id int64) (*leaveDatamodel.LeaveRequest, error) {
	return r.first(database.Conn(ctx, r.db), id)
}

// GetForUpdate locks the request row until the surrounding transaction ends.
func (r *LeaveRepository) GetForUpdate(ctx context.Context, id int64) (*leaveDatamodel.LeaveRequest, error) {
	return r.first(database.Conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// UpdateReview only touches rows still pending; zero rows affected means someone got there first.
func (r *LeaveRepository) UpdateReview(ctx context.Context, id int64, status string, comments *string, reviewedAt time.Time) (int64, error) {
	result := database.Conn(ctx, r.db).
		Model(&leaveDatamodel.LeaveRequest{}).
		Where("id = ? AND status = ?", id, leave.StatusPending).
		Updates(map[string]interface{}{
			"status":           status,
			"manager_comments": comments,
			"reviewed_at":      reviewedAt,
		})
	return result.RowsAffected, result.Error
}

func (r *LeaveRepository) DeletePending(ctx context.Context, id int64) (int64, error) {
	result := database.Conn(ctx, r.db).
		Where("id = ? AND status = ?", id, leave.StatusPending).
		Delete(&leaveDatamodel.LeaveRequest{})
	return result.RowsAffected, result.Error
}

func (r *LeaveRepository) first(tx *gorm.DB, id int64) (*leaveDatamodel.LeaveRequest, error) {
	var row leaveDatamodel.LeaveRequest
	if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
