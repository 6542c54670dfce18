package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/leave-management/internal/balance"
	"github.com/frahmantamala/leave-management/internal/core/database"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BalanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) balance.RepositoryAPI {
	return &BalanceRepository{db: db}
}

func (r *BalanceRepository) Get(ctx context.Context, userID, leaveTypeID int64) (*leaveDatamodel.LeaveBalance, error) {
	var row leaveDatamodel.LeaveBalance
	err := database.Conn(ctx, r.db).
		Where("user_id = ? AND leave_type_id = ?", userID, leaveTypeID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// GetForUpdate takes a row lock (SELECT ... FOR UPDATE) held until the surrounding
// transaction ends. Dialects without row locks drop the clause.
func (r *BalanceRepository) GetForUpdate(ctx context.Context, userID, leaveTypeID int64) (*leaveDatamodel.LeaveBalance, error) {
	var row leaveDatamodel.LeaveBalance
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND leave_type_id = ?", userID, leaveTypeID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *BalanceRepository) ApplyDebit(ctx context.Context, userID, leaveTypeID int64, days int) (int64, error) {
	result := database.Conn(ctx, r.db).
		Model(&leaveDatamodel.LeaveBalance{}).
		Where("user_id = ? AND leave_type_id = ? AND remaining_days >= ?", userID, leaveTypeID, days).
		Updates(map[string]interface{}{
			"used_days":      gorm.Expr("used_days + ?", days),
			"remaining_days": gorm.Expr("remaining_days - ?", days),
		})
	return result.RowsAffected, result.Error
}

func (r *BalanceRepository) ApplyCredit(ctx context.Context, userID, leaveTypeID int64, days int) (int64, error) {
	result := database.Conn(ctx, r.db).
		Model(&leaveDatamodel.LeaveBalance{}).
		Where("user_id = ? AND leave_type_id = ? AND used_days >= ?", userID, leaveTypeID, days).
		Updates(map[string]interface{}{
			"used_days":      gorm.Expr("used_days - ?", days),
			"remaining_days": gorm.Expr("remaining_days + ?", days),
		})
	return result.RowsAffected, result.Error
}

func (r *BalanceRepository) ListByUser(ctx context.Context, userID int64) ([]*leaveDatamodel.LeaveBalanceView, error) {
	var rows []*leaveDatamodel.LeaveBalanceView
	err := database.Conn(ctx, r.db).
		Table("leave_balances AS lb").
		Select("lb.id, lb.user_id, lb.leave_type_id, lb.total_days, lb.used_days, lb.remaining_days, lt.name AS leave_type_name, lt.description").
		Joins("JOIN leave_types AS lt ON lb.leave_type_id = lt.id").
		Where("lb.user_id = ?", userID).
		Order("lt.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *BalanceRepository) Create(ctx context.Context, row *leaveDatamodel.LeaveBalance) error {
	return database.Conn(ctx, r.db).Create(row).Error
}
