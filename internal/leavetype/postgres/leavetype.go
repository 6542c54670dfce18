package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/leave-management/internal/core/database"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/leavetype"
	"gorm.io/gorm"
)

type LeaveTypeRepository struct {
	db *gorm.DB
}

func NewLeaveTypeRepository(db *gorm.DB) leavetype.RepositoryAPI {
	return &LeaveTypeRepository{db: db}
}

func (r *LeaveTypeRepository) GetAll(ctx context.Context) ([]*leaveDatamodel.LeaveType, error) {
	var types []*leaveDatamodel.LeaveType
	err := database.Conn(ctx, r.db).Order("name ASC").Find(&types).Error
	return types, err
}

func (r *LeaveTypeRepository) GetByID(ctx context.Context, id int64) (*leaveDatamodel.LeaveType, error) {
	var t leaveDatamodel.LeaveType
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *LeaveTypeRepository) GetByName(ctx context.Context, name string) (*leaveDatamodel.LeaveType, error) {
	var t leaveDatamodel.LeaveType
	err := database.Conn(ctx, r.db).Where("name = ?", name).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *LeaveTypeRepository) Create(ctx context.Context, t *leaveDatamodel.LeaveType) error {
	return database.Conn(ctx, r.db).Create(t).Error
}
