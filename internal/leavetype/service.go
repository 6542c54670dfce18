package leavetype

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/leave-management/internal"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*leaveDatamodel.LeaveType, error)
	GetByID(ctx context.Context, id int64) (*leaveDatamodel.LeaveType, error)
	GetByName(ctx context.Context, name string) (*leaveDatamodel.LeaveType, error)
	Create(ctx context.Context, leaveType *leaveDatamodel.LeaveType) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListLeaveTypes returns every leave type ordered by name.
func (s *Service) ListLeaveTypes(ctx context.Context) ([]LeaveTypeResponse, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get leave types from repository", "error", err)
		return nil, errors.NewInternalError("Error fetching leave types", err)
	}

	responses := make([]LeaveTypeResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, FromDataModel(row).ToResponse())
	}

	s.logger.Debug("retrieved leave types", "count", len(responses))
	return responses, nil
}

func (s *Service) GetLeaveType(ctx context.Context, id int64) (*LeaveType, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get leave type", "leave_type_id", id, "error", err)
		return nil, errors.NewInternalError("Error fetching leave type", err)
	}
	if row == nil {
		return nil, errors.ErrLeaveTypeNotFound
	}
	return FromDataModel(row), nil
}

// EnsureLeaveType creates the named type unless it already exists; the seeder relies on it
// to stay idempotent.
func (s *Service) EnsureLeaveType(ctx context.Context, name, description string, maxDays int) (*LeaveType, error) {
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, errors.NewInternalError("Error fetching leave type", err)
	}
	if existing != nil {
		return FromDataModel(existing), nil
	}

	row := ToDataModel(NewLeaveType(name, description, maxDays))
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create leave type", "name", name, "error", err)
		return nil, errors.NewInternalError("Error creating leave type", err)
	}

	s.logger.Info("leave type created", "leave_type_id", row.ID, "name", name)
	return FromDataModel(row), nil
}
