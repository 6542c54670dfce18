package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/leave-management/internal"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	ListByRole(ctx context.Context, role string) ([]*userDatamodel.User, error)
	Create(ctx context.Context, user *userDatamodel.User) error
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

// ListEmployees returns users with the employee role ordered by full name.
func (s *Service) ListEmployees(ctx context.Context) ([]UserResponse, error) {
	rows, err := s.repo.ListByRole(ctx, internal.RoleEmployee)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewInternalError("Error fetching employees", err)
	}

	employees := make([]UserResponse, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, FromDataModel(row).ToResponse())
	}
	return employees, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*UserResponse, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get user", "user_id", id, "error", err)
		return nil, internal.NewInternalError("Error fetching user", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}

	resp := FromDataModel(row).ToResponse()
	return &resp, nil
}

// EnsureUser creates the user unless the username is already taken, returning the stored row.
func (s *Service) EnsureUser(ctx context.Context, u *User) (*User, error) {
	if !ValidRole(u.Role) {
		return nil, internal.NewValidationError(fmt.Sprintf("Invalid role %q", u.Role), internal.ErrCodeValidationFailed)
	}

	existing, err := s.repo.GetByUsername(ctx, u.Username)
	if err != nil {
		return nil, internal.NewInternalError("Error fetching user", err)
	}
	if existing != nil {
		return FromDataModel(existing), nil
	}

	row := ToDataModel(u)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create user", "username", u.Username, "error", err)
		return nil, internal.NewInternalError("Error creating user", err)
	}

	s.logger.Info("user created", "user_id", row.ID, "username", row.Username, "role", row.Role)
	return FromDataModel(row), nil
}
