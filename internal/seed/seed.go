package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	errors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/balance"
	"github.com/frahmantamala/leave-management/internal/core/database"
	"github.com/frahmantamala/leave-management/internal/leavetype"
	"github.com/frahmantamala/leave-management/internal/user"
	"gopkg.in/yaml.v3"
)

type LeaveTypeFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	MaxDays     int    `yaml:"max_days"`
}

type UserFixture struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	FullName string `yaml:"full_name"`
	Email    string `yaml:"email"`
	Role     string `yaml:"role"`
	// Balances overrides the provisioned days per leave type name; other types get max_days.
	Balances map[string]int `yaml:"balances"`
}

type Fixture struct {
	LeaveTypes []LeaveTypeFixture `yaml:"leave_types"`
	Users      []UserFixture      `yaml:"users"`
}

func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed fixture: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed fixture: %w", err)
	}
	return Parse(data)
}

func (f *Fixture) validate() error {
	types := make(map[string]bool, len(f.LeaveTypes))
	for _, t := range f.LeaveTypes {
		if t.Name == "" || t.MaxDays <= 0 {
			return fmt.Errorf("leave type %q needs a name and positive max_days", t.Name)
		}
		types[t.Name] = true
	}
	for _, u := range f.Users {
		if u.Username == "" || u.Password == "" {
			return fmt.Errorf("user %q needs a username and password", u.Username)
		}
		for name, days := range u.Balances {
			if !types[name] {
				return fmt.Errorf("user %q has a balance for unknown leave type %q", u.Username, name)
			}
			if days < 0 {
				return fmt.Errorf("user %q has a negative balance for %q", u.Username, name)
			}
		}
	}
	return nil
}

type UserStore interface {
	EnsureUser(ctx context.Context, u *user.User) (*user.User, error)
}

type LeaveTypeStore interface {
	EnsureLeaveType(ctx context.Context, name, description string, maxDays int) (*leavetype.LeaveType, error)
}

type Ledger interface {
	GetBalance(ctx context.Context, userID, leaveTypeID int64) (*balance.Balance, error)
	Provision(ctx context.Context, userID, leaveTypeID int64, totalDays int) (*balance.Balance, error)
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Result struct {
	LeaveTypes  int
	Users       int
	Provisioned int
}

// Seeder creates the fixture rows that are missing. Existing users, leave types and
// balances are left untouched so it can run repeatedly.
type Seeder struct {
	users      UserStore
	leaveTypes LeaveTypeStore
	ledger     Ledger
	hasher     PasswordHasher
	transactor database.Transactor
	logger     *slog.Logger
}

func NewSeeder(users UserStore, leaveTypes LeaveTypeStore, ledger Ledger, hasher PasswordHasher, transactor database.Transactor, logger *slog.Logger) *Seeder {
	return &Seeder{
		users:      users,
		leaveTypes: leaveTypes,
		ledger:     ledger,
		hasher:     hasher,
		transactor: transactor,
		logger:     logger,
	}
}

func (s *Seeder) Run(ctx context.Context, f *Fixture) (*Result, error) {
	result := &Result{}

	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		types := make([]*leavetype.LeaveType, 0, len(f.LeaveTypes))
		for _, t := range f.LeaveTypes {
			lt, err := s.leaveTypes.EnsureLeaveType(txCtx, t.Name, t.Description, t.MaxDays)
			if err != nil {
				return err
			}
			types = append(types, lt)
			result.LeaveTypes++
		}

		for _, u := range f.Users {
			hash, err := s.hasher.HashPassword(u.Password)
			if err != nil {
				return errors.NewInternalError("Error hashing password", err)
			}

			role := u.Role
			if role == "" {
				role = errors.RoleEmployee
			}

			stored, err := s.users.EnsureUser(txCtx, &user.User{
				Username:     u.Username,
				PasswordHash: hash,
				FullName:     u.FullName,
				Email:        u.Email,
				Role:         role,
			})
			if err != nil {
				return err
			}
			result.Users++

			for _, lt := range types {
				days, ok := u.Balances[lt.Name]
				if !ok {
					days = lt.MaxDays
				}

				provisioned, err := s.provision(txCtx, stored.ID, lt.ID, days)
				if err != nil {
					return err
				}
				if provisioned {
					result.Provisioned++
				}
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("seeding failed", "error", err)
		return nil, err
	}

	s.logger.Info("seeding complete",
		"leave_types", result.LeaveTypes,
		"users", result.Users,
		"balances_provisioned", result.Provisioned)
	return result, nil
}

func (s *Seeder) provision(ctx context.Context, userID, leaveTypeID int64, days int) (bool, error) {
	_, err := s.ledger.GetBalance(ctx, userID, leaveTypeID)
	if err == nil {
		return false, nil
	}
	if !errors.IsType(err, errors.ErrorTypeNotFound) {
		return false, err
	}

	if _, err := s.ledger.Provision(ctx, userID, leaveTypeID, days); err != nil {
		return false, err
	}
	s.logger.Debug("balance provisioned", "user_id", userID, "leave_type_id", leaveTypeID, "total_days", days)
	return true, nil
}
