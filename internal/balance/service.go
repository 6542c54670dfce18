package balance

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/frahmantamala/leave-management/internal"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
)

// RepositoryAPI returns nil, nil for rows that do not exist. Reads and writes join the
// transaction carried by ctx when there is one.
type RepositoryAPI interface {
	Get(ctx context.Context, userID, leaveTypeID int64) (*leaveDatamodel.LeaveBalance, error)
	GetForUpdate(ctx context.Context, userID, leaveTypeID int64) (*leaveDatamodel.LeaveBalance, error)
	ApplyDebit(ctx context.Context, userID, leaveTypeID int64, days int) (int64, error)
	ApplyCredit(ctx context.Context, userID, leaveTypeID int64, days int) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]*leaveDatamodel.LeaveBalanceView, error)
	Create(ctx context.Context, balance *leaveDatamodel.LeaveBalance) error
}

type LedgerAPI interface {
	GetBalance(ctx context.Context, userID, leaveTypeID int64) (*Balance, error)
	Debit(ctx context.Context, userID, leaveTypeID int64, days int) error
	Credit(ctx context.Context, userID, leaveTypeID int64, days int) error
	ListByUser(ctx context.Context, userID int64) ([]BalanceResponse, error)
}

// Ledger is the only writer of leave_balances.
type Ledger struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewLedger(repo RepositoryAPI, logger *slog.Logger) *Ledger {
	return &Ledger{
		repo:   repo,
		logger: logger,
	}
}

func (l *Ledger) GetBalance(ctx context.Context, userID, leaveTypeID int64) (*Balance, error) {
	row, err := l.repo.Get(ctx, userID, leaveTypeID)
	if err != nil {
		l.logger.Error("failed to get leave balance", "user_id", userID, "leave_type_id", leaveTypeID, "error", err)
		return nil, errors.NewInternalError("Error fetching leave balance", err)
	}
	if row == nil {
		return nil, errors.ErrBalanceNotFound
	}
	return FromDataModel(row), nil
}

// Debit moves days from remaining to used. The row is locked for the rest of the caller's
// transaction and the update only applies while remaining_days covers the request.
func (l *Ledger) Debit(ctx context.Context, userID, leaveTypeID int64, days int) error {
	if days <= 0 {
		return errors.ErrInvalidDays
	}

	row, err := l.repo.GetForUpdate(ctx, userID, leaveTypeID)
	if err != nil {
		l.logger.Error("failed to lock leave balance", "user_id", userID, "leave_type_id", leaveTypeID, "error", err)
		return errors.NewInternalError("Error updating leave balance", err)
	}
	if row == nil {
		return errors.ErrBalanceNotFound
	}

	if !FromDataModel(row).CanCover(days) {
		l.logger.Warn("debit rejected, balance would go negative",
			"user_id", userID,
			"leave_type_id", leaveTypeID,
			"remaining_days", row.RemainingDays,
			"days", days)
		return negativeBalanceError(row.RemainingDays, days)
	}

	affected, err := l.repo.ApplyDebit(ctx, userID, leaveTypeID, days)
	if err != nil {
		l.logger.Error("failed to debit leave balance", "user_id", userID, "leave_type_id", leaveTypeID, "error", err)
		return errors.NewInternalError("Error updating leave balance", err)
	}
	if affected == 0 {
		return negativeBalanceError(row.RemainingDays, days)
	}

	l.logger.Info("leave balance debited", "user_id", userID, "leave_type_id", leaveTypeID, "days", days)
	return nil
}

// Credit is the inverse of Debit and is rejected when used_days would drop below zero.
func (l *Ledger) Credit(ctx context.Context, userID, leaveTypeID int64, days int) error {
	if days <= 0 {
		return errors.ErrInvalidDays
	}

	row, err := l.repo.GetForUpdate(ctx, userID, leaveTypeID)
	if err != nil {
		l.logger.Error("failed to lock leave balance", "user_id", userID, "leave_type_id", leaveTypeID, "error", err)
		return errors.NewInternalError("Error updating leave balance", err)
	}
	if row == nil {
		return errors.ErrBalanceNotFound
	}

	if row.UsedDays < days {
		return negativeUsageError(row.UsedDays, days)
	}

	affected, err := l.repo.ApplyCredit(ctx, userID, leaveTypeID, days)
	if err != nil {
		l.logger.Error("failed to credit leave balance", "user_id", userID, "leave_type_id", leaveTypeID, "error", err)
		return errors.NewInternalError("Error updating leave balance", err)
	}
	if affected == 0 {
		return negativeUsageError(row.UsedDays, days)
	}

	l.logger.Info("leave balance credited", "user_id", userID, "leave_type_id", leaveTypeID, "days", days)
	return nil
}

func (l *Ledger) ListByUser(ctx context.Context, userID int64) ([]BalanceResponse, error) {
	rows, err := l.repo.ListByUser(ctx, userID)
	if err != nil {
		l.logger.Error("failed to list leave balances", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("Error fetching leave balances", err)
	}

	responses := make([]BalanceResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, FromView(row))
	}
	return responses, nil
}

// Provision creates the ledger row for a user and leave type.
func (l *Ledger) Provision(ctx context.Context, userID, leaveTypeID int64, totalDays int) (*Balance, error) {
	if totalDays < 0 {
		return nil, errors.ErrInvalidDays
	}

	row := ToDataModel(NewBalance(userID, leaveTypeID, totalDays))
	if err := l.repo.Create(ctx, row); err != nil {
		l.logger.Error("failed to provision leave balance", "user_id", userID, "leave_type_id", leaveTypeID, "error", err)
		return nil, errors.NewInternalError("Error provisioning leave balance", err)
	}
	return FromDataModel(row), nil
}

func negativeBalanceError(available, requested int) *errors.AppError {
	return errors.NewConstraintError(
		fmt.Sprintf("Leave balance cannot go below zero. Available: %d days, Requested: %d days", available, requested),
		errors.ErrCodeNegativeBalance,
	)
}

func negativeUsageError(used, requested int) *errors.AppError {
	return errors.NewConstraintError(
		fmt.Sprintf("Used leave days cannot go below zero. Used: %d days, Requested: %d days", used, requested),
		errors.ErrCodeNegativeUsage,
	)
}
