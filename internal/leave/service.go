package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/balance"
	"github.com/frahmantamala/leave-management/internal/core/database"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/core/events"
)

// RepositoryAPI returns nil, nil for missing rows. Every call joins the transaction carried by ctx.
type RepositoryAPI interface {
	Create(ctx context.Context, request *leaveDatamodel.LeaveRequest) error
	GetByID(ctx context.Context, id int64) (*leaveDatamodel.LeaveRequest, error)
	GetForUpdate(ctx context.Context, id int64) (*leaveDatamodel.LeaveRequest, error)
	UpdateReview(ctx context.Context, id int64, status string, comments *string, reviewedAt time.Time) (int64, error)
	DeletePending(ctx context.Context, id int64) (int64, error)
}

// Service drives the request lifecycle. It is the only writer of leave_requests and the
// only caller of the ledger's mutating operations.
type Service struct {
	repo       RepositoryAPI
	ledger     balance.LedgerAPI
	transactor database.Transactor
	publisher  events.Publisher
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, ledger balance.LedgerAPI, transactor database.Transactor, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		ledger:     ledger,
		transactor: transactor,
		publisher:  publisher,
		logger:     logger,
	}
}

// SubmitRequest records a pending request after checking the balance covers it.
// Nothing is reserved; the ledger only moves on approval.
func (s *Service) SubmitRequest(ctx context.Context, dto SubmitRequestDTO) (int64, error) {
	if err := dto.Validate(); err != nil {
		return 0, err
	}

	start, end, err := dto.Dates()
	if err != nil {
		return 0, errors.NewValidationError("Invalid date format", errors.ErrCodeInvalidDate)
	}

	request := NewLeaveRequest(int64(dto.UserID), int64(dto.LeaveTypeID), start, end, dto.Reason)
	if request.TotalDays <= 0 {
		return 0, errors.ErrInvalidDateRange
	}

	row := ToDataModel(request)
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		bal, err := s.ledger.GetBalance(ctx, request.UserID, request.LeaveTypeID)
		if err != nil {
			return err
		}

		if request.TotalDays > bal.RemainingDays {
			s.logger.Warn("leave request exceeds balance",
				"user_id", request.UserID,
				"leave_type_id", request.LeaveTypeID,
				"remaining_days", bal.RemainingDays,
				"total_days", request.TotalDays)
			return errors.NewInsufficientBalanceError(bal.RemainingDays, request.TotalDays)
		}

		if err := s.repo.Create(ctx, row); err != nil {
			s.logger.Error("failed to create leave request", "user_id", request.UserID, "error", err)
			return errors.NewInternalError("Error submitting leave request", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("leave request submitted",
		"request_id", row.ID,
		"user_id", row.UserID,
		"leave_type_id", row.LeaveTypeID,
		"total_days", row.TotalDays)
	s.publish(ctx, events.NewLeaveSubmittedEvent(row.ID, row.UserID, row.LeaveTypeID, row.TotalDays))

	return row.ID, nil
}

// ReviewRequest moves a pending request to approved or rejected. On approval the ledger
// debit commits or rolls back together with the status change.
func (s *Service) ReviewRequest(ctx context.Context, requestID int64, dto ReviewRequestDTO) (string, error) {
	if err := dto.Validate(); err != nil {
		return "", err
	}

	var comments *string
	if dto.ManagerComments != "" {
		c := dto.ManagerComments
		comments = &c
	}

	var reviewed *leaveDatamodel.LeaveRequest
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.repo.GetForUpdate(ctx, requestID)
		if err != nil {
			s.logger.Error("failed to load leave request", "request_id", requestID, "error", err)
			return errors.NewInternalError("Error reviewing leave request", err)
		}
		if row == nil || row.Status != StatusPending {
			return errors.ErrAlreadyReviewed
		}

		affected, err := s.repo.UpdateReview(ctx, requestID, dto.Status, comments, time.Now().UTC())
		if err != nil {
			s.logger.Error("failed to update leave request", "request_id", requestID, "error", err)
			return errors.NewInternalError("Error reviewing leave request", err)
		}
		if affected == 0 {
			return errors.ErrAlreadyReviewed
		}

		if dto.Status == StatusApproved {
			if err := s.ledger.Debit(ctx, row.UserID, row.LeaveTypeID, row.TotalDays); err != nil {
				return err
			}
		}

		reviewed = row
		return nil
	})
	if err != nil {
		if errors.IsType(err, errors.ErrorTypeConstraint) {
			s.logger.Warn("leave approval rolled back", "request_id", requestID, "error", err)
		}
		return "", err
	}

	s.logger.Info("leave request reviewed",
		"request_id", requestID,
		"user_id", reviewed.UserID,
		"status", dto.Status,
		"total_days", reviewed.TotalDays)
	s.publish(ctx, events.NewLeaveReviewedEvent(requestID, reviewed.UserID, reviewed.LeaveTypeID, dto.Status, reviewed.TotalDays, dto.ManagerComments))

	return fmt.Sprintf("Leave request %s successfully", dto.Status), nil
}

// CancelRequest withdraws a pending request by deleting it. The ledger is untouched
// because pending requests never debit it.
func (s *Service) CancelRequest(ctx context.Context, requestID int64) (string, error) {
	var cancelled *leaveDatamodel.LeaveRequest
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.repo.GetForUpdate(ctx, requestID)
		if err != nil {
			s.logger.Error("failed to load leave request", "request_id", requestID, "error", err)
			return errors.NewInternalError("Error cancelling leave request", err)
		}
		if row == nil || row.Status != StatusPending {
			return errors.ErrNotCancellable
		}

		affected, err := s.repo.DeletePending(ctx, requestID)
		if err != nil {
			s.logger.Error("failed to delete leave request", "request_id", requestID, "error", err)
			return errors.NewInternalError("Error cancelling leave request", err)
		}
		if affected == 0 {
			return errors.ErrNotCancellable
		}

		cancelled = row
		return nil
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("leave request cancelled", "request_id", requestID, "user_id", cancelled.UserID)
	s.publish(ctx, events.NewLeaveCancelledEvent(requestID, cancelled.UserID))

	return "Leave request cancelled successfully", nil
}

// GetRequest returns a single request as stored.
func (s *Service) GetRequest(ctx context.Context, requestID int64) (*LeaveRequest, error) {
	row, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		s.logger.Error("failed to get leave request", "request_id", requestID, "error", err)
		return nil, errors.NewInternalError("Error fetching leave request", err)
	}
	if row == nil {
		return nil, errors.ErrRequestNotFound
	}
	return FromDataModel(row), nil
}

// publish runs after commit; a failed handler never undoes the committed change.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
