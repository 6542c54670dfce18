package leave

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/balance"
	"github.com/frahmantamala/leave-management/internal/core/common/validation"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
)

// QueryRepositoryAPI reads committed rows; each method is a single statement.
type QueryRepositoryAPI interface {
	ListByUser(ctx context.Context, userID int64, status string) ([]*leaveDatamodel.LeaveRequestView, error)
	ListAll(ctx context.Context) ([]*leaveDatamodel.LeaveRequestView, error)
	ListApproved(ctx context.Context, window *Window) ([]*leaveDatamodel.LeaveRequestView, error)
}

// Window is an inclusive date range.
type Window struct {
	From time.Time
	To   time.Time
}

type QueryService struct {
	repo   QueryRepositoryAPI
	ledger balance.LedgerAPI
	logger *slog.Logger
}

func NewQueryService(repo QueryRepositoryAPI, ledger balance.LedgerAPI, logger *slog.Logger) *QueryService {
	return &QueryService{
		repo:   repo,
		ledger: ledger,
		logger: logger,
	}
}

// ListByUser returns the user's requests newest first, optionally narrowed to one status.
func (q *QueryService) ListByUser(ctx context.Context, userID int64, status string) ([]LeaveResponse, error) {
	v := validation.NewValidator()
	v.Field("userId", userID).Required()
	if status != "" {
		v.Field("status", status).OneOf(Statuses...)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}

	rows, err := q.repo.ListByUser(ctx, userID, status)
	if err != nil {
		q.logger.Error("failed to list user leave requests", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("Error fetching leave requests", err)
	}
	return toResponses(rows), nil
}

// ListAll returns every request newest first with the requesting employee attached.
func (q *QueryService) ListAll(ctx context.Context) ([]LeaveResponse, error) {
	rows, err := q.repo.ListAll(ctx)
	if err != nil {
		q.logger.Error("failed to list leave requests", "error", err)
		return nil, errors.NewInternalError("Error fetching leave requests", err)
	}
	return toResponses(rows), nil
}

// ListCalendar returns approved requests overlapping the period, earliest start first.
// A month without a year matches that month in every year; no filters means all.
func (q *QueryService) ListCalendar(ctx context.Context, year, month *int) ([]LeaveResponse, error) {
	if err := validation.ValidatePeriod(year, month); err != nil {
		return nil, err
	}

	rows, err := q.repo.ListApproved(ctx, CalendarWindow(year, month))
	if err != nil {
		q.logger.Error("failed to list calendar leave requests", "error", err)
		return nil, errors.NewInternalError("Error fetching calendar data", err)
	}

	if year == nil && month != nil {
		rows = inMonth(rows, time.Month(*month))
	}
	return toResponses(rows), nil
}

func (q *QueryService) ListBalances(ctx context.Context, userID int64) ([]balance.BalanceResponse, error) {
	if userID <= 0 {
		return nil, errors.NewValidationFieldError("userId", "userId is required", errors.ErrCodeMissingField)
	}
	return q.ledger.ListByUser(ctx, userID)
}

// CalendarWindow resolves optional year and month filters into a date range, or nil for no bound.
// A month without a year has no single range and is left to CoversMonth.
func CalendarWindow(year, month *int) *Window {
	switch {
	case year == nil:
		return nil
	case month == nil:
		from := time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return &Window{From: from, To: from.AddDate(1, 0, -1)}
	default:
		from := time.Date(*year, time.Month(*month), 1, 0, 0, 0, 0, time.UTC)
		return &Window{From: from, To: from.AddDate(0, 1, -1)}
	}
}

// CoversMonth reports whether the inclusive range [start, end] touches month m of any year.
func CoversMonth(start, end time.Time, m time.Month) bool {
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12 && !cur.After(last); i++ {
		if cur.Month() == m {
			return true
		}
		cur = cur.AddDate(0, 1, 0)
	}
	return false
}

func inMonth(rows []*leaveDatamodel.LeaveRequestView, m time.Month) []*leaveDatamodel.LeaveRequestView {
	out := rows[:0]
	for _, row := range rows {
		if CoversMonth(row.StartDate, row.EndDate, m) {
			out = append(out, row)
		}
	}
	return out
}

func toResponses(rows []*leaveDatamodel.LeaveRequestView) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromView(row))
	}
	return out
}
