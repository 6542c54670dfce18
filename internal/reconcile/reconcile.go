package reconcile

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/leave-management/internal"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/core/events"
)

type RepositoryAPI interface {
	ListUsage(ctx context.Context) ([]*leaveDatamodel.BalanceUsage, error)
}

const (
	ReasonUsedMismatch = "used_days_mismatch"
	ReasonInconsistent = "remaining_days_mismatch"
)

// Drift is a ledger row that disagrees with its approved requests or with itself.
type Drift struct {
	UserID        int64    `json:"user_id"`
	LeaveTypeID   int64    `json:"leave_type_id"`
	TotalDays     int      `json:"total_days"`
	UsedDays      int      `json:"used_days"`
	RemainingDays int      `json:"remaining_days"`
	ApprovedDays  int      `json:"approved_days"`
	Reasons       []string `json:"reasons"`
}

type Report struct {
	Checked   int           `json:"checked"`
	Drifts    []Drift       `json:"drifts"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

func (r *Report) Clean() bool {
	return len(r.Drifts) == 0
}

// Reconciler compares every ledger row with the approved requests it should account for.
// It only reports; corrections are left to an operator.
type Reconciler struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewReconciler(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (r *Reconciler) Run(ctx context.Context) (*Report, error) {
	report := &Report{StartedAt: time.Now(), Drifts: []Drift{}}

	rows, err := r.repo.ListUsage(ctx)
	if err != nil {
		r.logger.Error("failed to load ledger usage", "error", err)
		return nil, errors.NewInternalError("Error reconciling leave balances", err)
	}

	for _, row := range rows {
		report.Checked++

		drift, ok := check(row)
		if !ok {
			continue
		}
		report.Drifts = append(report.Drifts, drift)

		r.logger.Warn("leave balance drift",
			"user_id", drift.UserID,
			"leave_type_id", drift.LeaveTypeID,
			"used_days", drift.UsedDays,
			"approved_days", drift.ApprovedDays,
			"reasons", drift.Reasons)

		if r.publisher != nil {
			event := events.NewBalanceDriftEvent(drift.UserID, drift.LeaveTypeID, drift.UsedDays, drift.ApprovedDays)
			if err := r.publisher.Publish(ctx, event); err != nil {
				r.logger.Error("failed to publish drift event", "user_id", drift.UserID, "error", err)
			}
		}
	}

	report.Duration = time.Since(report.StartedAt)
	r.logger.Info("leave balance reconciliation finished",
		"checked", report.Checked,
		"drifts", len(report.Drifts),
		"duration_ms", report.Duration.Milliseconds())

	return report, nil
}

func check(row *leaveDatamodel.BalanceUsage) (Drift, bool) {
	var reasons []string
	if row.UsedDays != row.ApprovedDays {
		reasons = append(reasons, ReasonUsedMismatch)
	}
	if row.RemainingDays != row.TotalDays-row.UsedDays || row.RemainingDays < 0 || row.UsedDays < 0 {
		reasons = append(reasons, ReasonInconsistent)
	}
	if len(reasons) == 0 {
		return Drift{}, false
	}

	return Drift{
		UserID:        row.UserID,
		LeaveTypeID:   row.LeaveTypeID,
		TotalDays:     row.TotalDays,
		UsedDays:      row.UsedDays,
		RemainingDays: row.RemainingDays,
		ApprovedDays:  row.ApprovedDays,
		Reasons:       reasons,
	}, true
}
