package postgres

import (
	"context"

	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/reconcile"
	"github.com/jmoiron/sqlx"
)

type UsageRepository struct {
	db *sqlx.DB
}

func NewUsageRepository(db *sqlx.DB) reconcile.RepositoryAPI {
	return &UsageRepository{db: db}
}

// ListUsage pairs each ledger row with the sum of its approved request days.
func (r *UsageRepository) ListUsage(ctx context.Context) ([]*leaveDatamodel.BalanceUsage, error) {
	query := r.db.Rebind(`SELECT lb.user_id, lb.leave_type_id, lb.total_days, lb.used_days, lb.remaining_days,
			COALESCE(SUM(lr.total_days), 0) AS approved_days
		FROM leave_balances lb
		LEFT JOIN leave_requests lr
			ON lr.user_id = lb.user_id AND lr.leave_type_id = lb.leave_type_id AND lr.status = ?
		GROUP BY lb.user_id, lb.leave_type_id, lb.total_days, lb.used_days, lb.remaining_days
		ORDER BY lb.user_id, lb.leave_type_id`)

	rows := []*leaveDatamodel.BalanceUsage{}
	if err := r.db.SelectContext(ctx, &rows, query, "approved"); err != nil {
		return nil, err
	}
	return rows, nil
}
