package postgres

import (
	"context"

	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/jmoiron/sqlx"
)

const requestColumns = `lr.id, lr.user_id, lr.leave_type_id, lr.start_date, lr.end_date, lr.total_days,
	lr.reason, lr.status, lr.manager_comments, lr.reviewed_at, lr.created_at, lt.name AS leave_type_name`

// QueryRepository serves the read projections with plain SQL joins over sqlx.
type QueryRepository struct {
	db *sqlx.DB
}

func NewQueryRepository(db *sqlx.DB) leave.QueryRepositoryAPI {
	return &QueryRepository{db: db}
}

func (r *QueryRepository) ListByUser(ctx context.Context, userID int64, status string) ([]*leaveDatamodel.LeaveRequestView, error) {
	query := `SELECT ` + requestColumns + `
		FROM leave_requests lr
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		WHERE lr.user_id = ?`
	args := []interface{}{userID}

	if status != "" {
		query += ` AND lr.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY lr.created_at DESC, lr.id DESC`

	return r.selectViews(ctx, query, args...)
}

func (r *QueryRepository) ListAll(ctx context.Context) ([]*leaveDatamodel.LeaveRequestView, error) {
	query := `SELECT ` + requestColumns + `, u.full_name, u.email
		FROM leave_requests lr
		JOIN users u ON lr.user_id = u.id
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		ORDER BY lr.created_at DESC, lr.id DESC`

	return r.selectViews(ctx, query)
}

// ListApproved returns approved requests whose range overlaps window; nil means unbounded.
func (r *QueryRepository) ListApproved(ctx context.Context, window *leave.Window) ([]*leaveDatamodel.LeaveRequestView, error) {
	query := `SELECT ` + requestColumns + `, u.full_name
		FROM leave_requests lr
		JOIN users u ON lr.user_id = u.id
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		WHERE lr.status = ?`
	args := []interface{}{leave.StatusApproved}

	if window != nil {
		query += ` AND lr.start_date <= ? AND lr.end_date >= ?`
		args = append(args, window.To, window.From)
	}
	query += ` ORDER BY lr.start_date ASC, lr.id ASC`

	return r.selectViews(ctx, query, args...)
}

func (r *QueryRepository) selectViews(ctx context.Context, query string, args ...interface{}) ([]*leaveDatamodel.LeaveRequestView, error) {
	rows := []*leaveDatamodel.LeaveRequestView{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return rows, nil
}
