package leave

import "time"

// LeaveBalanceView is a balance row joined with its leave type.
type LeaveBalanceView struct {
	ID            int64  `gorm:"column:id" db:"id"`
	UserID        int64  `gorm:"column:user_id" db:"user_id"`
	LeaveTypeID   int64  `gorm:"column:leave_type_id" db:"leave_type_id"`
	TotalDays     int    `gorm:"column:total_days" db:"total_days"`
	UsedDays      int    `gorm:"column:used_days" db:"used_days"`
	RemainingDays int    `gorm:"column:remaining_days" db:"remaining_days"`
	LeaveTypeName string `gorm:"column:leave_type_name" db:"leave_type_name"`
	Description   string `gorm:"column:description" db:"description"`
}

// LeaveRequestView is a request row joined with its leave type and, for manager
// projections, the requesting employee.
type LeaveRequestView struct {
	ID              int64      `db:"id"`
	UserID          int64      `db:"user_id"`
	LeaveTypeID     int64      `db:"leave_type_id"`
	StartDate       time.Time  `db:"start_date"`
	EndDate         time.Time  `db:"end_date"`
	TotalDays       int        `db:"total_days"`
	Reason          *string    `db:"reason"`
	Status          string     `db:"status"`
	ManagerComments *string    `db:"manager_comments"`
	ReviewedAt      *time.Time `db:"reviewed_at"`
	CreatedAt       time.Time  `db:"created_at"`
	LeaveTypeName   string     `db:"leave_type_name"`
	FullName        *string    `db:"full_name"`
	Email           *string    `db:"email"`
}

// BalanceUsage pairs a ledger row with the days its approved requests add up to.
type BalanceUsage struct {
	UserID        int64 `db:"user_id"`
	LeaveTypeID   int64 `db:"leave_type_id"`
	TotalDays     int   `db:"total_days"`
	UsedDays      int   `db:"used_days"`
	RemainingDays int   `db:"remaining_days"`
	ApprovedDays  int   `db:"approved_days"`
}
