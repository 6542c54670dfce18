package leave

import "time"

type LeaveType struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	MaxDays     int       `gorm:"column:max_days;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (LeaveType) TableName() string {
	return "leave_types"
}

type LeaveBalance struct {
	ID            int64     `gorm:"primaryKey"`
	UserID        int64     `gorm:"column:user_id;not null;uniqueIndex:idx_leave_balances_user_type"`
	LeaveTypeID   int64     `gorm:"column:leave_type_id;not null;uniqueIndex:idx_leave_balances_user_type"`
	TotalDays     int       `gorm:"column:total_days;not null"`
	UsedDays      int       `gorm:"column:used_days;not null;default:0"`
	RemainingDays int       `gorm:"column:remaining_days;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

type LeaveRequest struct {
	ID              int64      `gorm:"primaryKey"`
	UserID          int64      `gorm:"column:user_id;not null;index"`
	LeaveTypeID     int64      `gorm:"column:leave_type_id;not null"`
	StartDate       time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate         time.Time  `gorm:"column:end_date;type:date;not null"`
	TotalDays       int        `gorm:"column:total_days;not null"`
	Reason          string     `gorm:"column:reason"`
	Status          string     `gorm:"column:status;not null;default:pending;index"`
	ManagerComments *string    `gorm:"column:manager_comments"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}
