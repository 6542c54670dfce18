package leave

import (
	"math"
	"time"

	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// Statuses lists every value a request can be filtered by.
var Statuses = []string{StatusPending, StatusApproved, StatusRejected, StatusCancelled}

type LeaveRequest struct {
	ID              int64
	UserID          int64
	LeaveTypeID     int64
	StartDate       time.Time
	EndDate         time.Time
	TotalDays       int
	Reason          string
	Status          string
	ManagerComments *string
	ReviewedAt      *time.Time
	CreatedAt       time.Time
}

// NewLeaveRequest builds a pending request; the day count is derived from the range.
func NewLeaveRequest(userID, leaveTypeID int64, start, end time.Time, reason string) *LeaveRequest {
	start, end = DateOnly(start), DateOnly(end)
	return &LeaveRequest{
		UserID:      userID,
		LeaveTypeID: leaveTypeID,
		StartDate:   start,
		EndDate:     end,
		TotalDays:   CountDays(start, end),
		Reason:      reason,
		Status:      StatusPending,
	}
}

func (r *LeaveRequest) IsPending() bool {
	return r.Status == StatusPending
}

// CountDays is the inclusive calendar-day length of [start, end]; a partial day counts as a whole one.
// Zero or negative means the range is inverted.
func CountDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours()/24)) + 1
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FromDataModel(r *leaveDatamodel.LeaveRequest) *LeaveRequest {
	return &LeaveRequest{
		ID:              r.ID,
		UserID:          r.UserID,
		LeaveTypeID:     r.LeaveTypeID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		TotalDays:       r.TotalDays,
		Reason:          r.Reason,
		Status:          r.Status,
		ManagerComments: r.ManagerComments,
		ReviewedAt:      r.ReviewedAt,
		CreatedAt:       r.CreatedAt,
	}
}

func ToDataModel(r *LeaveRequest) *leaveDatamodel.LeaveRequest {
	return &leaveDatamodel.LeaveRequest{
		ID:              r.ID,
		UserID:          r.UserID,
		LeaveTypeID:     r.LeaveTypeID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		TotalDays:       r.TotalDays,
		Reason:          r.Reason,
		Status:          r.Status,
		ManagerComments: r.ManagerComments,
		ReviewedAt:      r.ReviewedAt,
		CreatedAt:       r.CreatedAt,
	}
}
