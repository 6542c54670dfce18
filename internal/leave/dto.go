package leave

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	errors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/common/validation"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
)

// ID decodes from a JSON number or a numeric string, since form-backed clients send either.
type ID int64

func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	*id = ID(v)
	return nil
}

type SubmitRequestDTO struct {
	UserID      ID     `json:"userId"`
	LeaveTypeID ID     `json:"leaveTypeId"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Reason      string `json:"reason"`
}

func (d SubmitRequestDTO) Validate() *errors.AppError {
	return validation.ValidateLeaveSubmission(int64(d.UserID), int64(d.LeaveTypeID), d.StartDate, d.EndDate, d.Reason)
}

// Dates returns the parsed range, truncated to calendar dates. Call after Validate.
func (d SubmitRequestDTO) Dates() (time.Time, time.Time, error) {
	start, err := validation.ParseDate(d.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := validation.ParseDate(d.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return DateOnly(start), DateOnly(end), nil
}

type ReviewRequestDTO struct {
	Status          string `json:"status"`
	ManagerComments string `json:"managerComments"`
}

func (d ReviewRequestDTO) Validate() *errors.AppError {
	if err := validation.ValidateReviewStatus(d.Status); err != nil {
		return errors.ErrInvalidStatus
	}
	return nil
}

// LeaveResponse is the row shape clients read; employee fields are only set on manager views.
type LeaveResponse struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id"`
	LeaveTypeID     int64      `json:"leave_type_id"`
	LeaveTypeName   string     `json:"leave_type_name"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	TotalDays       int        `json:"total_days"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	ManagerComments *string    `json:"manager_comments"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	FullName        string     `json:"full_name,omitempty"`
	Email           string     `json:"email,omitempty"`
}

// FromEntity renders a stored request; joined names are left empty.
func FromEntity(r *LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		LeaveTypeID:     r.LeaveTypeID,
		StartDate:       r.StartDate.Format(validation.DateLayout),
		EndDate:         r.EndDate.Format(validation.DateLayout),
		TotalDays:       r.TotalDays,
		Reason:          r.Reason,
		Status:          r.Status,
		ManagerComments: r.ManagerComments,
		ReviewedAt:      r.ReviewedAt,
		CreatedAt:       r.CreatedAt,
	}
}

func FromView(v *leaveDatamodel.LeaveRequestView) LeaveResponse {
	resp := LeaveResponse{
		ID:              v.ID,
		UserID:          v.UserID,
		LeaveTypeID:     v.LeaveTypeID,
		LeaveTypeName:   v.LeaveTypeName,
		StartDate:       v.StartDate.Format(validation.DateLayout),
		EndDate:         v.EndDate.Format(validation.DateLayout),
		TotalDays:       v.TotalDays,
		Status:          v.Status,
		ManagerComments: v.ManagerComments,
		ReviewedAt:      v.ReviewedAt,
		CreatedAt:       v.CreatedAt,
	}
	if v.Reason != nil {
		resp.Reason = *v.Reason
	}
	if v.FullName != nil {
		resp.FullName = *v.FullName
	}
	if v.Email != nil {
		resp.Email = *v.Email
	}
	return resp
}
