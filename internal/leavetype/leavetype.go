package leavetype

import (
	"time"

	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
)

// LeaveType is reference data; it is seeded once and never changed by the engine.
type LeaveType struct {
	ID          int64
	Name        string
	Description string
	MaxDays     int
	CreatedAt   time.Time
}

func (t *LeaveType) ToResponse() LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		MaxDays:     t.MaxDays,
	}
}

func NewLeaveType(name, description string, maxDays int) *LeaveType {
	return &LeaveType{
		Name:        name,
		Description: description,
		MaxDays:     maxDays,
		CreatedAt:   time.Now(),
	}
}

func ToDataModel(t *LeaveType) *leaveDatamodel.LeaveType {
	return &leaveDatamodel.LeaveType{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		MaxDays:     t.MaxDays,
		CreatedAt:   t.CreatedAt,
	}
}

func FromDataModel(t *leaveDatamodel.LeaveType) *LeaveType {
	return &LeaveType{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		MaxDays:     t.MaxDays,
		CreatedAt:   t.CreatedAt,
	}
}
