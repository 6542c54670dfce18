package balance

import leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"

type BalanceResponse struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	LeaveTypeID   int64  `json:"leave_type_id"`
	TotalDays     int    `json:"total_days"`
	UsedDays      int    `json:"used_days"`
	RemainingDays int    `json:"remaining_days"`
	LeaveTypeName string `json:"leave_type_name,omitempty"`
	Description   string `json:"description,omitempty"`
}

func FromView(v *leaveDatamodel.LeaveBalanceView) BalanceResponse {
	return BalanceResponse{
		ID:            v.ID,
		UserID:        v.UserID,
		LeaveTypeID:   v.LeaveTypeID,
		TotalDays:     v.TotalDays,
		UsedDays:      v.UsedDays,
		RemainingDays: v.RemainingDays,
		LeaveTypeName: v.LeaveTypeName,
		Description:   v.Description,
	}
}
