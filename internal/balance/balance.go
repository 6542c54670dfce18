package balance

import (
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
)

type Balance struct {
	ID            int64
	UserID        int64
	LeaveTypeID   int64
	TotalDays     int
	UsedDays      int
	RemainingDays int
}

func (b *Balance) CanCover(days int) bool {
	return days > 0 && b.RemainingDays >= days
}

// Consistent reports whether the row satisfies remaining = total - used with no negatives.
func (b *Balance) Consistent() bool {
	return b.UsedDays >= 0 && b.RemainingDays >= 0 && b.RemainingDays == b.TotalDays-b.UsedDays
}

func (b *Balance) ToResponse() BalanceResponse {
	return BalanceResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		LeaveTypeID:   b.LeaveTypeID,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays,
	}
}

// NewBalance provisions a fresh ledger row with nothing used.
func NewBalance(userID, leaveTypeID int64, totalDays int) *Balance {
	return &Balance{
		UserID:        userID,
		LeaveTypeID:   leaveTypeID,
		TotalDays:     totalDays,
		RemainingDays: totalDays,
	}
}

func FromDataModel(b *leaveDatamodel.LeaveBalance) *Balance {
	return &Balance{
		ID:            b.ID,
		UserID:        b.UserID,
		LeaveTypeID:   b.LeaveTypeID,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays,
	}
}

func ToDataModel(b *Balance) *leaveDatamodel.LeaveBalance {
	return &leaveDatamodel.LeaveBalance{
		ID:            b.ID,
		UserID:        b.UserID,
		LeaveTypeID:   b.LeaveTypeID,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays,
	}
}
