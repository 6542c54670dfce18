package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLeaveSubmitted = "leave.request.submitted"
	EventTypeLeaveReviewed  = "leave.request.reviewed"
	EventTypeLeaveCancelled = "leave.request.cancelled"
	EventTypeBalanceDrift   = "leave.balance.drift"
)

type LeaveSubmittedEvent struct {
	BaseEvent
	RequestID   int64 `json:"request_id"`
	UserID      int64 `json:"user_id"`
	LeaveTypeID int64 `json:"leave_type_id"`
	TotalDays   int   `json:"total_days"`
}

func NewLeaveSubmittedEvent(requestID, userID, leaveTypeID int64, totalDays int) *LeaveSubmittedEvent {
	return &LeaveSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":    requestID,
				"user_id":       userID,
				"leave_type_id": leaveTypeID,
				"total_days":    totalDays,
			},
		},
		RequestID:   requestID,
		UserID:      userID,
		LeaveTypeID: leaveTypeID,
		TotalDays:   totalDays,
	}
}

type LeaveReviewedEvent struct {
	BaseEvent
	RequestID       int64  `json:"request_id"`
	UserID          int64  `json:"user_id"`
	LeaveTypeID     int64  `json:"leave_type_id"`
	Status          string `json:"status"`
	TotalDays       int    `json:"total_days"`
	ManagerComments string `json:"manager_comments"`
}

func NewLeaveReviewedEvent(requestID, userID, leaveTypeID int64, status string, totalDays int, comments string) *LeaveReviewedEvent {
	return &LeaveReviewedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveReviewed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":       requestID,
				"user_id":          userID,
				"leave_type_id":    leaveTypeID,
				"status":           status,
				"total_days":       totalDays,
				"manager_comments": comments,
			},
		},
		RequestID:       requestID,
		UserID:          userID,
		LeaveTypeID:     leaveTypeID,
		Status:          status,
		TotalDays:       totalDays,
		ManagerComments: comments,
	}
}

type LeaveCancelledEvent struct {
	BaseEvent
	RequestID int64 `json:"request_id"`
	UserID    int64 `json:"user_id"`
}

func NewLeaveCancelledEvent(requestID, userID int64) *LeaveCancelledEvent {
	return &LeaveCancelledEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveCancelled,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id": requestID,
				"user_id":    userID,
			},
		},
		RequestID: requestID,
		UserID:    userID,
	}
}

// BalanceDriftEvent is raised by the reconciler when a ledger row disagrees with approved requests.
type BalanceDriftEvent struct {
	BaseEvent
	UserID       int64 `json:"user_id"`
	LeaveTypeID  int64 `json:"leave_type_id"`
	LedgerUsed   int   `json:"ledger_used"`
	ApprovedDays int   `json:"approved_days"`
}

func NewBalanceDriftEvent(userID, leaveTypeID int64, ledgerUsed, approvedDays int) *BalanceDriftEvent {
	return &BalanceDriftEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeBalanceDrift,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":       userID,
				"leave_type_id": leaveTypeID,
				"ledger_used":   ledgerUsed,
				"approved_days": approvedDays,
			},
		},
		UserID:       userID,
		LeaveTypeID:  leaveTypeID,
		LedgerUsed:   ledgerUsed,
		ApprovedDays: approvedDays,
	}
}
