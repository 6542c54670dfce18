package leavetype

type LeaveTypeResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxDays     int    `json:"max_days"`
}
