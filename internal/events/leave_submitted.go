package events

import "time"

const LeaveSubmittedTopic = "leave.submitted"

type LeaveSubmittedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    int64     `json:"leave_id"`
	EmployeeID int64     `json:"employee_id"`
	TypeID     int64     `json:"type_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	OccurredAt time.Time `json:"occurred_at"`
}
