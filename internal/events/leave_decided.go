package events

import "time"

const LeaveDecidedTopic = "leave.decided"

type LeaveDecidedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    int64     `json:"leave_id"`
	EmployeeID int64     `json:"employee_id"`
	TypeID     int64     `json:"type_id"`
	Decision   string    `json:"decision"`
	DecidedBy  int64     `json:"decided_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
