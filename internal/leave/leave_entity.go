package leave

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type LeaveRequest struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	EmployeeID int64     `gorm:"not null;index:idx_leave_requests_employee"`
	TypeID     int64     `gorm:"not null;index:idx_leave_requests_type"`
	StartTime  time.Time `gorm:"not null"`
	EndTime    time.Time `gorm:"not null"`
	Reason     string    `gorm:"type:text"`
	Status     string    `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_status"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// IsAllowedStatusTransition encodes the whole state machine: pending is the
// only non-terminal state and it can only move to approved or rejected.
func IsAllowedStatusTransition(currentStatus, targetStatus string) bool {
	if currentStatus != StatusPending {
		return false
	}
	return targetStatus == StatusApproved || targetStatus == StatusRejected
}
