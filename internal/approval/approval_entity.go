package approval

import "time"

const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// Approval is append-only. The unique index on leave_id is the database
// backstop for the single-decision invariant.
type Approval struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	LeaveID    int64     `gorm:"not null;uniqueIndex:uq_approvals_leave_id"`
	ApprovedBy int64     `gorm:"not null"`
	ApprovedAt time.Time `gorm:"not null"`
	Decision   string    `gorm:"type:varchar(20);not null"`
}

func (Approval) TableName() string {
	return "approvals"
}
