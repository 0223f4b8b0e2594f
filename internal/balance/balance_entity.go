package balance

import "time"

type Balance struct {
	ID             int64 `gorm:"primaryKey;autoIncrement"`
	EmployeeID     int64 `gorm:"not null;uniqueIndex:uq_balances_employee_type"`
	TypeID         int64 `gorm:"not null;uniqueIndex:uq_balances_employee_type"`
	TotalAllocated int   `gorm:"not null;default:0;check:chk_balances_allocated,total_allocated >= 0"`
	TotalUsed      int   `gorm:"not null;default:0;check:chk_balances_used,total_used >= 0 AND total_used <= total_allocated"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Remaining is derived, never stored.
func (b Balance) Remaining() int {
	return b.TotalAllocated - b.TotalUsed
}
