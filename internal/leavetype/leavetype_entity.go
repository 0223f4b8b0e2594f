package leavetype

import "time"

type LeaveType struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex:uq_leave_types_name"`

	CreatedAt time.Time
}

func (LeaveType) TableName() string {
	return "leave_types"
}
