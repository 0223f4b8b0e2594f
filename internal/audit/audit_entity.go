package audit

import "time"

type AuditLog struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	ActorType   string    `gorm:"type:varchar(20);not null;index:idx_audit_logs_actor"`
	ActorID     int64     `gorm:"not null;index:idx_audit_logs_actor"`
	Action      string    `gorm:"type:varchar(50);not null"`
	TargetTable string    `gorm:"type:varchar(50);not null"`
	TargetID    int64     `gorm:"not null"`
	Timestamp   time.Time `gorm:"not null;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
