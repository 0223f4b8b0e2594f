package manager

import "time"

type Manager struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"type:varchar(255);not null"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex:uq_managers_email"`
	PasswordHash string `gorm:"type:varchar(255);not null"`

	CreatedAt time.Time
}
