package admin

import "time"

type Admin struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"type:varchar(255);not null"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex:uq_admins_email"`
	PasswordHash string `gorm:"type:varchar(255);not null"`

	CreatedAt time.Time
}
