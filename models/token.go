package models

import "time"

type RevokedToken struct {
	ID        uint      `gorm:"primaryKey"`
	Token     string    `gorm:"size:1024;not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null;index"`
}
