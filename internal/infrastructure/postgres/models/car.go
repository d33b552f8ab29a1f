package models

import (
	"time"

	"github.com/lib/pq"
)

type CarModel struct {
	LicenseNumber string         `gorm:"primaryKey"`
	Owners        pq.StringArray `gorm:"type:text[]"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
