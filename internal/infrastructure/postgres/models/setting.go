package models

import "time"

// SettingModel is a single well-known settings value. The per-day rate lives
// under key "fee".
type SettingModel struct {
	Key         string `gorm:"primaryKey"`
	NumberValue float64
	UpdatedAt   time.Time
}
