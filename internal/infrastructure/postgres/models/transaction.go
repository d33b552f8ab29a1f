package models

import (
	"time"

	"github.com/au-parking/parking-core-service/internal/domain"
)

type TransactionModel struct {
	TID           string `gorm:"primaryKey"`
	LicenseNumber string `gorm:"index:idx_transactions_license"`
	TimestampIn   time.Time
	TimestampOut  *time.Time `gorm:"index:idx_transactions_open"`
	ImageIn       string
	ImageOut      string
	Fee           float64
	Paid          float64
	Status        domain.TransactionStatus `gorm:"index:idx_transactions_status"`
	Remark        string
	AddBy         string
	IsOvernight   bool
	IsCancel      bool `gorm:"index:idx_transactions_open"`
	IsEdit        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
