package models

import (
	"time"

	"github.com/au-parking/parking-core-service/internal/domain"
)

type PaymentModel struct {
	PID          string `gorm:"primaryKey"`
	TID          string `gorm:"index:idx_payments_tid"`
	ClientSecret string
	Amount       float64
	Timestamp    time.Time
	Status       domain.PaymentStatus `gorm:"index:idx_payments_status"`
	Reason       string
	PaidBy       string
	IsEdit       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
