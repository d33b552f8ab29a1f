package domain

import "time"

type TransactionStatus string

const (
	StatusUnpaid TransactionStatus = "Unpaid"
	StatusPaid   TransactionStatus = "Paid"
	StatusCancel TransactionStatus = "Cancel"
)

// Transaction is one parking session, from entrance scan to exit or cancellation.
// TimestampOut == nil means the vehicle is still inside the facility.
type Transaction struct {
	TID           string
	LicenseNumber string
	TimestampIn   time.Time
	TimestampOut  *time.Time
	ImageIn       string
	ImageOut      string
	Fee           float64
	Paid          float64
	Status        TransactionStatus
	Remark        string
	AddBy         string
	IsOvernight   bool
	IsCancel      bool
	IsEdit        bool
}

// TransactionStatusOf derives the status from the money fields.
// Cancel is sticky and wins over everything else.
func TransactionStatusOf(fee, paid float64, isCancel bool) TransactionStatus {
	if isCancel {
		return StatusCancel
	}
	if fee <= paid {
		return StatusPaid
	}
	return StatusUnpaid
}
