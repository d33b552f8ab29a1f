package domain

import "time"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentProcess  PaymentStatus = "Process"
	PaymentSuccess  PaymentStatus = "Success"
	PaymentFailed   PaymentStatus = "Failed"
	PaymentRefund   PaymentStatus = "Refund"
	PaymentCanceled PaymentStatus = "Canceled"
)

// Payment is one funds-movement attempt against a transaction's outstanding fee.
// PID is the gateway intent id. Amount is fixed once the payment leaves Pending.
type Payment struct {
	PID          string
	TID          string
	ClientSecret string
	Amount       float64
	Timestamp    time.Time
	Status       PaymentStatus
	Reason       string
	PaidBy       string
	IsEdit       bool
}

// Terminal reports whether no further status transition is permitted.
// Success still allows the refund edge.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentFailed || s == PaymentRefund || s == PaymentCanceled
}

var paymentEdges = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentProcess, PaymentSuccess, PaymentFailed},
	PaymentProcess: {PaymentSuccess, PaymentFailed},
	PaymentSuccess: {PaymentRefund},
}

// AllowedPaymentEdge reports whether the status transition from -> to is permitted.
func AllowedPaymentEdge(from, to PaymentStatus) bool {
	for _, next := range paymentEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}
