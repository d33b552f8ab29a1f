package domain_test

import (
	"testing"

	"github.com/au-parking/parking-core-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAllowedPaymentEdge(t *testing.T) {
	tests := []struct {
		name string
		from domain.PaymentStatus
		to   domain.PaymentStatus
		want bool
	}{
		{"pending to process", domain.PaymentPending, domain.PaymentProcess, true},
		{"pending to success", domain.PaymentPending, domain.PaymentSuccess, true},
		{"pending to failed", domain.PaymentPending, domain.PaymentFailed, true},
		{"pending to refund", domain.PaymentPending, domain.PaymentRefund, false},
		{"process to success", domain.PaymentProcess, domain.PaymentSuccess, true},
		{"process to failed", domain.PaymentProcess, domain.PaymentFailed, true},
		{"process back to pending", domain.PaymentProcess, domain.PaymentPending, false},
		{"success to refund", domain.PaymentSuccess, domain.PaymentRefund, true},
		{"success back to pending", domain.PaymentSuccess, domain.PaymentPending, false},
		{"failed is terminal", domain.PaymentFailed, domain.PaymentPending, false},
		{"refund is terminal", domain.PaymentRefund, domain.PaymentSuccess, false},
		{"canceled is terminal", domain.PaymentCanceled, domain.PaymentPending, false},
		{"self edge rejected", domain.PaymentPending, domain.PaymentPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.AllowedPaymentEdge(tt.from, tt.to))
		})
	}
}

func TestPaymentStatusTerminal(t *testing.T) {
	assert.True(t, domain.PaymentFailed.Terminal())
	assert.True(t, domain.PaymentRefund.Terminal())
	assert.True(t, domain.PaymentCanceled.Terminal())
	assert.False(t, domain.PaymentPending.Terminal())
	assert.False(t, domain.PaymentProcess.Terminal())
	assert.False(t, domain.PaymentSuccess.Terminal(), "success still allows refund")
}

func TestTransactionStatusOf(t *testing.T) {
	tests := []struct {
		name     string
		fee      float64
		paid     float64
		isCancel bool
		want     domain.TransactionStatus
	}{
		{"unpaid", 50, 0, false, domain.StatusUnpaid},
		{"partially paid", 100, 50, false, domain.StatusUnpaid},
		{"exactly paid", 50, 50, false, domain.StatusPaid},
		{"overpaid", 50, 100, false, domain.StatusPaid},
		{"cancel wins over paid", 50, 50, true, domain.StatusCancel},
		{"cancel wins over unpaid", 50, 0, true, domain.StatusCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.TransactionStatusOf(tt.fee, tt.paid, tt.isCancel))
		})
	}
}
