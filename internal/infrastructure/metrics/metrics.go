package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ParkingMetrics holds every counter the state machines and sweep jobs report.
type ParkingMetrics struct {
	TransactionWritesTotal prometheus.CounterVec
	PaymentWritesTotal     prometheus.CounterVec

	TransactionsCreatedTotal prometheus.Counter
	TransactionsClosedTotal  prometheus.Counter
	TransactionsCanceledTotal prometheus.Counter

	FeesChargedTotal prometheus.Counter
	PaidAmountTotal  prometheus.Counter

	PaymentsSettledTotal prometheus.CounterVec

	NotificationErrorsTotal prometheus.CounterVec
	GatewayErrorsTotal      prometheus.CounterVec

	SweepDuration prometheus.HistogramVec
	SweepTargetsTotal prometheus.CounterVec
}

func NewParkingMetrics() *ParkingMetrics {
	return &ParkingMetrics{
		TransactionWritesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transaction_writes_total",
				Help: "Transaction change-feed invocations by outcome",
			},
			[]string{"outcome"},
		),

		PaymentWritesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_writes_total",
				Help: "Payment change-feed invocations by outcome",
			},
			[]string{"outcome"},
		),

		TransactionsCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "transactions_created_total",
				Help: "Parking transactions opened at the entrance",
			},
		),

		TransactionsClosedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "transactions_closed_total",
				Help: "Parking transactions closed with a paid exit",
			},
		),

		TransactionsCanceledTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "transactions_canceled_total",
				Help: "Parking transactions canceled before any money moved",
			},
		),

		FeesChargedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "fees_charged_total",
				Help: "Sum of fees assigned to transactions",
			},
		),

		PaidAmountTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "paid_amount_total",
				Help: "Sum of settled payment amounts",
			},
		),

		PaymentsSettledTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payments_settled_total",
				Help: "Payment status edges applied, by resulting status",
			},
			[]string{"status"},
		),

		NotificationErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notification_errors_total",
				Help: "Bot notification attempts that failed, by action",
			},
			[]string{"action"},
		),

		GatewayErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_errors_total",
				Help: "Payment gateway calls that failed, by operation",
			},
			[]string{"operation"},
		),

		SweepDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sweep_duration_seconds",
				Help:    "Sweep job run time in seconds",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
			[]string{"job"},
		),

		SweepTargetsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sweep_targets_total",
				Help: "Documents touched by sweep jobs",
			},
			[]string{"job"},
		),
	}
}

func (m *ParkingMetrics) RecordTransactionWrite(outcome string) {
	m.TransactionWritesTotal.WithLabelValues(outcome).Inc()
}

func (m *ParkingMetrics) RecordPaymentWrite(outcome string) {
	m.PaymentWritesTotal.WithLabelValues(outcome).Inc()
}

func (m *ParkingMetrics) RecordTransactionCreated(fee float64) {
	m.TransactionsCreatedTotal.Inc()
	m.FeesChargedTotal.Add(fee)
}

func (m *ParkingMetrics) RecordTransactionClosed() {
	m.TransactionsClosedTotal.Inc()
}

func (m *ParkingMetrics) RecordTransactionCanceled() {
	m.TransactionsCanceledTotal.Inc()
}

func (m *ParkingMetrics) RecordPaymentSettled(status string, amount float64) {
	m.PaymentsSettledTotal.WithLabelValues(status).Inc()
	if status == "Success" {
		m.PaidAmountTotal.Add(amount)
	}
}

func (m *ParkingMetrics) RecordNotificationError(action string) {
	m.NotificationErrorsTotal.WithLabelValues(action).Inc()
}

func (m *ParkingMetrics) RecordGatewayError(operation string) {
	m.GatewayErrorsTotal.WithLabelValues(operation).Inc()
}

func (m *ParkingMetrics) RecordSweep(job string, targets int, durationSeconds float64) {
	m.SweepDuration.WithLabelValues(job).Observe(durationSeconds)
	m.SweepTargetsTotal.WithLabelValues(job).Add(float64(targets))
}
