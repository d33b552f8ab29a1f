package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/au-parking/parking-core-service/internal/domain"
	"github.com/au-parking/parking-core-service/internal/infrastructure/kafka"
	"github.com/au-parking/parking-core-service/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type paymentFixture struct {
	txns      *fakeTransactionRepo
	payments  *fakePaymentRepo
	gateway   *fakeGateway
	notifier  *fakeNotifier
	publisher *fakePublisher
	uc        usecase.PaymentUsecase
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		txns:      &fakeTransactionRepo{},
		payments:  &fakePaymentRepo{},
		gateway:   &fakeGateway{},
		notifier:  &fakeNotifier{},
		publisher: &fakePublisher{},
	}
	f.uc = usecase.NewDefaultPaymentUsecase(
		f.txns, f.payments, f.gateway, f.notifier, f.publisher, testMetrics, bkk)
	return f
}

func pendingPayment(pid string) *domain.Payment {
	return &domain.Payment{
		PID:       pid,
		TID:       "t-1",
		Amount:    50,
		Timestamp: at(5, 12, 0),
		Status:    domain.PaymentPending,
		PaidBy:    "owner-1",
	}
}

func TestOnPaymentWriteCreate(t *testing.T) {
	f := newPaymentFixture()

	after := &domain.Payment{Amount: 50, Timestamp: at(5, 12, 0)}
	decision, err := f.uc.OnPaymentWrite(context.Background(), "t-1", "pi_1", nil, after)
	require.NoError(t, err)
	require.Equal(t, domain.WriteCommit, decision.Action)

	saved := f.payments.lastSaved()
	require.NotNil(t, saved)
	assert.Equal(t, "pi_1", saved.PID)
	assert.Equal(t, "t-1", saved.TID)
	assert.Equal(t, domain.PaymentPending, saved.Status)
	assert.False(t, saved.IsEdit)
	assert.Equal(t, 1, f.publisher.onTopic(kafka.TopicPaymentWrites))
}

func TestOnPaymentWriteCreateIgnoresStampedDoc(t *testing.T) {
	f := newPaymentFixture()

	decision, err := f.uc.OnPaymentWrite(context.Background(), "t-1", "pi_1", nil, pendingPayment("pi_1"))
	require.NoError(t, err)
	assert.Equal(t, domain.WriteNoop, decision.Action)
	assert.Empty(t, f.payments.saved)
}

func TestOnPaymentWriteNoopCases(t *testing.T) {
	canceled := pendingPayment("pi_1")
	canceled.Status = domain.PaymentCanceled
	canceled.IsEdit = true

	staleMarker := pendingPayment("pi_1")
	staleMarker.Status = domain.PaymentSuccess

	tests := []struct {
		name   string
		before *domain.Payment
		after  *domain.Payment
	}{
		{"delete", pendingPayment("pi_1"), nil},
		{"stamp echo", &domain.Payment{Amount: 50}, pendingPayment("pi_1")},
		{"gateway cancellation", pendingPayment("pi_1"), canceled},
		{"status edge without fresh marker", pendingPayment("pi_1"), staleMarker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPaymentFixture()
			decision, err := f.uc.OnPaymentWrite(context.Background(), "t-1", "pi_1", tt.before, tt.after)
			require.NoError(t, err)
			assert.Equal(t, domain.WriteNoop, decision.Action)
			assert.Empty(t, f.payments.saved)
			assert.Empty(t, f.payments.settled)
		})
	}
}

func TestOnPaymentWriteSuccessSettlesParent(t *testing.T) {
	f := newPaymentFixture()
	f.payments.parent = &domain.Transaction{
		TID: "t-1", Fee: 50, Paid: 0, Status: domain.StatusUnpaid,
	}

	before := pendingPayment("pi_1")
	after := *before
	after.Status = domain.PaymentSuccess
	after.IsEdit = true

	decision, err := f.uc.OnPaymentWrite(context.Background(), "t-1", "pi_1", before, &after)
	require.NoError(t, err)
	require.Equal(t, domain.WriteCommit, decision.Action)

	require.Len(t, f.payments.settled, 1)
	assert.Equal(t, domain.PaymentSuccess, f.payments.settled[0].Status)
	assert.False(t, f.payments.settled[0].IsEdit)

	require.NotNil(t, decision.Parent)
	assert.Equal(t, float64(50), decision.Parent.Paid)
	assert.Equal(t, domain.StatusPaid, decision.Parent.Status)

	assert.Equal(t, 1, f.publisher.onTopic(kafka.TopicPaymentWrites))
	require.Len(t, f.notifier.payments, 1)
	assert.Equal(t, domain.ActionReceive, f.notifier.payments[0].action)
}

func TestOnPaymentWriteRefundReleasesParentBalance(t *testing.T) {
	f := newPaymentFixture()
	f.payments.parent = &domain.Transaction{
		TID: "t-1", Fee: 50, Paid: 50, Status: domain.StatusPaid,
	}

	before := pendingPayment("pi_1")
	before.Status = domain.PaymentSuccess
	after := *before
	after.Status = domain.PaymentRefund
	after.IsEdit = true

	decision, err := f.uc.OnPaymentWrite(context.Background(), "t-1", "pi_1", before, &after)
	require.NoError(t, err)
	require.Equal(t, domain.WriteCommit, decision.Action)

	require.NotNil(t, decision.Parent)
	assert.Equal(t, float64(0), decision.Parent.Paid)
	assert.Equal(t, domain.StatusUnpaid, decision.Parent.Status)

	require.Len(t, f.notifier.payments, 1)
	assert.Equal(t, domain.ActionRefund, f.notifier.payments[0].action)
}

func TestOnPaymentWriteProcessDoesNotTouchParent(t *testing.T) {
	f := newPaymentFixture()

	before := pendingPayment("pi_1")
	after := *before
	after.Status = domain.PaymentProcess
	after.IsEdit = true

	decision, err := f.uc.OnPaymentWrite(context.Background(), "t-1", "pi_1", before, &after)
	require.NoError(t, err)
	require.Equal(t, domain.WriteCommit, decision.Action)
	assert.Nil(t, decision.Parent)
	assert.Empty(t, f.payments.settled)

	saved := f.payments.lastSaved()
	assert.Equal(t, domain.PaymentProcess, saved.Status)
	assert.Empty(t, f.notifier.payments)
}

func TestOnPaymentWriteDisallowedEdgeReverts(t *testing.T) {
	tests := []struct {
		name string
		from domain.PaymentStatus
		to   domain.PaymentStatus
	}{
		{"failed is terminal", domain.PaymentFailed, domain.PaymentSuccess},
		{"refund is terminal", domain.PaymentRefund, domain.PaymentPending},
		{"success cannot go back", domain.PaymentSuccess, domain.PaymentPending},
		{"pending cannot refund", domain.PaymentPending, domain.PaymentRefund},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPaymentFixture()
			before := pendingPayment("pi_1")
			before.Status = tt.from
			after := *before
			after.Status = tt.to
			after.IsEdit = true

			decision, err := f.uc.OnPaymentWrite(context.Background(), "t-1", "pi_1", before, &after)
			require.NoError(t, err)
			assert.Equal(t, domain.WriteRevert, decision.Action)

			saved := f.payments.lastSaved()
			require.NotNil(t, saved)
			assert.Equal(t, tt.from, saved.Status)
			assert.Empty(t, f.payments.settled)
		})
	}
}

func TestOnPaymentWriteSettleFailurePropagates(t *testing.T) {
	f := newPaymentFixture()
	f.payments.settleErr = errors.New("store down")

	before := pendingPayment("pi_1")
	after := *before
	after.Status = domain.PaymentSuccess
	after.IsEdit = true

	_, err := f.uc.OnPaymentWrite(context.Background(), "t-1", "pi_1", before, &after)
	require.Error(t, err)
	assert.Empty(t, f.publisher.batches)
	assert.Empty(t, f.notifier.payments)
}

func TestCreatePaymentValidation(t *testing.T) {
	paid := openTransaction("t-paid")
	paid.Paid = 50
	paid.Status = domain.StatusPaid

	canceled := openTransaction("t-cancel")
	canceled.IsCancel = true
	canceled.Status = domain.StatusCancel

	tests := []struct {
		name string
		tid  string
		txn  *domain.Transaction
		code codes.Code
	}{
		{"empty tid", "", nil, codes.InvalidArgument},
		{"unknown tid", "t-missing", nil, codes.InvalidArgument},
		{"paid transaction", "t-paid", paid, codes.FailedPrecondition},
		{"canceled transaction", "t-cancel", canceled, codes.FailedPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPaymentFixture()
			if tt.txn != nil {
				require.NoError(t, f.txns.Save(tt.txn))
			}

			_, err := f.uc.CreatePayment(context.Background(), tt.tid, "owner-1")
			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err))
			assert.Zero(t, f.gateway.creates)
		})
	}
}

func TestCreatePaymentReusesPendingIntent(t *testing.T) {
	f := newPaymentFixture()
	require.NoError(t, f.txns.Save(openTransaction("t-1")))
	f.payments.pending = []*domain.Payment{pendingPayment("pi_old")}

	pid, err := f.uc.CreatePayment(context.Background(), "t-1", "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "pi_old", pid)
	assert.Zero(t, f.gateway.creates)
	assert.Empty(t, f.payments.saved)
}

func TestCreatePaymentOpensIntentForShortfall(t *testing.T) {
	f := newPaymentFixture()
	txn := openTransaction("t-1")
	txn.Fee = 100
	txn.Paid = 30
	require.NoError(t, f.txns.Save(txn))
	f.gateway.intent = &domain.PaymentIntent{ID: "pi_new", ClientSecret: "secret_new"}

	pid, err := f.uc.CreatePayment(context.Background(), "t-1", "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "pi_new", pid)
	assert.Equal(t, float64(70), f.gateway.lastAmount)

	saved := f.payments.lastSaved()
	require.NotNil(t, saved)
	assert.Equal(t, "pi_new", saved.PID)
	assert.Equal(t, "t-1", saved.TID)
	assert.Equal(t, "secret_new", saved.ClientSecret)
	assert.Equal(t, float64(70), saved.Amount)
	assert.Equal(t, domain.PaymentPending, saved.Status)
	assert.Equal(t, "owner-1", saved.PaidBy)
	assert.WithinDuration(t, time.Now(), saved.Timestamp, 5*time.Second)
	assert.Equal(t, 1, f.publisher.onTopic(kafka.TopicPaymentWrites))
}

func TestCreatePaymentGatewayFailure(t *testing.T) {
	f := newPaymentFixture()
	require.NoError(t, f.txns.Save(openTransaction("t-1")))
	f.gateway.createErr = errors.New("gateway timeout")

	_, err := f.uc.CreatePayment(context.Background(), "t-1", "owner-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCreateIntentFailed)
	assert.Empty(t, f.payments.saved)
}
