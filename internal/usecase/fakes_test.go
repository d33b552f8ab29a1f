package usecase_test

import (
	"context"
	"time"

	"github.com/au-parking/parking-core-service/internal/domain"
	"github.com/au-parking/parking-core-service/internal/infrastructure/metrics"
)

// One shared instance: promauto registers on the default registry and a
// second NewParkingMetrics in the same process would panic.
var testMetrics = metrics.NewParkingMetrics()

var bkk = time.FixedZone("ICT", 7*60*60)

type fakeTransactionRepo struct {
	byID    map[string]*domain.Transaction
	open    []*domain.Transaction
	saved   []*domain.Transaction
	saveErr error
	findErr error
}

func (f *fakeTransactionRepo) Save(txn *domain.Transaction) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	copied := *txn
	f.saved = append(f.saved, &copied)
	if f.byID == nil {
		f.byID = make(map[string]*domain.Transaction)
	}
	f.byID[txn.TID] = &copied
	return nil
}

func (f *fakeTransactionRepo) GetByID(tid string) (*domain.Transaction, error) {
	txn, ok := f.byID[tid]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return txn, nil
}

func (f *fakeTransactionRepo) FindOpen() ([]*domain.Transaction, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.open, nil
}

func (f *fakeTransactionRepo) lastSaved() *domain.Transaction {
	if len(f.saved) == 0 {
		return nil
	}
	return f.saved[len(f.saved)-1]
}

type fakePaymentRepo struct {
	pending    []*domain.Payment
	saved      []*domain.Payment
	settled    []*domain.Payment
	parent     *domain.Transaction
	settleErr  error
	pendingErr error
}

func (f *fakePaymentRepo) Save(payment *domain.Payment) error {
	copied := *payment
	f.saved = append(f.saved, &copied)
	return nil
}

func (f *fakePaymentRepo) GetByID(tid, pid string) (*domain.Payment, error) {
	for _, payment := range f.saved {
		if payment.TID == tid && payment.PID == pid {
			return payment, nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (f *fakePaymentRepo) FindPendingByTID(tid string) ([]*domain.Payment, error) {
	if f.pendingErr != nil {
		return nil, f.pendingErr
	}
	return f.pending, nil
}

func (f *fakePaymentRepo) SettleWithParent(payment *domain.Payment) (*domain.Transaction, error) {
	if f.settleErr != nil {
		return nil, f.settleErr
	}
	copied := *payment
	f.settled = append(f.settled, &copied)

	switch payment.Status {
	case domain.PaymentSuccess:
		f.parent.Paid += payment.Amount
	case domain.PaymentRefund:
		f.parent.Paid -= payment.Amount
	}
	f.parent.Status = domain.TransactionStatusOf(f.parent.Fee, f.parent.Paid, f.parent.IsCancel)
	return f.parent, nil
}

func (f *fakePaymentRepo) lastSaved() *domain.Payment {
	if len(f.saved) == 0 {
		return nil
	}
	return f.saved[len(f.saved)-1]
}

type fakeCarRepo struct {
	owners map[string][]string
	errs   map[string]error
}

func (f *fakeCarRepo) GetByLicense(licenseNumber string) (*domain.Car, error) {
	if err, ok := f.errs[licenseNumber]; ok {
		return nil, err
	}
	return &domain.Car{LicenseNumber: licenseNumber, Owners: f.owners[licenseNumber]}, nil
}

type fakeSettingsRepo struct {
	rate  float64
	err   error
	calls int
}

func (f *fakeSettingsRepo) GetRatePerDay() (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.rate, nil
}

type publishedBatch struct {
	topic string
	msgs  []domain.Message
}

type fakePublisher struct {
	batches []publishedBatch
	err     error
}

func (f *fakePublisher) Publish(topic string, msgs ...domain.Message) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, publishedBatch{topic: topic, msgs: msgs})
	return nil
}

func (f *fakePublisher) onTopic(topic string) int {
	count := 0
	for _, batch := range f.batches {
		if batch.topic == topic {
			count++
		}
	}
	return count
}

type notifiedTransaction struct {
	action string
	notice domain.TransactionNotice
}

type notifiedPayment struct {
	action string
	notice domain.PaymentNotice
}

type fakeNotifier struct {
	transactions []notifiedTransaction
	payments     []notifiedPayment
	warnings     [][]string
	err          error
}

func (f *fakeNotifier) NotifyTransaction(action string, notice domain.TransactionNotice) error {
	if f.err != nil {
		return f.err
	}
	f.transactions = append(f.transactions, notifiedTransaction{action: action, notice: notice})
	return nil
}

func (f *fakeNotifier) NotifyPayment(action string, notice domain.PaymentNotice) error {
	if f.err != nil {
		return f.err
	}
	f.payments = append(f.payments, notifiedPayment{action: action, notice: notice})
	return nil
}

func (f *fakeNotifier) NotifyWarning(targets []string) error {
	if f.err != nil {
		return f.err
	}
	f.warnings = append(f.warnings, targets)
	return nil
}

type intentUpdate struct {
	intentID string
	amount   float64
}

type intentCancel struct {
	intentID string
	reason   string
}

type fakeGateway struct {
	intent     *domain.PaymentIntent
	createErr  error
	updateErr  error
	cancelErr  error
	creates    int
	updates    []intentUpdate
	cancels    []intentCancel
	lastAmount float64
}

func (f *fakeGateway) CreateIntent(ctx context.Context, amount float64, currency, description string, metadata map[string]string) (*domain.PaymentIntent, error) {
	f.creates++
	f.lastAmount = amount
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.intent, nil
}

func (f *fakeGateway) UpdateIntent(ctx context.Context, intentID string, amount float64) error {
	f.updates = append(f.updates, intentUpdate{intentID: intentID, amount: amount})
	return f.updateErr
}

func (f *fakeGateway) CancelIntent(ctx context.Context, intentID, reason string) error {
	f.cancels = append(f.cancels, intentCancel{intentID: intentID, reason: reason})
	return f.cancelErr
}
