package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/au-parking/parking-core-service/internal/domain"
	"github.com/au-parking/parking-core-service/internal/infrastructure/kafka"
	"github.com/au-parking/parking-core-service/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sweepFixture struct {
	txns      *fakeTransactionRepo
	cars      *fakeCarRepo
	notifier  *fakeNotifier
	publisher *fakePublisher
	uc        usecase.SweepUsecase
}

func newSweepFixture() *sweepFixture {
	f := &sweepFixture{
		txns:      &fakeTransactionRepo{},
		cars:      &fakeCarRepo{owners: map[string][]string{}, errs: map[string]error{}},
		notifier:  &fakeNotifier{},
		publisher: &fakePublisher{},
	}
	f.uc = usecase.NewDefaultSweepUsecase(f.txns, f.cars, f.notifier, f.publisher, testMetrics)
	return f
}

func TestWarnInSystemTransactionsBatchesOwners(t *testing.T) {
	f := newSweepFixture()
	f.txns.open = []*domain.Transaction{
		{TID: "t-1", LicenseNumber: "AA"},
		{TID: "t-2", LicenseNumber: "AA"}, // duplicate plate, resolved once
		{TID: "t-3", LicenseNumber: "BB"},
	}
	f.cars.owners["AA"] = []string{"o1", "o2"}
	f.cars.owners["BB"] = []string{"o2", "o3"} // o2 owns both cars

	require.NoError(t, f.uc.WarnInSystemTransactions(context.Background()))

	require.Len(t, f.notifier.warnings, 1)
	assert.Equal(t, []string{"o1", "o2", "o3"}, f.notifier.warnings[0])
}

func TestWarnInSystemTransactionsSkipsUnresolvablePlates(t *testing.T) {
	f := newSweepFixture()
	f.txns.open = []*domain.Transaction{
		{TID: "t-1", LicenseNumber: "AA"},
		{TID: "t-2", LicenseNumber: "XX"},
	}
	f.cars.owners["AA"] = []string{"o1"}
	f.cars.errs["XX"] = errors.New("registry down")

	require.NoError(t, f.uc.WarnInSystemTransactions(context.Background()))

	require.Len(t, f.notifier.warnings, 1)
	assert.Equal(t, []string{"o1"}, f.notifier.warnings[0])
}

func TestWarnInSystemTransactionsNothingOpen(t *testing.T) {
	f := newSweepFixture()

	require.NoError(t, f.uc.WarnInSystemTransactions(context.Background()))
	assert.Empty(t, f.notifier.warnings)
}

func TestWarnInSystemTransactionsOwnerlessCars(t *testing.T) {
	f := newSweepFixture()
	f.txns.open = []*domain.Transaction{
		{TID: "t-1", LicenseNumber: "ZZ"}, // unregistered plate, no owners
	}

	require.NoError(t, f.uc.WarnInSystemTransactions(context.Background()))
	assert.Empty(t, f.notifier.warnings)
}

func TestRecalculateInSystemFeesMarksEveryOpenTransaction(t *testing.T) {
	f := newSweepFixture()
	f.txns.open = []*domain.Transaction{
		{TID: "t-1", LicenseNumber: "AA", Fee: 50, Status: domain.StatusUnpaid},
		{TID: "t-2", LicenseNumber: "BB", Fee: 100, Status: domain.StatusUnpaid},
	}

	require.NoError(t, f.uc.RecalculateInSystemFees(context.Background()))

	require.Len(t, f.txns.saved, 2)
	for _, saved := range f.txns.saved {
		assert.True(t, saved.IsOvernight)
		assert.True(t, saved.IsEdit)
	}
	assert.Equal(t, 2, f.publisher.onTopic(kafka.TopicTransactionWrites))
}

func TestRecalculateInSystemFeesPropagatesScanError(t *testing.T) {
	f := newSweepFixture()
	f.txns.findErr = errors.New("store down")

	err := f.uc.RecalculateInSystemFees(context.Background())
	require.Error(t, err)
	assert.Empty(t, f.txns.saved)
}
