package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/au-parking/parking-core-service/internal/domain"
	"github.com/au-parking/parking-core-service/internal/infrastructure/kafka"
	"github.com/au-parking/parking-core-service/internal/infrastructure/metrics"
)

type SweepUsecase interface {
	WarnInSystemTransactions(ctx context.Context) error
	RecalculateInSystemFees(ctx context.Context) error
}

type DefaultSweepUsecase struct {
	TransactionRepo domain.TransactionRepository
	CarRepo         domain.CarRepository
	Notifier        domain.NotifierPort
	Publisher       domain.PublisherPort
	Metrics         *metrics.ParkingMetrics
}

func NewDefaultSweepUsecase(
	transactionRepo domain.TransactionRepository,
	carRepo domain.CarRepository,
	notifier domain.NotifierPort,
	publisher domain.PublisherPort,
	parkingMetrics *metrics.ParkingMetrics) *DefaultSweepUsecase {

	return &DefaultSweepUsecase{
		TransactionRepo: transactionRepo,
		CarRepo:         carRepo,
		Notifier:        notifier,
		Publisher:       publisher,
		Metrics:         parkingMetrics,
	}
}

// WarnInSystemTransactions notifies owners of vehicles still inside the
// facility past the cutoff. One batched warning goes out; plates seen twice
// in the open set are resolved once.
func (uc *DefaultSweepUsecase) WarnInSystemTransactions(ctx context.Context) error {
	started := time.Now()

	transactions, err := uc.TransactionRepo.FindOpen()
	if err != nil {
		return err
	}
	if len(transactions) == 0 {
		slog.Info("no in-system transactions to warn")
		return nil
	}

	seenPlates := make(map[string]struct{})
	seenTargets := make(map[string]struct{})
	targets := make([]string, 0)
	for _, txn := range transactions {
		if txn.TimestampOut != nil {
			continue
		}
		if _, ok := seenPlates[txn.LicenseNumber]; ok {
			continue
		}
		seenPlates[txn.LicenseNumber] = struct{}{}

		car, err := uc.CarRepo.GetByLicense(txn.LicenseNumber)
		if err != nil {
			slog.Error("failed to resolve car owners", "license_number", txn.LicenseNumber, "error", err.Error())
			continue
		}
		for _, owner := range car.Owners {
			if _, ok := seenTargets[owner]; ok {
				continue
			}
			seenTargets[owner] = struct{}{}
			targets = append(targets, owner)
		}
	}

	if len(targets) > 0 {
		if err := uc.Notifier.NotifyWarning(targets); err != nil {
			slog.Error("warning notification failed", "targets", len(targets), "error", err.Error())
			uc.Metrics.RecordNotificationError(domain.ActionWarning)
		}
	}

	uc.Metrics.RecordSweep("warning", len(targets), time.Since(started).Seconds())
	slog.Info("warning sweep finished", "targets", len(targets))
	return nil
}

// RecalculateInSystemFees re-enters every open transaction through the
// overnight-recompute path of the transaction state machine. Failures are
// per-transaction; one bad document never aborts the batch.
func (uc *DefaultSweepUsecase) RecalculateInSystemFees(ctx context.Context) error {
	started := time.Now()

	transactions, err := uc.TransactionRepo.FindOpen()
	if err != nil {
		return err
	}

	marked := 0
	for _, txn := range transactions {
		before := *txn
		update := *txn
		update.IsOvernight = true
		update.IsEdit = true

		if err := uc.TransactionRepo.Save(&update); err != nil {
			slog.Error("failed to mark transaction for recompute", "tid", txn.TID, "error", err.Error())
			continue
		}
		uc.publishWrite(&before, &update)
		marked++
	}

	uc.Metrics.RecordSweep("recalculate", marked, time.Since(started).Seconds())
	slog.Info("recalculate sweep finished", "transactions", marked)
	return nil
}

func (uc *DefaultSweepUsecase) publishWrite(before, after *domain.Transaction) {
	event := kafka.TransactionChangeEvent{
		TID:    after.TID,
		Before: kafka.ToTransactionDoc(before),
		After:  kafka.ToTransactionDoc(after),
	}
	value, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal transaction change event", "tid", after.TID, "error", err.Error())
		return
	}
	if err := uc.Publisher.Publish(kafka.TopicTransactionWrites, domain.Message{Key: []byte(after.TID), Value: value}); err != nil {
		slog.Error("failed to publish transaction change event", "tid", after.TID, "error", err.Error())
	}
}
