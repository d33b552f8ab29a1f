package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/au-parking/parking-core-service/internal/domain"
	"github.com/au-parking/parking-core-service/internal/infrastructure/kafka"
	"github.com/au-parking/parking-core-service/internal/infrastructure/metrics"
)

const noticeTimeLayout = "02/01/2006 15:04:05"

type TransactionUsecase interface {
	OnTransactionWrite(ctx context.Context, tid string, before, after *domain.Transaction) (*domain.TransactionDecision, error)
}

type DefaultTransactionUsecase struct {
	TransactionRepo domain.TransactionRepository
	PaymentRepo     domain.PaymentRepository
	Rates           *RateCache
	Gateway         domain.PaymentGatewayPort
	Notifier        domain.NotifierPort
	Publisher       domain.PublisherPort
	Metrics         *metrics.ParkingMetrics
	Location        *time.Location
}

func NewDefaultTransactionUsecase(
	transactionRepo domain.TransactionRepository,
	paymentRepo domain.PaymentRepository,
	rates *RateCache,
	gateway domain.PaymentGatewayPort,
	notifier domain.NotifierPort,
	publisher domain.PublisherPort,
	parkingMetrics *metrics.ParkingMetrics,
	location *time.Location) *DefaultTransactionUsecase {

	return &DefaultTransactionUsecase{
		TransactionRepo: transactionRepo,
		PaymentRepo:     paymentRepo,
		Rates:           rates,
		Gateway:         gateway,
		Notifier:        notifier,
		Publisher:       publisher,
		Metrics:         parkingMetrics,
		Location:        location,
	}
}

// OnTransactionWrite is the transaction half of the change-feed trigger
// contract: (tid, before, after), at-least-once, possibly re-entrant with the
// service's own writes. Every committed write clears the is_edit marker and
// update writes without a fresh marker are ignored, which makes replays safe.
func (uc *DefaultTransactionUsecase) OnTransactionWrite(ctx context.Context, tid string, before, after *domain.Transaction) (*domain.TransactionDecision, error) {
	// Hard deletes never happen through this core.
	if after == nil {
		uc.Metrics.RecordTransactionWrite(string(domain.WriteNoop))
		return &domain.TransactionDecision{Action: domain.WriteNoop}, nil
	}

	if before == nil {
		decision, err := uc.onCreate(ctx, tid, after)
		if err == nil {
			uc.Metrics.RecordTransactionWrite(string(decision.Action))
		}
		return decision, err
	}

	// Our own creation write re-entering the feed: the stamp just landed.
	if before.TID == "" && after.TID != "" {
		uc.Metrics.RecordTransactionWrite(string(domain.WriteNoop))
		return &domain.TransactionDecision{Action: domain.WriteNoop}, nil
	}

	decision, err := uc.onUpdate(ctx, tid, before, after)
	if err != nil {
		// Unexpected failure mid-edit: restore the pre-image so no partial
		// derived-field update stays committed.
		slog.Error("transaction write failed, reverting", "tid", tid, "error", err.Error())
		if revertErr := uc.writeBack(tid, after, before); revertErr != nil {
			slog.Error("failed to revert transaction", "tid", tid, "error", revertErr.Error())
		}
		uc.Metrics.RecordTransactionWrite(string(domain.WriteRevert))
		return &domain.TransactionDecision{Action: domain.WriteRevert, Transaction: before}, err
	}
	uc.Metrics.RecordTransactionWrite(string(decision.Action))
	return decision, nil
}

func (uc *DefaultTransactionUsecase) onCreate(ctx context.Context, tid string, after *domain.Transaction) (*domain.TransactionDecision, error) {
	// Already stamped: this is the write we just performed.
	if after.TID != "" {
		return &domain.TransactionDecision{Action: domain.WriteNoop}, nil
	}

	rate, err := uc.Rates.Get()
	if err != nil {
		return nil, fmt.Errorf("load rate per day: %w", err)
	}

	txn := *after
	txn.TID = tid
	txn.Status = domain.StatusUnpaid
	txn.Fee = ComputeFee(txn.TimestampIn, nil, rate, uc.Location)
	txn.Paid = 0
	txn.TimestampOut = nil
	txn.Remark = ""
	txn.IsEdit = false

	if err := uc.writeBack(tid, after, &txn); err != nil {
		return nil, err
	}

	uc.notifyTransaction(domain.ActionEntrance, &txn)
	uc.Metrics.RecordTransactionCreated(txn.Fee)

	return &domain.TransactionDecision{
		Action:      domain.WriteCommit,
		Transaction: &txn,
		Notify:      domain.ActionEntrance,
	}, nil
}

func (uc *DefaultTransactionUsecase) onUpdate(ctx context.Context, tid string, before, after *domain.Transaction) (*domain.TransactionDecision, error) {
	// Only a fresh is_edit marker means an intentional edit; everything else
	// (including the echo of our own committed writes) is ignored.
	if !(!before.IsEdit && after.IsEdit) {
		return &domain.TransactionDecision{Action: domain.WriteNoop}, nil
	}

	// Canceled transactions are frozen for good.
	if before.IsCancel {
		return uc.revert(tid, before, after)
	}

	licenseChanged := before.LicenseNumber != after.LicenseNumber
	inChanged := !before.TimestampIn.Equal(after.TimestampIn)
	outChanged := !equalTimePtr(before.TimestampOut, after.TimestampOut)
	imageInChanged := before.ImageIn != after.ImageIn
	imageOutChanged := before.ImageOut != after.ImageOut
	cancelChanged := before.IsCancel != after.IsCancel
	remarkChanged := before.Remark != after.Remark

	allowChanges := licenseChanged || inChanged || outChanged ||
		imageInChanged || imageOutChanged || cancelChanged || remarkChanged ||
		after.IsOvernight
	if !allowChanges {
		return uc.revert(tid, before, after)
	}

	txn := *before

	// Unconditioned fields.
	if licenseChanged {
		txn.LicenseNumber = after.LicenseNumber
	}
	if imageInChanged {
		txn.ImageIn = after.ImageIn
	}
	if remarkChanged {
		txn.Remark = after.Remark
	}

	// Timestamp fields apply only when the (entry, exit) pair stays valid;
	// an invalid pair drops the timestamp part of the edit and nothing else.
	switch {
	case inChanged && outChanged:
		if IsValidTimestamps(after.TimestampIn, after.TimestampOut) {
			fee, err := uc.feeFor(after.TimestampIn, after.TimestampOut)
			if err != nil {
				return nil, err
			}
			txn.TimestampIn = after.TimestampIn
			txn.TimestampOut = after.TimestampOut
			txn.Fee = fee
			txn.Status = domain.TransactionStatusOf(fee, txn.Paid, txn.IsCancel)
		}
	case inChanged:
		if IsValidTimestamps(after.TimestampIn, txn.TimestampOut) {
			fee, err := uc.feeFor(after.TimestampIn, txn.TimestampOut)
			if err != nil {
				return nil, err
			}
			txn.TimestampIn = after.TimestampIn
			txn.Fee = fee
			txn.Status = domain.TransactionStatusOf(fee, txn.Paid, txn.IsCancel)
		}
	case outChanged:
		if IsValidTimestamps(txn.TimestampIn, after.TimestampOut) {
			fee, err := uc.feeFor(txn.TimestampIn, after.TimestampOut)
			if err != nil {
				return nil, err
			}
			// Closing the session waits until funds reconcile; the new fee
			// and status commit either way.
			if fee == txn.Paid {
				txn.TimestampOut = after.TimestampOut
			}
			txn.Fee = fee
			txn.Status = domain.TransactionStatusOf(fee, txn.Paid, txn.IsCancel)
		}
	}

	// Exit evidence only once the session is fully paid under the current
	// timestamps.
	if imageOutChanged && txn.TimestampOut != nil && txn.Fee == txn.Paid {
		txn.ImageOut = after.ImageOut
	}

	// Cancellation only while no money is on the transaction.
	if cancelChanged && txn.Paid == 0 && txn.Status == domain.StatusUnpaid {
		txn.IsCancel = true
		txn.Status = domain.StatusCancel
	}

	// Nightly recompute entry point.
	if after.IsOvernight {
		fee, err := uc.feeFor(txn.TimestampIn, txn.TimestampOut)
		if err != nil {
			return nil, err
		}
		txn.Fee = fee
		txn.Status = domain.TransactionStatusOf(fee, txn.Paid, txn.IsCancel)
	}

	// A fee change invalidates any pending payment intent: grow it to the new
	// shortfall or cancel it outright. Best-effort, never blocks the commit.
	if before.Fee != txn.Fee {
		uc.adjustPendingPayment(ctx, tid, before, &txn)
	}

	notify := notificationAction(after, &txn)

	txn.IsOvernight = false
	txn.IsEdit = false
	if err := uc.writeBack(tid, after, &txn); err != nil {
		return nil, err
	}

	if notify != "" {
		uc.notifyTransaction(notify, &txn)
	}
	switch notify {
	case domain.ActionCancel:
		uc.Metrics.RecordTransactionCanceled()
	case domain.ActionExit:
		uc.Metrics.RecordTransactionClosed()
	}

	return &domain.TransactionDecision{
		Action:      domain.WriteCommit,
		Transaction: &txn,
		Notify:      notify,
	}, nil
}

// notificationAction picks the single notification for the resulting state:
// cancel > exit > overnight > update > none.
func notificationAction(after, txn *domain.Transaction) string {
	switch {
	case txn.Status == domain.StatusCancel:
		return domain.ActionCancel
	case txn.TimestampOut != nil && txn.Status == domain.StatusPaid:
		return domain.ActionExit
	case after.IsOvernight:
		return domain.ActionOvernight
	case after.LicenseNumber != txn.LicenseNumber ||
		!after.TimestampIn.Equal(txn.TimestampIn) ||
		!equalTimePtr(after.TimestampOut, txn.TimestampOut) ||
		after.Fee != txn.Fee:
		return domain.ActionUpdate
	}
	return ""
}

func (uc *DefaultTransactionUsecase) adjustPendingPayment(ctx context.Context, tid string, before, txn *domain.Transaction) {
	pendings, err := uc.PaymentRepo.FindPendingByTID(tid)
	if err != nil {
		slog.Error("failed to fetch pending payments", "tid", tid, "error", err.Error())
		return
	}
	if len(pendings) == 0 {
		return
	}

	pending := pendings[0]
	feeDiff := txn.Fee - before.Fee
	if feeDiff > 0 && txn.Fee > txn.Paid {
		shortfall := txn.Fee - txn.Paid
		if err := uc.Gateway.UpdateIntent(ctx, pending.PID, shortfall); err != nil {
			slog.Error("failed to update payment intent", "pid", pending.PID, "error", err.Error())
			uc.Metrics.RecordGatewayError("update_intent")
			return
		}
		pending.Amount = shortfall
		if err := uc.PaymentRepo.Save(pending); err != nil {
			slog.Error("failed to update pending payment amount", "pid", pending.PID, "error", err.Error())
		}
		return
	}

	if err := uc.Gateway.CancelIntent(ctx, pending.PID, "abandoned"); err != nil {
		slog.Error("failed to cancel payment intent", "pid", pending.PID, "error", err.Error())
		uc.Metrics.RecordGatewayError("cancel_intent")
	}
}

func (uc *DefaultTransactionUsecase) revert(tid string, before, after *domain.Transaction) (*domain.TransactionDecision, error) {
	if err := uc.writeBack(tid, after, before); err != nil {
		return nil, err
	}
	return &domain.TransactionDecision{Action: domain.WriteRevert, Transaction: before}, nil
}

// writeBack commits the value and republishes it on the change feed, exactly
// like any other writer would.
func (uc *DefaultTransactionUsecase) writeBack(tid string, preImage, value *domain.Transaction) error {
	if err := uc.TransactionRepo.Save(value); err != nil {
		return fmt.Errorf("save transaction %s: %w", tid, err)
	}
	uc.publishWrite(tid, preImage, value)
	return nil
}

func (uc *DefaultTransactionUsecase) publishWrite(tid string, before, after *domain.Transaction) {
	event := kafka.TransactionChangeEvent{
		TID:    tid,
		Before: kafka.ToTransactionDoc(before),
		After:  kafka.ToTransactionDoc(after),
	}
	value, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal transaction change event", "tid", tid, "error", err.Error())
		return
	}
	if err := uc.Publisher.Publish(kafka.TopicTransactionWrites, domain.Message{Key: []byte(tid), Value: value}); err != nil {
		slog.Error("failed to publish transaction change event", "tid", tid, "error", err.Error())
	}
}

func (uc *DefaultTransactionUsecase) notifyTransaction(action string, txn *domain.Transaction) {
	notice := domain.TransactionNotice{
		TID:           txn.TID,
		LicenseNumber: txn.LicenseNumber,
		TimestampIn:   txn.TimestampIn.In(uc.Location).Format(noticeTimeLayout),
		Fee:           txn.Fee,
		ImageIn:       txn.ImageIn,
		ImageOut:      txn.ImageOut,
	}
	if txn.TimestampOut != nil {
		notice.TimestampOut = txn.TimestampOut.In(uc.Location).Format(noticeTimeLayout)
	}
	if err := uc.Notifier.NotifyTransaction(action, notice); err != nil {
		slog.Error("transaction notification failed", "tid", txn.TID, "action", action, "error", err.Error())
		uc.Metrics.RecordNotificationError(action)
	}
}

func (uc *DefaultTransactionUsecase) feeFor(timeIn time.Time, timeOut *time.Time) (float64, error) {
	rate, err := uc.Rates.Get()
	if err != nil {
		return 0, fmt.Errorf("load rate per day: %w", err)
	}
	return ComputeFee(timeIn, timeOut, rate, uc.Location), nil
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
