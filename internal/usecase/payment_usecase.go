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
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type PaymentUsecase interface {
	OnPaymentWrite(ctx context.Context, tid, pid string, before, after *domain.Payment) (*domain.PaymentDecision, error)
	CreatePayment(ctx context.Context, tid, paidBy string) (string, error)
}

type DefaultPaymentUsecase struct {
	TransactionRepo domain.TransactionRepository
	PaymentRepo     domain.PaymentRepository
	Gateway         domain.PaymentGatewayPort
	Notifier        domain.NotifierPort
	Publisher       domain.PublisherPort
	Metrics         *metrics.ParkingMetrics
	Location        *time.Location
}

func NewDefaultPaymentUsecase(
	transactionRepo domain.TransactionRepository,
	paymentRepo domain.PaymentRepository,
	gateway domain.PaymentGatewayPort,
	notifier domain.NotifierPort,
	publisher domain.PublisherPort,
	parkingMetrics *metrics.ParkingMetrics,
	location *time.Location) *DefaultPaymentUsecase {

	return &DefaultPaymentUsecase{
		TransactionRepo: transactionRepo,
		PaymentRepo:     paymentRepo,
		Gateway:         gateway,
		Notifier:        notifier,
		Publisher:       publisher,
		Metrics:         parkingMetrics,
		Location:        location,
	}
}

// OnPaymentWrite is the payment half of the change-feed trigger contract.
// Status edges come from asynchronous gateway callbacks, each applying exactly
// one allowed transition; anything else reverts the write. Errors on this path
// are logged and the change dropped, never partially applied.
func (uc *DefaultPaymentUsecase) OnPaymentWrite(ctx context.Context, tid, pid string, before, after *domain.Payment) (*domain.PaymentDecision, error) {
	// Payments are never deleted.
	if after == nil {
		uc.Metrics.RecordPaymentWrite(string(domain.WriteNoop))
		return &domain.PaymentDecision{Action: domain.WriteNoop}, nil
	}

	if before == nil {
		decision, err := uc.onCreate(tid, pid, after)
		if err == nil {
			uc.Metrics.RecordPaymentWrite(string(decision.Action))
		}
		return decision, err
	}

	// Echo of our own creation write.
	if before.PID == "" && after.PID != "" {
		uc.Metrics.RecordPaymentWrite(string(domain.WriteNoop))
		return &domain.PaymentDecision{Action: domain.WriteNoop}, nil
	}

	// Gateway-side cancellations arrive already terminal, nothing to do.
	if after.Status == domain.PaymentCanceled {
		uc.Metrics.RecordPaymentWrite(string(domain.WriteNoop))
		return &domain.PaymentDecision{Action: domain.WriteNoop}, nil
	}

	// Same marker protocol as transactions.
	if !(!before.IsEdit && after.IsEdit) {
		uc.Metrics.RecordPaymentWrite(string(domain.WriteNoop))
		return &domain.PaymentDecision{Action: domain.WriteNoop}, nil
	}

	if !domain.AllowedPaymentEdge(before.Status, after.Status) {
		slog.Warn("payment write rejected",
			"pid", pid, "from", string(before.Status), "to", string(after.Status),
			"error", domain.ErrInvalidStatusEdge.Error())
		restored := *before
		if err := uc.writeBack(tid, pid, after, &restored); err != nil {
			return nil, err
		}
		uc.Metrics.RecordPaymentWrite(string(domain.WriteRevert))
		return &domain.PaymentDecision{Action: domain.WriteRevert, Payment: &restored}, nil
	}

	payment := *before
	payment.Status = after.Status
	payment.Reason = after.Reason
	payment.IsEdit = false

	// Success and refund move the parent's balance; the payment commit and
	// the parent update are one store transaction.
	var parent *domain.Transaction
	settling := payment.Status == domain.PaymentSuccess || payment.Status == domain.PaymentRefund
	if settling {
		updated, err := uc.PaymentRepo.SettleWithParent(&payment)
		if err != nil {
			return nil, fmt.Errorf("settle payment %s: %w", pid, err)
		}
		parent = updated
		uc.publishWrite(tid, pid, before, &payment)
	} else {
		if err := uc.writeBack(tid, pid, before, &payment); err != nil {
			return nil, err
		}
	}

	notify := paymentNotification(&payment)
	if notify != "" {
		uc.notifyPayment(notify, &payment)
	}
	uc.Metrics.RecordPaymentSettled(string(payment.Status), payment.Amount)
	uc.Metrics.RecordPaymentWrite(string(domain.WriteCommit))

	return &domain.PaymentDecision{
		Action:  domain.WriteCommit,
		Payment: &payment,
		Parent:  parent,
		Notify:  notify,
	}, nil
}

func (uc *DefaultPaymentUsecase) onCreate(tid, pid string, after *domain.Payment) (*domain.PaymentDecision, error) {
	// pid already stamped: gateway-created doc or the echo of our own write.
	if after.PID != "" {
		return &domain.PaymentDecision{Action: domain.WriteNoop}, nil
	}

	payment := *after
	payment.PID = pid
	payment.TID = tid
	payment.Status = domain.PaymentPending
	payment.IsEdit = false

	if err := uc.writeBack(tid, pid, after, &payment); err != nil {
		return nil, err
	}

	return &domain.PaymentDecision{Action: domain.WriteCommit, Payment: &payment}, nil
}

// CreatePayment backs the customer "pay" flow: it reuses the transaction's
// pending intent when one exists, otherwise opens a gateway intent for the
// current shortfall and records the Pending payment.
func (uc *DefaultPaymentUsecase) CreatePayment(ctx context.Context, tid, paidBy string) (string, error) {
	if tid == "" {
		return "", status.Error(codes.InvalidArgument, "no tid")
	}

	txn, err := uc.TransactionRepo.GetByID(tid)
	if err != nil {
		return "", status.Error(codes.InvalidArgument, "invalid tid")
	}
	if txn.Status == domain.StatusPaid {
		return "", status.Error(codes.FailedPrecondition, domain.ErrTransactionPaid.Error())
	}
	if txn.Status == domain.StatusCancel {
		return "", status.Error(codes.FailedPrecondition, domain.ErrTransactionCanceled.Error())
	}

	pendings, err := uc.PaymentRepo.FindPendingByTID(tid)
	if err != nil {
		return "", fmt.Errorf("find pending payments: %w", err)
	}
	if len(pendings) > 0 {
		return pendings[0].PID, nil
	}

	amount := txn.Fee - txn.Paid
	description := fmt.Sprintf("Parking fee of %s on %s.",
		txn.LicenseNumber, txn.TimestampIn.In(uc.Location).Format(noticeTimeLayout))
	intent, err := uc.Gateway.CreateIntent(ctx, amount, "thb", description, map[string]string{"tid": tid})
	if err != nil {
		uc.Metrics.RecordGatewayError("create_intent")
		return "", fmt.Errorf("%w: %v", domain.ErrCreateIntentFailed, err)
	}

	payment := &domain.Payment{
		PID:          intent.ID,
		TID:          tid,
		ClientSecret: intent.ClientSecret,
		Amount:       amount,
		Timestamp:    time.Now(),
		Status:       domain.PaymentPending,
		PaidBy:       paidBy,
	}
	if err := uc.writeBack(tid, payment.PID, nil, payment); err != nil {
		return "", err
	}

	return payment.PID, nil
}

func paymentNotification(payment *domain.Payment) string {
	if payment.PaidBy == "" {
		return ""
	}
	switch payment.Status {
	case domain.PaymentSuccess:
		return domain.ActionReceive
	case domain.PaymentFailed:
		return domain.ActionReject
	case domain.PaymentRefund:
		return domain.ActionRefund
	}
	return ""
}

func (uc *DefaultPaymentUsecase) writeBack(tid, pid string, preImage, value *domain.Payment) error {
	if err := uc.PaymentRepo.Save(value); err != nil {
		return fmt.Errorf("save payment %s: %w", pid, err)
	}
	uc.publishWrite(tid, pid, preImage, value)
	return nil
}

func (uc *DefaultPaymentUsecase) publishWrite(tid, pid string, before, after *domain.Payment) {
	event := kafka.PaymentChangeEvent{
		TID:    tid,
		PID:    pid,
		Before: kafka.ToPaymentDoc(before),
		After:  kafka.ToPaymentDoc(after),
	}
	value, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal payment change event", "pid", pid, "error", err.Error())
		return
	}
	if err := uc.Publisher.Publish(kafka.TopicPaymentWrites, domain.Message{Key: []byte(tid), Value: value}); err != nil {
		slog.Error("failed to publish payment change event", "pid", pid, "error", err.Error())
	}
}

func (uc *DefaultPaymentUsecase) notifyPayment(action string, payment *domain.Payment) {
	notice := domain.PaymentNotice{
		Target:    payment.PaidBy,
		Amount:    payment.Amount,
		Timestamp: payment.Timestamp.In(uc.Location).Format(noticeTimeLayout),
		PID:       payment.PID,
		TID:       payment.TID,
	}
	if err := uc.Notifier.NotifyPayment(action, notice); err != nil {
		slog.Error("payment notification failed", "pid", payment.PID, "action", action, "error", err.Error())
		uc.Metrics.RecordNotificationError(action)
	}
}
