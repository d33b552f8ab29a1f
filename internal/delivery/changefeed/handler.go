package changefeed

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/au-parking/parking-core-service/internal/domain"
	"github.com/au-parking/parking-core-service/internal/infrastructure/kafka"
	"github.com/au-parking/parking-core-service/internal/infrastructure/logger"
	"github.com/au-parking/parking-core-service/internal/usecase"
	"github.com/google/uuid"
)

// Handler consumes the change-feed topics and dispatches each event to the
// matching state machine. Delivery is at-least-once and unordered across
// documents; the state machines' idempotency markers carry the safety.
type Handler struct {
	Subscriber         domain.SubscriberPort
	TransactionUsecase usecase.TransactionUsecase
	PaymentUsecase     usecase.PaymentUsecase
	Rates              *usecase.RateCache
	EventLog           logger.ChangeEventLogger
	GroupID            string
}

func NewHandler(
	subscriber domain.SubscriberPort,
	transactionUsecase usecase.TransactionUsecase,
	paymentUsecase usecase.PaymentUsecase,
	rates *usecase.RateCache,
	eventLog logger.ChangeEventLogger,
	groupID string) *Handler {

	return &Handler{
		Subscriber:         subscriber,
		TransactionUsecase: transactionUsecase,
		PaymentUsecase:     paymentUsecase,
		Rates:              rates,
		EventLog:           eventLog,
		GroupID:            groupID,
	}
}

func (h *Handler) Start(ctx context.Context) error {
	transactions, err := h.Subscriber.Subscribe(kafka.TopicTransactionWrites, h.GroupID)
	if err != nil {
		return err
	}
	payments, err := h.Subscriber.Subscribe(kafka.TopicPaymentWrites, h.GroupID)
	if err != nil {
		return err
	}
	settings, err := h.Subscriber.Subscribe(kafka.TopicSettingWrites, h.GroupID)
	if err != nil {
		return err
	}

	go h.consumeTransactions(ctx, transactions)
	go h.consumePayments(ctx, payments)
	go h.consumeSettings(ctx, settings)
	return nil
}

func (h *Handler) consumeTransactions(ctx context.Context, messages <-chan domain.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event kafka.TransactionChangeEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				slog.Error("bad transaction change event", "error", err.Error())
				continue
			}

			decision, err := h.TransactionUsecase.OnTransactionWrite(
				ctx,
				event.TID,
				kafka.ToDomainTransaction(event.Before),
				kafka.ToDomainTransaction(event.After),
			)
			h.logProcessed(ctx, "transactions", event.TID, "", decision == nil, actionOf(decision), err)
		}
	}
}

func (h *Handler) consumePayments(ctx context.Context, messages <-chan domain.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event kafka.PaymentChangeEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				slog.Error("bad payment change event", "error", err.Error())
				continue
			}

			decision, err := h.PaymentUsecase.OnPaymentWrite(
				ctx,
				event.TID,
				event.PID,
				kafka.ToDomainPayment(event.Before),
				kafka.ToDomainPayment(event.After),
			)
			h.logProcessed(ctx, "payments", event.TID, event.PID, decision == nil, paymentActionOf(decision), err)
		}
	}
}

// consumeSettings keeps the rate cache in line with the settings store: a
// numeric write to the rate path pushes the value, anything else drops it.
func (h *Handler) consumeSettings(ctx context.Context, messages <-chan domain.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event kafka.SettingChangeEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				slog.Error("bad setting change event", "error", err.Error())
				continue
			}
			if event.Path != kafka.RateSettingPath {
				continue
			}
			if event.Value != nil {
				h.Rates.Set(*event.Value)
				slog.Info("rate per day updated", "rate", *event.Value)
			} else {
				h.Rates.Invalidate()
			}
		}
	}
}

func (h *Handler) logProcessed(ctx context.Context, collection, tid, pid string, dropped bool, action string, processErr error) {
	if processErr != nil {
		slog.Error("change processing failed", "collection", collection, "tid", tid, "pid", pid, "error", processErr.Error())
	}

	event := logger.ChangeProcessedEvent{
		EventID:    uuid.New().String(),
		Collection: collection,
		TID:        tid,
		PID:        pid,
		Action:     action,
		Timestamp:  time.Now(),
	}
	if dropped {
		event.Action = "dropped"
	}
	if processErr != nil {
		event.Error = processErr.Error()
	}
	if err := h.EventLog.LogChangeProcessed(ctx, event); err != nil {
		slog.Error("failed to log processed change", "collection", collection, "error", err.Error())
	}
}

func actionOf(decision *domain.TransactionDecision) string {
	if decision == nil {
		return ""
	}
	return string(decision.Action)
}

func paymentActionOf(decision *domain.PaymentDecision) string {
	if decision == nil {
		return ""
	}
	return string(decision.Action)
}
