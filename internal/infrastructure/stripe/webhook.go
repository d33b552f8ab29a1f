package stripe

import "github.com/au-parking/parking-core-service/internal/domain"

// Webhook event types the gateway delivers for payment intents.
const (
	EventIntentSucceeded  = "payment_intent.succeeded"
	EventIntentProcessing = "payment_intent.processing"
	EventIntentCanceled   = "payment_intent.canceled"
	EventIntentFailed     = "payment_intent.payment_failed"
)

// MapEvent translates a webhook event type into the payment-status edge the
// payment state machine should apply. The webhook HTTP surface itself is
// owned by the API layer; it calls this and issues the payment write.
func MapEvent(eventType string) (domain.PaymentStatus, bool) {
	switch eventType {
	case EventIntentSucceeded:
		return domain.PaymentSuccess, true
	case EventIntentProcessing:
		return domain.PaymentProcess, true
	case EventIntentCanceled:
		return domain.PaymentCanceled, true
	case EventIntentFailed:
		return domain.PaymentFailed, true
	}
	return "", false
}
