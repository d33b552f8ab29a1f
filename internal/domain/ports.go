package domain

import "context"

type TransactionRepository interface {
	Save(txn *Transaction) error
	GetByID(tid string) (*Transaction, error)
	// FindOpen returns transactions with no exit time and no cancellation.
	FindOpen() ([]*Transaction, error)
}

type PaymentRepository interface {
	Save(payment *Payment) error
	GetByID(tid, pid string) (*Payment, error)
	FindPendingByTID(tid string) ([]*Payment, error)
	// SettleWithParent commits the payment and the owning transaction's
	// balance in one store transaction. The parent's paid total is re-derived
	// from the settled payment set, not incremented.
	SettleWithParent(payment *Payment) (*Transaction, error)
}

type CarRepository interface {
	GetByLicense(licenseNumber string) (*Car, error)
}

type SettingsRepository interface {
	GetRatePerDay() (float64, error)
}

type Message struct {
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(topic string, msgs ...Message) error
}

type SubscriberPort interface {
	Subscribe(topic, groupID string) (<-chan Message, error)
}

// PaymentIntent is the gateway-side half of a pending payment.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

type PaymentGatewayPort interface {
	CreateIntent(ctx context.Context, amount float64, currency, description string, metadata map[string]string) (*PaymentIntent, error)
	UpdateIntent(ctx context.Context, intentID string, amount float64) error
	CancelIntent(ctx context.Context, intentID, reason string) error
}
