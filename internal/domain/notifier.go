package domain

// Notification actions understood by the bot delivery channel.
const (
	ActionEntrance  = "entrance"
	ActionExit      = "exit"
	ActionCancel    = "cancel"
	ActionOvernight = "overnight"
	ActionUpdate    = "update"
	ActionWarning   = "warning"

	ActionReceive = "receive"
	ActionReject  = "reject"
	ActionRefund  = "refund"
)

// TransactionNotice carries the transaction fields the bot renders to owners.
// Timestamps are pre-formatted in the facility's local zone.
type TransactionNotice struct {
	TID           string  `json:"tid"`
	LicenseNumber string  `json:"license_number"`
	TimestampIn   string  `json:"timestamp_in"`
	TimestampOut  string  `json:"timestamp_out,omitempty"`
	Fee           float64 `json:"fee"`
	ImageIn       string  `json:"image_in,omitempty"`
	ImageOut      string  `json:"image_out,omitempty"`
}

type PaymentNotice struct {
	Target    string  `json:"target"`
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp"`
	PID       string  `json:"pid"`
	TID       string  `json:"tid"`
}

// NotifierPort requests a push notification. Delivery is at-most-once and
// best-effort: callers log errors and never roll back state on failure.
type NotifierPort interface {
	NotifyTransaction(action string, notice TransactionNotice) error
	NotifyPayment(action string, notice PaymentNotice) error
	NotifyWarning(targets []string) error
}
