package domain

type WriteAction string

const (
	WriteNoop   WriteAction = "noop"
	WriteCommit WriteAction = "commit"
	WriteRevert WriteAction = "revert"
)

// TransactionDecision is the outcome of one transaction change-feed invocation.
// Transaction holds the committed value (or the restored pre-image on revert).
type TransactionDecision struct {
	Action      WriteAction
	Transaction *Transaction
	Notify      string
}

// PaymentDecision is the outcome of one payment change-feed invocation.
// Parent is set when the write also moved the owning transaction's balance.
type PaymentDecision struct {
	Action  WriteAction
	Payment *Payment
	Parent  *Transaction
	Notify  string
}
