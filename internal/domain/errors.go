package domain

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrTransactionPaid     = errors.New("transaction is already paid")
	ErrTransactionCanceled = errors.New("transaction is canceled")
	ErrInvalidStatusEdge   = errors.New("payment status transition not allowed")
	ErrCreateIntentFailed  = errors.New("failed to create payment intent")
)
