package kafka

import (
	"time"

	"github.com/au-parking/parking-core-service/internal/domain"
)

// Change-feed topics. Every committed document write is published as a
// (before, after) pair on the collection's topic, including the writes this
// service performs itself; consumers rely on the idempotency markers to tell
// the two apart.
const (
	TopicTransactionWrites = "transaction-writes"
	TopicPaymentWrites     = "payment-writes"
	TopicSettingWrites     = "setting-writes"
)

// RateSettingPath is the settings-store path carrying the per-day rate.
const RateSettingPath = "settings/fee"

type TransactionDoc struct {
	TID           string     `json:"tid"`
	LicenseNumber string     `json:"license_number"`
	TimestampIn   time.Time  `json:"timestamp_in"`
	TimestampOut  *time.Time `json:"timestamp_out"`
	ImageIn       string     `json:"image_in,omitempty"`
	ImageOut      string     `json:"image_out,omitempty"`
	Fee           float64    `json:"fee"`
	Paid          float64    `json:"paid"`
	Status        string     `json:"status"`
	Remark        string     `json:"remark"`
	AddBy         string     `json:"add_by,omitempty"`
	IsOvernight   bool       `json:"is_overnight,omitempty"`
	IsCancel      bool       `json:"is_cancel,omitempty"`
	IsEdit        bool       `json:"is_edit,omitempty"`
}

type PaymentDoc struct {
	PID          string    `json:"pid"`
	TID          string    `json:"tid"`
	ClientSecret string    `json:"client_secret,omitempty"`
	Amount       float64   `json:"amount"`
	Timestamp    time.Time `json:"timestamp"`
	Status       string    `json:"status"`
	Reason       string    `json:"reason,omitempty"`
	PaidBy       string    `json:"paid_by,omitempty"`
	IsEdit       bool      `json:"is_edit,omitempty"`
}

// TransactionChangeEvent mirrors the document-store write trigger contract:
// absent Before means create, absent After means delete.
type TransactionChangeEvent struct {
	TID    string          `json:"tid"`
	Before *TransactionDoc `json:"before,omitempty"`
	After  *TransactionDoc `json:"after,omitempty"`
}

type PaymentChangeEvent struct {
	TID    string      `json:"tid"`
	PID    string      `json:"pid"`
	Before *PaymentDoc `json:"before,omitempty"`
	After  *PaymentDoc `json:"after,omitempty"`
}

type SettingChangeEvent struct {
	Path  string   `json:"path"`
	Value *float64 `json:"value,omitempty"`
}

func ToTransactionDoc(txn *domain.Transaction) *TransactionDoc {
	if txn == nil {
		return nil
	}
	return &TransactionDoc{
		TID:           txn.TID,
		LicenseNumber: txn.LicenseNumber,
		TimestampIn:   txn.TimestampIn,
		TimestampOut:  txn.TimestampOut,
		ImageIn:       txn.ImageIn,
		ImageOut:      txn.ImageOut,
		Fee:           txn.Fee,
		Paid:          txn.Paid,
		Status:        string(txn.Status),
		Remark:        txn.Remark,
		AddBy:         txn.AddBy,
		IsOvernight:   txn.IsOvernight,
		IsCancel:      txn.IsCancel,
		IsEdit:        txn.IsEdit,
	}
}

func ToDomainTransaction(doc *TransactionDoc) *domain.Transaction {
	if doc == nil {
		return nil
	}
	return &domain.Transaction{
		TID:           doc.TID,
		LicenseNumber: doc.LicenseNumber,
		TimestampIn:   doc.TimestampIn,
		TimestampOut:  doc.TimestampOut,
		ImageIn:       doc.ImageIn,
		ImageOut:      doc.ImageOut,
		Fee:           doc.Fee,
		Paid:          doc.Paid,
		Status:        domain.TransactionStatus(doc.Status),
		Remark:        doc.Remark,
		AddBy:         doc.AddBy,
		IsOvernight:   doc.IsOvernight,
		IsCancel:      doc.IsCancel,
		IsEdit:        doc.IsEdit,
	}
}

func ToPaymentDoc(payment *domain.Payment) *PaymentDoc {
	if payment == nil {
		return nil
	}
	return &PaymentDoc{
		PID:          payment.PID,
		TID:          payment.TID,
		ClientSecret: payment.ClientSecret,
		Amount:       payment.Amount,
		Timestamp:    payment.Timestamp,
		Status:       string(payment.Status),
		Reason:       payment.Reason,
		PaidBy:       payment.PaidBy,
		IsEdit:       payment.IsEdit,
	}
}

func ToDomainPayment(doc *PaymentDoc) *domain.Payment {
	if doc == nil {
		return nil
	}
	return &domain.Payment{
		PID:          doc.PID,
		TID:          doc.TID,
		ClientSecret: doc.ClientSecret,
		Amount:       doc.Amount,
		Timestamp:    doc.Timestamp,
		Status:       domain.PaymentStatus(doc.Status),
		Reason:       doc.Reason,
		PaidBy:       doc.PaidBy,
		IsEdit:       doc.IsEdit,
	}
}
