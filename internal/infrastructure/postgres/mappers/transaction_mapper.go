package mappers

import (
	"github.com/au-parking/parking-core-service/internal/domain"
	"github.com/au-parking/parking-core-service/internal/infrastructure/postgres/models"
)

func ToGORMTransaction(txn *domain.Transaction) *models.TransactionModel {
	return &models.TransactionModel{
		TID:           txn.TID,
		LicenseNumber: txn.LicenseNumber,
		TimestampIn:   txn.TimestampIn,
		TimestampOut:  txn.TimestampOut,
		ImageIn:       txn.ImageIn,
		ImageOut:      txn.ImageOut,
		Fee:           txn.Fee,
		Paid:          txn.Paid,
		Status:        txn.Status,
		Remark:        txn.Remark,
		AddBy:         txn.AddBy,
		IsOvernight:   txn.IsOvernight,
		IsCancel:      txn.IsCancel,
		IsEdit:        txn.IsEdit,
	}
}

func ToDomainTransaction(model *models.TransactionModel) *domain.Transaction {
	return &domain.Transaction{
		TID:           model.TID,
		LicenseNumber: model.LicenseNumber,
		TimestampIn:   model.TimestampIn,
		TimestampOut:  model.TimestampOut,
		ImageIn:       model.ImageIn,
		ImageOut:      model.ImageOut,
		Fee:           model.Fee,
		Paid:          model.Paid,
		Status:        model.Status,
		Remark:        model.Remark,
		AddBy:         model.AddBy,
		IsOvernight:   model.IsOvernight,
		IsCancel:      model.IsCancel,
		IsEdit:        model.IsEdit,
	}
}
