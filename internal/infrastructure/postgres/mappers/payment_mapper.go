package mappers

import (
	"github.com/au-parking/parking-core-service/internal/domain"
	"github.com/au-parking/parking-core-service/internal/infrastructure/postgres/models"
)

func ToGORMPayment(payment *domain.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		PID:          payment.PID,
		TID:          payment.TID,
		ClientSecret: payment.ClientSecret,
		Amount:       payment.Amount,
		Timestamp:    payment.Timestamp,
		Status:       payment.Status,
		Reason:       payment.Reason,
		PaidBy:       payment.PaidBy,
		IsEdit:       payment.IsEdit,
	}
}

func ToDomainPayment(model *models.PaymentModel) *domain.Payment {
	return &domain.Payment{
		PID:          model.PID,
		TID:          model.TID,
		ClientSecret: model.ClientSecret,
		Amount:       model.Amount,
		Timestamp:    model.Timestamp,
		Status:       model.Status,
		Reason:       model.Reason,
		PaidBy:       model.PaidBy,
		IsEdit:       model.IsEdit,
	}
}
