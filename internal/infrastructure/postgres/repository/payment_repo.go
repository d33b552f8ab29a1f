package repository

import (
	"fmt"

	"github.com/au-parking/parking-core-service/internal/domain"
	"github.com/au-parking/parking-core-service/internal/infrastructure/postgres/mappers"
	"github.com/au-parking/parking-core-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPaymentRepository struct {
	DB *gorm.DB
}

func NewDefaultPaymentRepository(db *gorm.DB) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{DB: db}
}

func (r *DefaultPaymentRepository) Save(payment *domain.Payment) error {
	model := mappers.ToGORMPayment(payment)
	if err := r.DB.Save(model).Error; err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	return nil
}

func (r *DefaultPaymentRepository) GetByID(tid, pid string) (*domain.Payment, error) {
	var model models.PaymentModel
	if err := r.DB.First(&model, "tid = ? AND pid = ?", tid, pid).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return mappers.ToDomainPayment(&model), nil
}

func (r *DefaultPaymentRepository) FindPendingByTID(tid string) ([]*domain.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := r.DB.
		Where("tid = ? AND status = ?", tid, domain.PaymentPending).
		Order("timestamp ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, fmt.Errorf("find pending payments: %w", err)
	}

	payments := make([]*domain.Payment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = mappers.ToDomainPayment(&model)
	}
	return payments, nil
}

// SettleWithParent commits the payment together with the owning transaction's
// balance in one database transaction. The parent's paid total is re-derived
// from the Success payment set rather than incremented, so a replayed or
// half-applied settlement converges instead of drifting.
func (r *DefaultPaymentRepository) SettleWithParent(payment *domain.Payment) (*domain.Transaction, error) {
	var parent *domain.Transaction

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(mappers.ToGORMPayment(payment)).Error; err != nil {
			return fmt.Errorf("save payment: %w", err)
		}

		var paid float64
		if err := tx.Model(&models.PaymentModel{}).
			Where("tid = ? AND status = ?", payment.TID, domain.PaymentSuccess).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&paid).Error; err != nil {
			return fmt.Errorf("sum settled payments: %w", err)
		}
		if paid < 0 {
			paid = 0
		}

		var parentModel models.TransactionModel
		if err := tx.First(&parentModel, "tid = ?", payment.TID).Error; err != nil {
			return fmt.Errorf("load parent transaction: %w", err)
		}

		parentModel.Paid = paid
		parentModel.Status = domain.TransactionStatusOf(parentModel.Fee, paid, parentModel.IsCancel)
		if err := tx.Save(&parentModel).Error; err != nil {
			return fmt.Errorf("update parent transaction: %w", err)
		}

		parent = mappers.ToDomainTransaction(&parentModel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return parent, nil
}
