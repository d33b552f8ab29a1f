package repository

import (
	"fmt"

	"github.com/au-parking/parking-core-service/internal/domain"
	"github.com/au-parking/parking-core-service/internal/infrastructure/postgres/mappers"
	"github.com/au-parking/parking-core-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultTransactionRepository struct {
	DB *gorm.DB
}

func NewDefaultTransactionRepository(db *gorm.DB) *DefaultTransactionRepository {
	return &DefaultTransactionRepository{DB: db}
}

// Save upserts the full document by primary key; per-document writes are
// serialized by the row lock.
func (r *DefaultTransactionRepository) Save(txn *domain.Transaction) error {
	model := mappers.ToGORMTransaction(txn)
	if err := r.DB.Save(model).Error; err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}
	return nil
}

func (r *DefaultTransactionRepository) GetByID(tid string) (*domain.Transaction, error) {
	var model models.TransactionModel
	if err := r.DB.First(&model, "tid = ?", tid).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return mappers.ToDomainTransaction(&model), nil
}

func (r *DefaultTransactionRepository) FindOpen() ([]*domain.Transaction, error) {
	var transactionModels []models.TransactionModel
	if err := r.DB.
		Where("timestamp_out IS NULL").
		Where("is_cancel = ?", false).
		Find(&transactionModels).Error; err != nil {
		return nil, fmt.Errorf("find open transactions: %w", err)
	}

	transactions := make([]*domain.Transaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = mappers.ToDomainTransaction(&model)
	}
	return transactions, nil
}
