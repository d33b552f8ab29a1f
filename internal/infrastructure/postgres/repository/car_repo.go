package repository

import (
	"github.com/au-parking/parking-core-service/internal/domain"
	"github.com/au-parking/parking-core-service/internal/infrastructure/postgres/mappers"
	"github.com/au-parking/parking-core-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultCarRepository struct {
	DB *gorm.DB
}

func NewDefaultCarRepository(db *gorm.DB) *DefaultCarRepository {
	return &DefaultCarRepository{DB: db}
}

// GetByLicense resolves the current owner set for a plate. An unknown plate
// is not an error, it just has no owners to notify.
func (r *DefaultCarRepository) GetByLicense(licenseNumber string) (*domain.Car, error) {
	var model models.CarModel
	if err := r.DB.First(&model, "license_number = ?", licenseNumber).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &domain.Car{LicenseNumber: licenseNumber}, nil
		}
		return nil, err
	}
	return mappers.ToDomainCar(&model), nil
}
