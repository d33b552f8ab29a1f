package mappers

import (
	"github.com/au-parking/parking-core-service/internal/domain"
	"github.com/au-parking/parking-core-service/internal/infrastructure/postgres/models"
)

func ToDomainCar(model *models.CarModel) *domain.Car {
	return &domain.Car{
		LicenseNumber: model.LicenseNumber,
		Owners:        model.Owners,
	}
}
