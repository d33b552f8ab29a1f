package repository

import (
	"github.com/au-parking/parking-core-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

const rateSettingKey = "fee"

type DefaultSettingsRepository struct {
	DB *gorm.DB
}

func NewDefaultSettingsRepository(db *gorm.DB) *DefaultSettingsRepository {
	return &DefaultSettingsRepository{DB: db}
}

// GetRatePerDay reads the per-day rate setting. An unset rate is zero; the
// fee calculator floors the result, so no error here.
func (r *DefaultSettingsRepository) GetRatePerDay() (float64, error) {
	var model models.SettingModel
	if err := r.DB.First(&model, "key = ?", rateSettingKey).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return model.NumberValue, nil
}
