package postgres

import (
	"log"

	"github.com/au-parking/parking-core-service/internal/config"
	"github.com/au-parking/parking-core-service/internal/infrastructure/logger"
	"github.com/au-parking/parking-core-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.ParkingConfig) *gorm.DB {
	dsn := cfg.ParkingDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.TransactionModel{},
		&models.PaymentModel{},
		&models.CarModel{},
		&models.SettingModel{},
		&logger.ChangeProcessedEvent{},
	)

	return db
}
