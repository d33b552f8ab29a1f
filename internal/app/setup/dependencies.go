package setup

import (
	"fmt"
	"time"

	"github.com/au-parking/parking-core-service/internal/config"
	"github.com/au-parking/parking-core-service/internal/domain"
	"github.com/au-parking/parking-core-service/internal/infrastructure/kafka"
	"github.com/au-parking/parking-core-service/internal/infrastructure/logger"
	"github.com/au-parking/parking-core-service/internal/infrastructure/metrics"
	"github.com/au-parking/parking-core-service/internal/infrastructure/migrate"
	"github.com/au-parking/parking-core-service/internal/infrastructure/notifier"
	"github.com/au-parking/parking-core-service/internal/infrastructure/postgres"
	"github.com/au-parking/parking-core-service/internal/infrastructure/postgres/repository"
	"github.com/au-parking/parking-core-service/internal/infrastructure/stripe"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config       *config.ParkingConfig
	DB           *gorm.DB
	Location     *time.Location
	Publisher    *kafka.DefaultKafkaPublisher
	Subscriber   *kafka.DefaultKafkaSubscriber
	Metrics      *metrics.ParkingMetrics
	Notifier     domain.NotifierPort
	Gateway      domain.PaymentGatewayPort
	EventLog     logger.ChangeEventLogger
	Repositories *Repositories
}

type Repositories struct {
	TransactionRepo domain.TransactionRepository
	PaymentRepo     domain.PaymentRepository
	CarRepo         domain.CarRepository
	SettingsRepo    domain.SettingsRepository
}

func InitializeDependencies() (*Dependencies, error) {
	cfg := config.MustLoad()

	db := postgres.MustInitDB(cfg)
	if cfg.ParkingDB.MigrationPath != "" {
		if err := migrate.Run(db, cfg.ParkingDB.MigrationPath); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	location, err := time.LoadLocation(cfg.Facility.Timezone)
	if err != nil {
		return nil, fmt.Errorf("facility timezone: %w", err)
	}

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}

	gateway, err := stripe.NewClient(cfg.StripeService.SecretKey, cfg.StripeService.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("stripe client: %w", err)
	}

	repos := &Repositories{
		TransactionRepo: repository.NewDefaultTransactionRepository(db),
		PaymentRepo:     repository.NewDefaultPaymentRepository(db),
		CarRepo:         repository.NewDefaultCarRepository(db),
		SettingsRepo:    repository.NewDefaultSettingsRepository(db),
	}

	return &Dependencies{
		Config:       cfg,
		DB:           db,
		Location:     location,
		Publisher:    kafka.NewDefaultKafkaPublisher(brokers),
		Subscriber:   kafka.NewDefaultKafkaSubscriber(brokers),
		Metrics:      metrics.NewParkingMetrics(),
		Notifier:     notifier.NewBotNotifier(cfg.BotService.BaseURL, cfg.BotService.Secret),
		Gateway:      gateway,
		EventLog:     logger.NewPGChangeEventLogger(db),
		Repositories: repos,
	}, nil
}
