package setup

import (
	"github.com/au-parking/parking-core-service/internal/usecase"
)

type UseCases struct {
	TransactionUsecase usecase.TransactionUsecase
	PaymentUsecase     usecase.PaymentUsecase
	SweepUsecase       usecase.SweepUsecase
	Rates              *usecase.RateCache
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	rates := usecase.NewRateCache(deps.Repositories.SettingsRepo, deps.Config.Facility.RateTTL)

	transactionUsecase := usecase.NewDefaultTransactionUsecase(
		deps.Repositories.TransactionRepo,
		deps.Repositories.PaymentRepo,
		rates,
		deps.Gateway,
		deps.Notifier,
		deps.Publisher,
		deps.Metrics,
		deps.Location,
	)

	paymentUsecase := usecase.NewDefaultPaymentUsecase(
		deps.Repositories.TransactionRepo,
		deps.Repositories.PaymentRepo,
		deps.Gateway,
		deps.Notifier,
		deps.Publisher,
		deps.Metrics,
		deps.Location,
	)

	sweepUsecase := usecase.NewDefaultSweepUsecase(
		deps.Repositories.TransactionRepo,
		deps.Repositories.CarRepo,
		deps.Notifier,
		deps.Publisher,
		deps.Metrics,
	)

	return &UseCases{
		TransactionUsecase: transactionUsecase,
		PaymentUsecase:     paymentUsecase,
		SweepUsecase:       sweepUsecase,
		Rates:              rates,
	}
}
