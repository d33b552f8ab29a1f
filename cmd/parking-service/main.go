package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/au-parking/parking-core-service/internal/app/background"
	"github.com/au-parking/parking-core-service/internal/app/setup"
	"github.com/au-parking/parking-core-service/internal/delivery/changefeed"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	deps, err := setup.InitializeDependencies()
	if err != nil {
		log.Fatalf("failed to init dependencies: %v\n", err)
	}
	defer deps.Publisher.Close()

	useCases := setup.InitializeUseCases(deps)

	ctx := context.Background()

	// Change-feed consumers
	handler := changefeed.NewHandler(
		deps.Subscriber,
		useCases.TransactionUsecase,
		useCases.PaymentUsecase,
		useCases.Rates,
		deps.EventLog,
		deps.Config.KafkaService.GroupID,
	)
	if err := handler.Start(ctx); err != nil {
		log.Fatalf("failed to start change-feed handler: %v\n", err)
	}

	// Daily sweeps
	tasks := background.NewBackgroundTasks(
		useCases.SweepUsecase,
		deps.Location,
		deps.Config.Sweep.WarningTime,
		deps.Config.Sweep.RecalculateTime,
	)
	tasks.StartAll(ctx)

	// Metrics endpoint
	addr := fmt.Sprintf("%s:%s", deps.Config.MetricsServer.Host, deps.Config.MetricsServer.Port)
	http.Handle("/metrics", promhttp.Handler())

	log.Printf("parking core service started, metrics on %s\n", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("failed to serve metrics: %v\n", err)
	}
}
