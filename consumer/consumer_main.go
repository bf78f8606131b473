package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/colonia-io/colonia/config"
	"github.com/colonia-io/colonia/consumer/worker"
	infraPkg "github.com/colonia-io/colonia/infra"
	"github.com/colonia-io/colonia/repository"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra)
	telemetry := infraPkg.InitTelemetry(cfg.EnvConfig)

	// Initialize context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start Repo Scan Consumer
	scanConsumer := worker.NewRepoScanConsumer(infra.RabbitMQ.Channel, infra, repo, cfg.EnvConfig)
	if err := scanConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start Repo Scan consumer: %v", err)
		log.Fatalf("Failed to start Repo Scan consumer: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down consumer...")
	cancel() // Cancel context to stop consumers

	infra.Logger.InfoWithContextf(ctx, "Consumer exited properly")

	telemetry.Shutdown(context.Background())
	_ = infra.Logger.Shutdown(context.Background())
	infra.RabbitMQ.Close()
}
