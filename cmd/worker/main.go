package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/socialhealth/healthscore/internal/cache"
	"github.com/socialhealth/healthscore/internal/db"
	"github.com/socialhealth/healthscore/internal/scoring"
	"github.com/socialhealth/healthscore/internal/service"
	"github.com/socialhealth/healthscore/internal/worker"
	"github.com/socialhealth/healthscore/pkg/config"
	"github.com/socialhealth/healthscore/pkg/logging"
	"github.com/socialhealth/healthscore/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting health score rescoring worker")

	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redisCache.Close()

	repo := db.NewRepository(database.DB)
	stores := service.NewStores(repo)
	var scoreCache service.Cache
	if redisCache != nil {
		scoreCache = redisCache
	}
	scores := service.NewScoreService(stores, scoreCache, scoring.MustDefaultCalculator(), cfg.Scoring)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rescorer := worker.NewRescorer(db.NewAccountRepository(repo), scores, cfg.Worker)
	if err := rescorer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", zap.Error(err))
	}

	logger.Info("Worker exited")
}
