// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"hotel-pms/cmd"
	"hotel-pms/internal/data/repository"
	"hotel-pms/internal/data/repository/memory"
	"hotel-pms/internal/wire"
	"hotel-pms/pkg/database"
	"hotel-pms/pkg/feed"
	"hotel-pms/pkg/metrics"
	"hotel-pms/pkg/tracing"
	"hotel-pms/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("store", config.App.StoreDriver),
		zap.String("timezone", config.App.Location().String()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, err := tracing.Init(ctx, tracing.Config{
		ServiceName: config.App.Name,
		Endpoint:    config.Tracing.Endpoint,
		Enabled:     config.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal("Failed to init tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}()

	// Initialize all repositories
	var repos *repository.Repository
	switch config.App.StoreDriver {
	case utils.StoreDriverMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		repos = memory.NewRepository(logger)
	default:
		db, err := database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		logger.Info("Database connected successfully")

		if config.Database.Migrate {
			if err := database.Migrate(ctx, db); err != nil {
				logger.Fatal("Failed to migrate database", zap.Error(err))
			}
		}
		repos = repository.NewRepository(db, logger)
	}

	m := metrics.New(config.Metrics.Namespace)

	var roomFeed wire.RoomFeed = feed.Nop{}
	if config.Redis.Enabled {
		client, err := feed.Connect(ctx, config.Redis.Addr, config.Redis.Password, config.Redis.DB)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()
		roomFeed = feed.NewRedisFeed(client, m, logger)
		logger.Info("Live room feed enabled", zap.String("redis", config.Redis.Addr))
	}

	// Wire all dependencies
	app := wire.Wiring(repos, config, wire.Deps{Metrics: m, Feed: roomFeed}, logger)

	// Start server
	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}
