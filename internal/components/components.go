package components

import (
	"context"
	"fmt"
	"os"
	"time"

	"log/slog"

	"github.com/philsmcc/groupdeedov2/internal/api"
	"github.com/philsmcc/groupdeedov2/internal/config"
	"github.com/philsmcc/groupdeedov2/internal/presence"
	"github.com/philsmcc/groupdeedov2/internal/redis"
	"github.com/philsmcc/groupdeedov2/internal/service"
	"github.com/philsmcc/groupdeedov2/internal/storage/postgres"
	"github.com/philsmcc/groupdeedov2/internal/workers"
	"github.com/philsmcc/groupdeedov2/pkg/logger"
)

type Components struct {
	logger           *slog.Logger
	HttpServer       *api.Server
	Postgres         *postgres.Postgres
	Redis            *redis.Redis
	Registry         *presence.Registry
	PresenceSweeper  *workers.PresenceSweeper
	RetentionSweeper *workers.RetentionSweeper
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	logger.Info("Initializing Postgres")

	storage, err := postgres.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to init postgres",
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	logger.Info("Initializing Redis")
	redisClient, err := redis.NewRedis(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	prefCache := redis.NewPreferenceCache(redisClient)
	registry := presence.NewRegistry()

	chatSvc := service.NewChatService(storage.Messages(), registry, logger, cfg.Chat.DefaultRadiusMiles, cfg.Chat.FetchLimit)
	prefSvc := service.NewPreferenceService(storage.Preferences(), prefCache, logger, cfg.Redis.PrefTTL)

	srv := service.NewService(chatSvc, prefSvc)

	httpServer := api.NewServer(cfg, logger, srv, registry, storage.Pool)
	logger.Info("Initialized server")

	presenceSweeper := workers.NewPresenceSweeper(registry, logger, cfg.Presence.SweepInterval, cfg.Presence.TTL)
	retentionSweeper := workers.NewRetentionSweeper(storage.Messages(), logger, cfg.Retention.SweepInterval, cfg.Retention.Window)

	return &Components{
		logger:           logger,
		HttpServer:       httpServer,
		Postgres:         storage,
		Redis:            redisClient,
		Registry:         registry,
		PresenceSweeper:  presenceSweeper,
		RetentionSweeper: retentionSweeper,
	}, nil
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Shutting down components")

	c.Postgres.Pool.Close()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))
}
