package setup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-payout-forecast/internal/config"
	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	publisher "github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/lock"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/postgres/repository"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config       *config.ForecastServiceConfig
	DB           *gorm.DB
	Redis        *redis.Client
	Publisher    *publisher.DefaultKafkaPublisher
	Subscriber   *publisher.DefaultKafkaSubscriber
	Locker       domain.RegenerationLocker
	Metrics      *metrics.ForecastMetrics
	RunLogger    *logger.PGRunLogger
	Defaults     *config.DefaultsHolder
	Repositories *Repositories
}

type Repositories struct {
	PayoutRepo   domain.PayoutRepository
	AccountRepo  domain.AccountRepository
	EventRepo    domain.EventRepository
	AccuracyRepo domain.AccuracyRepository
}

func InitializeDependencies(ctx context.Context, cfg *config.ForecastServiceConfig) (*Dependencies, error) {
	db := postgres.MustInitDB(cfg)
	if err := initSchema(db, cfg.Migrations); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	deps := &Dependencies{
		Config:    cfg,
		DB:        db,
		Metrics:   metrics.NewForecastMetrics(),
		RunLogger: logger.NewPGRunLogger(db),
		Defaults:  config.NewDefaultsHolder(cfg.Forecast),
		Repositories: &Repositories{
			PayoutRepo:   repository.NewDefaultPayoutRepository(db),
			AccountRepo:  repository.NewDefaultAccountRepository(db),
			EventRepo:    repository.NewDefaultEventRepository(db),
			AccuracyRepo: repository.NewDefaultAccuracyRepository(db),
		},
	}

	locker, client, err := initLocker(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("locker: %w", err)
	}
	deps.Locker, deps.Redis = locker, client

	if cfg.KafkaService.Enabled && len(cfg.KafkaService.Brokers) > 0 {
		deps.Publisher = publisher.NewDefaultKafkaPublisher(cfg.KafkaService.Brokers)
		deps.Subscriber = publisher.NewDefaultKafkaSubscriber(cfg.KafkaService.Brokers)
	} else {
		slog.Warn("kafka disabled, forecast events will not be published")
	}
	return deps, nil
}

func initSchema(db *gorm.DB, cfg config.Migrations) error {
	if cfg.Enabled {
		return migrate.RunMigrations(db, cfg.Path)
	}
	slog.Info("sql migrations disabled, running gorm auto-migrate")
	return postgres.AutoMigrate(db)
}

// initLocker uses redis when an address is configured and falls back to an
// in-process lock for single-instance deployments.
func initLocker(ctx context.Context, cfg config.Redis) (domain.RegenerationLocker, *redis.Client, error) {
	if cfg.Addr == "" {
		slog.Warn("redis not configured, using in-process regeneration lock")
		return lock.NewMemoryLocker(), nil, nil
	}
	client, err := lock.Connect(cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return lock.NewRedisLocker(client, cfg.LockTTL), client, nil
}

// Ping checks the database; used by the health endpoints.
func (d *Dependencies) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Dependencies) Close() {
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			slog.Error("failed to close kafka publisher", "error", err)
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			slog.Error("failed to close redis client", "error", err)
		}
	}
	if sqlDB, err := d.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
