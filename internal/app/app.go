// Package app assembles the runtime: connections, repositories and services.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/osmand-tracker/tracker/internal/core/credential"
	"github.com/osmand-tracker/tracker/internal/core/ports"
	"github.com/osmand-tracker/tracker/internal/core/service"
	"github.com/osmand-tracker/tracker/internal/infrastructure/db/mongo"
	"github.com/osmand-tracker/tracker/internal/infrastructure/db/redis"
	"github.com/osmand-tracker/tracker/internal/infrastructure/http/handlers"
	"github.com/osmand-tracker/tracker/internal/pkg/config"
	"github.com/osmand-tracker/tracker/pkg/logger"
)

// App owns every long-lived resource. It is built once by New and released
// by Close; nothing in the process holds these as globals.
type App struct {
	Config *config.Config
	Log    zerolog.Logger

	MongoClient *mongodriver.Client
	DB          *mongodriver.Database
	Redis       *goredis.Client

	Points *mongo.PointRepository

	Identities ports.IdentityService
	Ingest     ports.PointService
	Trips      ports.TripService
}

// New connects to mongo and redis, ensures indexes and wires the services.
// Services log through logger.Component, so logger.Init must have run.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	hasher, err := credential.New(cfg.CredentialHash)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	onRetry := func(name string) func(error, time.Duration) {
		return func(err error, wait time.Duration) {
			log.Warn().Err(err).Dur("retry_in", wait).Msgf("%s not reachable yet", name)
		}
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:        cfg.Mongo.URI,
		Database:   cfg.Mongo.Database,
		MaxElapsed: cfg.ConnectMaxElapsed,
		OnRetry:    onRetry("mongodb"),
	})
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:       cfg.Redis.Addr,
		DB:         cfg.Redis.DB,
		MaxElapsed: cfg.ConnectMaxElapsed,
		OnRetry:    onRetry("redis"),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("app: %w", err)
	}

	points := mongo.NewPointRepository(db, cfg.Mongo.SnapshotReads)
	if err := points.EnsureIndexes(ctx); err != nil {
		_ = rdb.Close()
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("app: ensure indexes: %w", err)
	}

	identities := service.NewIdentityService(
		mongo.NewIdentityRepository(db),
		hasher,
		redis.NewCredentialCache(rdb, cfg.Redis.CredentialCacheTTL),
		logger.Component("identity"),
	)

	a := &App{
		Config:      cfg,
		Log:         log,
		MongoClient: client,
		DB:          db,
		Redis:       rdb,
		Points:      points,
		Identities:  identities,
		Ingest:      service.NewPointService(identities, points, logger.Component("ingest")),
		Trips:       service.NewTripService(points, logger.Component("trips")),
	}

	log.Info().
		Str("mongo_db", cfg.Mongo.Database).
		Str("redis_addr", cfg.Redis.Addr).
		Str("credential_hash", cfg.CredentialHash).
		Msg("dependencies ready")

	return a, nil
}

// Checks returns the readiness probes for the app's dependencies.
func (a *App) Checks() map[string]handlers.Check {
	return map[string]handlers.Check{
		"mongodb": handlers.MongoCheck(a.DB),
		"redis":   handlers.RedisCheck(a.Redis),
	}
}

// Close releases connections. It is safe to call once.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.Redis.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close redis: %w", err))
	}
	if err := a.MongoClient.Disconnect(ctx); err != nil {
		errs = append(errs, fmt.Errorf("disconnect mongo: %w", err))
	}
	return errors.Join(errs...)
}
