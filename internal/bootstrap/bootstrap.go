package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/staffclock/attendance-service/internal/config"
	"github.com/staffclock/attendance-service/internal/gateway"
	"github.com/staffclock/attendance-service/internal/persistence"
	"github.com/staffclock/attendance-service/internal/repository"
)

// Backends holds the connected external stores and the adapters built on them.
// Every handler receives these explicitly; nothing is process-global.
type Backends struct {
	Postgres *persistence.Postgres
	Redis    *persistence.Redis
	Mongo    *persistence.Mongo

	Identities repository.IdentityRepository
	Profiles   repository.ProfileRepository
	Push       gateway.NotificationGateway
}

// Open connects the configured backends. Callers must Close the result.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backends, error) {
	b := &Backends{}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	b.Postgres = pg
	b.Identities = repository.NewIdentityRepository(pg.PoolHandle(), cfg.Auth.BcryptCost)

	switch cfg.ProfileStore.Driver {
	case config.ProfileStoreMongo:
		mg, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Mongo = mg
		b.Profiles = repository.NewMongoProfileRepository(mg.Database, cfg.ProfileStore.Collection)
	default:
		b.Profiles = repository.NewProfileRepository(pg.PoolHandle())
	}

	switch cfg.Push.Driver {
	case config.PushDriverRedis:
		b.Redis = persistence.NewRedis(ctx, cfg.Redis, logger)
		b.Push = gateway.NewRedisStreamGateway(b.Redis.Client, cfg.Push.Stream)
	default:
		b.Push = gateway.NewWebhookGateway(cfg.Push.Endpoint, cfg.Push.ServerKey, cfg.Push.Timeout())
	}

	logger.Info("backends ready",
		zap.String("profile_store", cfg.ProfileStore.Driver),
		zap.String("push_driver", cfg.Push.Driver))
	return b, nil
}

// Close releases every opened connection.
func (b *Backends) Close() {
	if b == nil {
		return
	}
	b.Mongo.Close()
	b.Redis.Close()
	b.Postgres.Close()
}
