package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/staffclock/attendance-service/internal/api/http"
	"github.com/staffclock/attendance-service/internal/api/http/handlers"
	"github.com/staffclock/attendance-service/internal/auth"
	"github.com/staffclock/attendance-service/internal/bootstrap"
	"github.com/staffclock/attendance-service/internal/config"
	"github.com/staffclock/attendance-service/internal/observability"
	"github.com/staffclock/attendance-service/internal/persistence"
	"github.com/staffclock/attendance-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backends, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open backends", zap.Error(err))
	}
	defer backends.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, backends.Postgres.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	authService := service.NewAuthService(cfg.Auth, backends.Identities, logger)
	provisioningService := service.NewProvisioningService(service.ProvisioningDependencies{
		IdentityRepo: backends.Identities,
		ProfileRepo:  backends.Profiles,
	}, logger)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readinessChecks(backends), metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Staff:          handlers.NewStaffHandler(provisioningService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func readinessChecks(b *bootstrap.Backends) map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{"postgres": b.Postgres}
	if b.Redis != nil {
		checks["redis"] = b.Redis
	}
	if b.Mongo != nil {
		checks["mongo"] = b.Mongo
	}
	return checks
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
