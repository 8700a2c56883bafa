package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/team-service/internal/api/http"
	"github.com/spec-kit/team-service/internal/api/http/handlers"
	"github.com/spec-kit/team-service/internal/cache"
	"github.com/spec-kit/team-service/internal/config"
	"github.com/spec-kit/team-service/internal/events"
	"github.com/spec-kit/team-service/internal/observability"
	"github.com/spec-kit/team-service/internal/persistence"
	"github.com/spec-kit/team-service/internal/repository"
	"github.com/spec-kit/team-service/internal/repository/memory"
	"github.com/spec-kit/team-service/internal/service"
	"github.com/spec-kit/team-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var (
		teamRepo   repository.TeamRepository
		memberRepo repository.MemberRepository
	)
	if pg.Enabled() {
		teamRepo = repository.NewTeamRepository(pg.PoolHandle())
		memberRepo = repository.NewMemberRepository(pg.PoolHandle())
	} else {
		store := memory.NewStore()
		teamRepo = store.Teams()
		memberRepo = store.Members()
	}

	var teamCache service.TeamListCache
	if tc := cache.NewTeamCache(redis.Handle(), cfg.Cache.TeamListTTL()); tc != nil {
		teamCache = tc
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartActivityWorker(service.NewActivityService(dispatcher, teamCache, metrics, logger))

	teamService := service.NewTeamService(service.TeamDependencies{
		TeamRepo:   teamRepo,
		MemberRepo: memberRepo,
		Cache:      teamCache,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Teams:   handlers.NewTeamsHandler(teamService),
		Members: handlers.NewMembersHandler(teamService),
		Metrics: metrics,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.Bool("postgres", pg.Enabled()), zap.Bool("cache", teamCache != nil))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
