package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/team-service/internal/config"
	"github.com/spec-kit/team-service/internal/observability"
	"github.com/spec-kit/team-service/internal/persistence"
)

func main() {
	command := flag.String("command", "up", "Migration command: up, down or status")
	timeout := flag.Duration("timeout", time.Minute, "Overall timeout")
	flag.Parse()

	cmd := persistence.MigrationCommand(*command)
	switch cmd {
	case persistence.MigrateUp, persistence.MigrateDown, persistence.MigrateStatus:
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", *command)
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Postgres.DSN == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.Migrate(ctx, pg.PoolHandle(), logger, cmd); err != nil {
		logger.Fatal("migration failed", zap.String("command", string(cmd)), zap.Error(err))
	}
	logger.Info("migration finished", zap.String("command", string(cmd)))
}
