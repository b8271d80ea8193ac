package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tuanvumaihuynh/retail-pos/internal/config"
	"github.com/tuanvumaihuynh/retail-pos/internal/log"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running rp-migrate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log).With(slog.String("service", "rp-migrate"))

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	target, err := db.LatestVersion()
	if err != nil {
		return fmt.Errorf("error reading embedded migrations: %w", err)
	}

	logger.InfoContext(ctx, "migrating pos schema",
		slog.String("database", cfg.Postgres.DB),
		slog.Int64("target_version", target),
	)

	res, err := db.Migrate(pgxPool)
	if err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}

	if res.From == res.To {
		logger.InfoContext(ctx, "pos schema already up to date", slog.Int64("version", res.To))
		return nil
	}
	logger.InfoContext(ctx, "pos schema migrated",
		slog.Int64("from_version", res.From),
		slog.Int64("to_version", res.To),
	)

	return nil
}
