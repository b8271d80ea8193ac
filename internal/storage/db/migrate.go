package db

import (
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrations embed.FS

func init() {
	goose.SetBaseFS(migrations)
}

// MigrateResult reports the schema version before and after a migration run.
type MigrateResult struct {
	From int64
	To   int64
}

// Migrate applies every pending migration, stored procedures included.
func Migrate(pool *pgxpool.Pool) (MigrateResult, error) {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return MigrateResult{}, fmt.Errorf("set goose dialect: %w", err)
	}

	from, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return MigrateResult{}, fmt.Errorf("get schema version: %w", err)
	}

	if err := goose.Up(sqlDB, migrationsDir); err != nil {
		return MigrateResult{From: from}, fmt.Errorf("goose up: %w", err)
	}

	to, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return MigrateResult{From: from}, fmt.Errorf("get schema version: %w", err)
	}

	return MigrateResult{From: from, To: to}, nil
}

// LatestVersion is the version of the newest embedded migration.
func LatestVersion() (int64, error) {
	ms, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	if err != nil {
		return 0, fmt.Errorf("collect migrations: %w", err)
	}
	last, err := ms.Last()
	if err != nil {
		return 0, fmt.Errorf("last migration: %w", err)
	}
	return last.Version, nil
}
