package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is what repositories and writers run their statements against. It is
// satisfied by the pool and by an open transaction alike.
type DB interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row

	CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error)
	SendBatch(context.Context, *pgx.Batch) pgx.BatchResults

	// WithTx runs txFunc in a transaction that commits when txFunc returns nil.
	// Called on a DB that is already a transaction it opens a savepoint, so a
	// failing inner call only undoes its own writes.
	WithTx(ctx context.Context, txFunc func(DB) error) error
}

type HealthChecker interface {
	IsHealthy(ctx context.Context) (bool, error)
}

var (
	_ DB            = (*Client)(nil)
	_ DB            = (*txWrapper)(nil)
	_ HealthChecker = (*Client)(nil)
)

type Client struct {
	*pgxpool.Pool
}

func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{pool}
}

func (c *Client) WithTx(ctx context.Context, txFunc func(DB) error) error {
	tx, err := c.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	return runInTx(ctx, tx, txFunc)
}

func (c *Client) IsHealthy(ctx context.Context) (bool, error) {
	if err := c.Ping(ctx); err != nil {
		return false, fmt.Errorf("ping database: %w", err)
	}
	return true, nil
}

type txWrapper struct {
	pgx.Tx
}

func (t *txWrapper) WithTx(ctx context.Context, txFunc func(DB) error) error {
	sp, err := t.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin savepoint: %w", err)
	}
	return runInTx(ctx, sp, txFunc)
}

// runInTx commits tx when txFunc succeeds and rolls it back otherwise.
// Rollback errors are joined to the original error.
func runInTx(ctx context.Context, tx pgx.Tx, txFunc func(DB) error) (err error) {
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	if err = txFunc(&txWrapper{Tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
