package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/db"
)

type StoreRepository interface {
	WithDB(db db.DB) StoreRepository
	CreateStore(ctx context.Context, store model.Store) error
	UpdateStore(ctx context.Context, store model.Store) error
	DeleteStore(ctx context.Context, id uuid.UUID) error
	GetStore(ctx context.Context, id uuid.UUID) (model.Store, error)
	ListStores(ctx context.Context) ([]model.Store, error)
}

type storeRow struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Address   string    `db:"address"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row storeRow) toModel() model.Store {
	return model.Store(row)
}

type storeRepository struct {
	db db.DB
}

func NewStoreRepository(db db.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r storeRepository) WithDB(db db.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r storeRepository) CreateStore(ctx context.Context, store model.Store) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO stores (id, name, address, created_at, updated_at)
		VALUES (@id, @name, @address, @created_at, @updated_at)
	`, pgx.NamedArgs{
		"id":         store.ID,
		"name":       store.Name,
		"address":    store.Address,
		"created_at": store.CreatedAt,
		"updated_at": store.UpdatedAt,
	}); err != nil {
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

func (r storeRepository) UpdateStore(ctx context.Context, store model.Store) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE stores SET name = @name, address = @address, updated_at = @updated_at WHERE id = @id
	`, pgx.NamedArgs{
		"id":         store.ID,
		"name":       store.Name,
		"address":    store.Address,
		"updated_at": store.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("update store: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrStoreNotFound
	}
	return nil
}

// DeleteStore removes the row only. Products must be detached first.
func (r storeRepository) DeleteStore(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM stores WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return apperr.ErrBusinessRejection.WithMsg("store is referenced by recorded transfers")
		}
		return fmt.Errorf("delete store: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrStoreNotFound
	}
	return nil
}

func (r storeRepository) GetStore(ctx context.Context, id uuid.UUID) (model.Store, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, address, created_at, updated_at FROM stores WHERE id = @id
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return model.Store{}, fmt.Errorf("query store: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[storeRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Store{}, apperr.ErrStoreNotFound
		}
		return model.Store{}, fmt.Errorf("collect store: %w", err)
	}
	return row.toModel(), nil
}

func (r storeRepository) ListStores(ctx context.Context) ([]model.Store, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, address, created_at, updated_at FROM stores ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query stores: %w", err)
	}

	storeRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[storeRow])
	if err != nil {
		return nil, fmt.Errorf("collect stores: %w", err)
	}

	stores := make([]model.Store, 0, len(storeRows))
	for _, row := range storeRows {
		stores = append(stores, row.toModel())
	}
	return stores, nil
}
