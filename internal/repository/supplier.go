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

const supplierColumns = `id, first_name, last_name, phone, created_at, updated_at`

type SupplierRepository interface {
	WithDB(db db.DB) SupplierRepository
	CreateSupplier(ctx context.Context, supplier model.Supplier) error
	UpdateSupplier(ctx context.Context, supplier model.Supplier) error
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
	GetSupplier(ctx context.Context, id uuid.UUID) (model.Supplier, error)
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	CountSuppliers(ctx context.Context) (int, error)
}

type supplierRepository struct {
	db db.DB
}

func NewSupplierRepository(db db.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r supplierRepository) WithDB(db db.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

type supplierRow struct {
	ID        uuid.UUID `db:"id"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Phone     string    `db:"phone"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r supplierRepository) CreateSupplier(ctx context.Context, s model.Supplier) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO suppliers (`+supplierColumns+`)
		VALUES (@id, @first_name, @last_name, @phone, @created_at, @updated_at)
	`, supplierArgs(s)); err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r supplierRepository) UpdateSupplier(ctx context.Context, s model.Supplier) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE suppliers
		SET first_name = @first_name, last_name = @last_name, phone = @phone, updated_at = @updated_at
		WHERE id = @id
	`, supplierArgs(s))
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrSupplierNotFound
	}
	return nil
}

func (r supplierRepository) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return apperr.ErrBusinessRejection.WithMsg("supplier has purchase orders")
		}
		return fmt.Errorf("delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrSupplierNotFound
	}
	return nil
}

func (r supplierRepository) GetSupplier(ctx context.Context, id uuid.UUID) (model.Supplier, error) {
	rows, err := r.db.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return model.Supplier{}, fmt.Errorf("query supplier: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[supplierRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Supplier{}, apperr.ErrSupplierNotFound
		}
		return model.Supplier{}, fmt.Errorf("collect supplier: %w", err)
	}
	return model.Supplier(row), nil
}

func (r supplierRepository) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	rows, err := r.db.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY first_name, last_name, id`)
	if err != nil {
		return nil, fmt.Errorf("query suppliers: %w", err)
	}

	supplierRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[supplierRow])
	if err != nil {
		return nil, fmt.Errorf("collect suppliers: %w", err)
	}

	suppliers := make([]model.Supplier, 0, len(supplierRows))
	for _, row := range supplierRows {
		suppliers = append(suppliers, model.Supplier(row))
	}
	return suppliers, nil
}

func (r supplierRepository) CountSuppliers(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count suppliers: %w", err)
	}
	return n, nil
}

func supplierArgs(s model.Supplier) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":         s.ID,
		"first_name": s.FirstName,
		"last_name":  s.LastName,
		"phone":      s.Phone,
		"created_at": s.CreatedAt,
		"updated_at": s.UpdatedAt,
	}
}
