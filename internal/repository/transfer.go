package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/db"
)

type TransferRepository interface {
	WithDB(db db.DB) TransferRepository

	// InsertTransfer writes header, items and store reassignment through the
	// insert_transfer procedure.
	InsertTransfer(ctx context.Context, transfer model.Transfer, productIDs []uuid.UUID) error

	CreateTransfer(ctx context.Context, transfer model.Transfer) error
	CreateTransferItem(ctx context.Context, item model.TransferItem) error
	DeleteTransferItems(ctx context.Context, transferID uuid.UUID) error
	DeleteTransfer(ctx context.Context, transferID uuid.UUID) error
	UpdateTransferStatus(ctx context.Context, transferID uuid.UUID, status model.CommitStatus) error

	ListTransfersPaginated(ctx context.Context, limit, offset int) ([]model.TransferRecord, error)
}

type transferRepository struct {
	db db.DB
}

func NewTransferRepository(db db.DB) TransferRepository {
	return &transferRepository{db: db}
}

func (r transferRepository) WithDB(db db.DB) TransferRepository {
	return &transferRepository{db: db}
}

func (r transferRepository) InsertTransfer(ctx context.Context, transfer model.Transfer, productIDs []uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `
		SELECT insert_transfer(@transfer_id, @employee_id, @from_store_id, @to_store_id, @product_ids::uuid[])
	`, pgx.NamedArgs{
		"transfer_id":   transfer.ID,
		"employee_id":   transfer.EmployeeID,
		"from_store_id": transfer.FromStoreID,
		"to_store_id":   transfer.ToStoreID,
		"product_ids":   productIDs,
	}); err != nil {
		return fmt.Errorf("call insert_transfer: %w", procedureError(err))
	}
	return nil
}

func (r transferRepository) CreateTransfer(ctx context.Context, transfer model.Transfer) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO transfers (id, employee_id, from_store_id, to_store_id, status, created_at)
		VALUES (@id, @employee_id, @from_store_id, @to_store_id, @status, @created_at)
	`, pgx.NamedArgs{
		"id":            transfer.ID,
		"employee_id":   transfer.EmployeeID,
		"from_store_id": transfer.FromStoreID,
		"to_store_id":   transfer.ToStoreID,
		"status":        string(transfer.Status),
		"created_at":    transfer.CreatedAt,
	}); err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

func (r transferRepository) CreateTransferItem(ctx context.Context, item model.TransferItem) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO transfer_items (transfer_id, product_id, quantity)
		VALUES (@transfer_id, @product_id, @quantity)
	`, pgx.NamedArgs{
		"transfer_id": item.TransferID,
		"product_id":  item.ProductID,
		"quantity":    item.Quantity,
	}); err != nil {
		return fmt.Errorf("insert transfer item: %w", err)
	}
	return nil
}

func (r transferRepository) DeleteTransferItems(ctx context.Context, transferID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `
		DELETE FROM transfer_items WHERE transfer_id = @transfer_id
	`, pgx.NamedArgs{"transfer_id": transferID}); err != nil {
		return fmt.Errorf("delete transfer items: %w", err)
	}
	return nil
}

func (r transferRepository) DeleteTransfer(ctx context.Context, transferID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM transfers WHERE id = @id`, pgx.NamedArgs{"id": transferID}); err != nil {
		return fmt.Errorf("delete transfer: %w", err)
	}
	return nil
}

func (r transferRepository) UpdateTransferStatus(ctx context.Context, transferID uuid.UUID, status model.CommitStatus) error {
	if _, err := r.db.Exec(ctx, `
		UPDATE transfers SET status = @status WHERE id = @id
	`, pgx.NamedArgs{"id": transferID, "status": string(status)}); err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	return nil
}

type transferRecordRow struct {
	ID           uuid.UUID `db:"id"`
	CreatedAt    time.Time `db:"created_at"`
	FromStore    string    `db:"from_store"`
	ToStore      string    `db:"to_store"`
	EmployeeName string    `db:"employee_name"`
	Status       string    `db:"status"`
	Lines        []byte    `db:"lines"`
}

func (r transferRepository) ListTransfersPaginated(ctx context.Context, limit, offset int) ([]model.TransferRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, created_at, from_store, to_store, employee_name, status, lines
		FROM get_transfers_paginated(@limit_count, @offset_count)
	`, pgx.NamedArgs{
		"limit_count":  limit,
		"offset_count": offset,
	})
	if err != nil {
		return nil, fmt.Errorf("call get_transfers_paginated: %w", err)
	}

	recordRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[transferRecordRow])
	if err != nil {
		return nil, fmt.Errorf("collect transfers: %w", err)
	}

	records := make([]model.TransferRecord, 0, len(recordRows))
	for _, row := range recordRows {
		lines := []model.TransferRecordLine{}
		if err := json.Unmarshal(row.Lines, &lines); err != nil {
			return nil, fmt.Errorf("unmarshal lines of transfer %s: %w", row.ID, err)
		}

		records = append(records, model.TransferRecord{
			ID:           row.ID,
			CreatedAt:    row.CreatedAt,
			FromStore:    row.FromStore,
			ToStore:      row.ToStore,
			EmployeeName: row.EmployeeName,
			Status:       model.CommitStatus(row.Status),
			Lines:        lines,
		})
	}

	return records, nil
}
