package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/db"
)

type SaleRepository interface {
	WithDB(db db.DB) SaleRepository

	// InsertSale writes header, items and stock through the insert_sale procedure.
	InsertSale(ctx context.Context, sale model.Sale, items []model.SaleItem) error

	CreateSale(ctx context.Context, sale model.Sale) error
	CreateSaleItem(ctx context.Context, item model.SaleItem) error
	DeleteSaleItems(ctx context.Context, saleID uuid.UUID) error
	DeleteSale(ctx context.Context, saleID uuid.UUID) error
	UpdateSaleStatus(ctx context.Context, saleID uuid.UUID, status model.CommitStatus) error

	ListSalesPaginated(ctx context.Context, limit, offset int) ([]model.SaleRecord, error)
	CountSales(ctx context.Context) (int, error)
}

type saleRepository struct {
	db db.DB
}

func NewSaleRepository(db db.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r saleRepository) WithDB(db db.DB) SaleRepository {
	return &saleRepository{db: db}
}

type saleItemJSON struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
}

func (r saleRepository) InsertSale(ctx context.Context, sale model.Sale, items []model.SaleItem) error {
	payload := make([]saleItemJSON, 0, len(items))
	for _, it := range items {
		payload = append(payload, saleItemJSON{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.String(),
		})
	}
	itemsJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sale items: %w", err)
	}

	if _, err := r.db.Exec(ctx, `
		SELECT insert_sale(@sale_id, @employee_id, @payment_method, @total, @item_count, @items)
	`, pgx.NamedArgs{
		"sale_id":        sale.ID,
		"employee_id":    sale.EmployeeID,
		"payment_method": string(sale.PaymentMethod),
		"total":          sale.Total,
		"item_count":     sale.ItemCount,
		"items":          itemsJSON,
	}); err != nil {
		return fmt.Errorf("call insert_sale: %w", procedureError(err))
	}

	return nil
}

func (r saleRepository) CreateSale(ctx context.Context, sale model.Sale) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO sales (id, employee_id, payment_method, total, item_count, status, created_at)
		VALUES (@id, @employee_id, @payment_method, @total, @item_count, @status, @created_at)
	`, pgx.NamedArgs{
		"id":             sale.ID,
		"employee_id":    sale.EmployeeID,
		"payment_method": string(sale.PaymentMethod),
		"total":          sale.Total,
		"item_count":     sale.ItemCount,
		"status":         string(sale.Status),
		"created_at":     sale.CreatedAt,
	}); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r saleRepository) CreateSaleItem(ctx context.Context, item model.SaleItem) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO sale_items (sale_id, product_id, quantity, unit_price)
		VALUES (@sale_id, @product_id, @quantity, @unit_price)
	`, pgx.NamedArgs{
		"sale_id":    item.SaleID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
		"unit_price": item.UnitPrice,
	}); err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

func (r saleRepository) DeleteSaleItems(ctx context.Context, saleID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = @sale_id`, pgx.NamedArgs{"sale_id": saleID}); err != nil {
		return fmt.Errorf("delete sale items: %w", err)
	}
	return nil
}

func (r saleRepository) DeleteSale(ctx context.Context, saleID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM sales WHERE id = @id`, pgx.NamedArgs{"id": saleID}); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}

func (r saleRepository) UpdateSaleStatus(ctx context.Context, saleID uuid.UUID, status model.CommitStatus) error {
	if _, err := r.db.Exec(ctx, `
		UPDATE sales SET status = @status WHERE id = @id
	`, pgx.NamedArgs{"id": saleID, "status": string(status)}); err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	return nil
}

type saleRecordRow struct {
	ID            uuid.UUID       `db:"id"`
	CreatedAt     time.Time       `db:"created_at"`
	PaymentMethod string          `db:"payment_method"`
	Total         decimal.Decimal `db:"total"`
	ItemCount     int32           `db:"item_count"`
	Status        string          `db:"status"`
	EmployeeName  string          `db:"employee_name"`
	Lines         []byte          `db:"lines"`
}

func (r saleRepository) ListSalesPaginated(ctx context.Context, limit, offset int) ([]model.SaleRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, created_at, payment_method, total, item_count, status, employee_name, lines
		FROM get_sales_paginated(@limit_count, @offset_count)
	`, pgx.NamedArgs{
		"limit_count":  limit,
		"offset_count": offset,
	})
	if err != nil {
		return nil, fmt.Errorf("call get_sales_paginated: %w", err)
	}

	recordRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[saleRecordRow])
	if err != nil {
		return nil, fmt.Errorf("collect sales: %w", err)
	}

	records := make([]model.SaleRecord, 0, len(recordRows))
	for _, row := range recordRows {
		lines := []model.SaleRecordLine{}
		if err := json.Unmarshal(row.Lines, &lines); err != nil {
			return nil, fmt.Errorf("unmarshal lines of sale %s: %w", row.ID, err)
		}

		records = append(records, model.SaleRecord{
			ID:            row.ID,
			CreatedAt:     row.CreatedAt,
			PaymentMethod: model.PaymentMethod(row.PaymentMethod),
			Total:         row.Total,
			ItemCount:     int(row.ItemCount),
			Status:        model.CommitStatus(row.Status),
			EmployeeName:  row.EmployeeName,
			Lines:         lines,
		})
	}

	return records, nil
}

func (r saleRepository) CountSales(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sales`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return n, nil
}
