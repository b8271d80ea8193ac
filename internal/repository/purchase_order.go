package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/db"
)

type PurchaseOrderRepository interface {
	WithDB(db db.DB) PurchaseOrderRepository
	// CreatePurchaseOrder writes the header and copies its items in bulk.
	CreatePurchaseOrder(ctx context.Context, order model.PurchaseOrder) error
	GetPurchaseOrder(ctx context.Context, id uuid.UUID) (model.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context) ([]model.PurchaseOrder, error)
	// UpdatePurchaseOrderStatus moves the order from one status to another.
	// It reports false when the order was not in the from status.
	UpdatePurchaseOrderStatus(ctx context.Context, id uuid.UUID, from, to model.PurchaseOrderStatus) (bool, error)
}

type purchaseOrderRepository struct {
	db db.DB
}

func NewPurchaseOrderRepository(db db.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r purchaseOrderRepository) WithDB(db db.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

type purchaseOrderRow struct {
	ID          uuid.UUID       `db:"id"`
	SupplierID  uuid.UUID       `db:"supplier_id"`
	Status      string          `db:"status"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	OrderDate   time.Time       `db:"order_date"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

type purchaseOrderItemRow struct {
	PurchaseOrderID uuid.UUID       `db:"purchase_order_id"`
	ProductID       uuid.UUID       `db:"product_id"`
	Quantity        int32           `db:"quantity"`
	UnitPrice       decimal.Decimal `db:"unit_price"`
}

func (r purchaseOrderRepository) CreatePurchaseOrder(ctx context.Context, order model.PurchaseOrder) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO purchase_orders (id, supplier_id, status, total_amount, order_date, updated_at)
		VALUES (@id, @supplier_id, @status, @total_amount, @order_date, @updated_at)
	`, pgx.NamedArgs{
		"id":           order.ID,
		"supplier_id":  order.SupplierID,
		"status":       string(order.Status),
		"total_amount": order.TotalAmount,
		"order_date":   order.OrderDate,
		"updated_at":   order.UpdatedAt,
	}); err != nil {
		if db.IsForeignKeyViolation(err) {
			return apperr.ErrSupplierNotFound
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}

	rows := make([][]any, 0, len(order.Items))
	for _, it := range order.Items {
		qty, err := toInt32(it.Quantity, "quantity")
		if err != nil {
			return err
		}
		rows = append(rows, []any{order.ID, it.ProductID, qty, it.UnitPrice})
	}

	if _, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"purchase_order_items"},
		[]string{"purchase_order_id", "product_id", "quantity", "unit_price"},
		pgx.CopyFromRows(rows),
	); err != nil {
		if db.IsForeignKeyViolation(err) {
			return apperr.ErrProductNotFound
		}
		return fmt.Errorf("copy purchase order items: %w", err)
	}

	return nil
}

func (r purchaseOrderRepository) GetPurchaseOrder(ctx context.Context, id uuid.UUID) (model.PurchaseOrder, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, supplier_id, status, total_amount, order_date, updated_at
		FROM purchase_orders
		WHERE id = @id
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return model.PurchaseOrder{}, fmt.Errorf("query purchase order: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[purchaseOrderRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PurchaseOrder{}, apperr.ErrPurchaseOrderNotFound
		}
		return model.PurchaseOrder{}, fmt.Errorf("collect purchase order: %w", err)
	}

	orders, err := r.withItems(ctx, []purchaseOrderRow{row})
	if err != nil {
		return model.PurchaseOrder{}, err
	}
	return orders[0], nil
}

func (r purchaseOrderRepository) ListPurchaseOrders(ctx context.Context) ([]model.PurchaseOrder, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, supplier_id, status, total_amount, order_date, updated_at
		FROM purchase_orders
		ORDER BY order_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query purchase orders: %w", err)
	}

	orderRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[purchaseOrderRow])
	if err != nil {
		return nil, fmt.Errorf("collect purchase orders: %w", err)
	}

	return r.withItems(ctx, orderRows)
}

func (r purchaseOrderRepository) UpdatePurchaseOrderStatus(ctx context.Context, id uuid.UUID, from, to model.PurchaseOrderStatus) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE purchase_orders
		SET status = @to, updated_at = NOW()
		WHERE id = @id AND status = @from
	`, pgx.NamedArgs{
		"id":   id,
		"from": string(from),
		"to":   string(to),
	})
	if err != nil {
		return false, fmt.Errorf("update purchase order status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r purchaseOrderRepository) withItems(ctx context.Context, orderRows []purchaseOrderRow) ([]model.PurchaseOrder, error) {
	orders := make([]model.PurchaseOrder, 0, len(orderRows))
	if len(orderRows) == 0 {
		return orders, nil
	}

	ids := make([]uuid.UUID, 0, len(orderRows))
	for _, row := range orderRows {
		ids = append(ids, row.ID)
	}

	rows, err := r.db.Query(ctx, `
		SELECT purchase_order_id, product_id, quantity, unit_price
		FROM purchase_order_items
		WHERE purchase_order_id = ANY(@ids::uuid[])
		ORDER BY purchase_order_id, product_id
	`, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("query purchase order items: %w", err)
	}

	itemRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[purchaseOrderItemRow])
	if err != nil {
		return nil, fmt.Errorf("collect purchase order items: %w", err)
	}

	items := make(map[uuid.UUID][]model.PurchaseOrderItem, len(orderRows))
	for _, it := range itemRows {
		items[it.PurchaseOrderID] = append(items[it.PurchaseOrderID], model.PurchaseOrderItem{
			ProductID: it.ProductID,
			Quantity:  int(it.Quantity),
			UnitPrice: it.UnitPrice,
		})
	}

	for _, row := range orderRows {
		orderItems := items[row.ID]
		if orderItems == nil {
			orderItems = []model.PurchaseOrderItem{}
		}
		orders = append(orders, model.PurchaseOrder{
			ID:          row.ID,
			SupplierID:  row.SupplierID,
			Status:      model.PurchaseOrderStatus(row.Status),
			TotalAmount: row.TotalAmount,
			Items:       orderItems,
			OrderDate:   row.OrderDate,
			UpdatedAt:   row.UpdatedAt,
		})
	}

	return orders, nil
}
