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

const productColumns = `id, name, color, barcode, mei_code1, mei_code2, image_url,
	cost_price, markup, stock_quantity, store_id, active, created_at, updated_at`

type ListProductsParams struct {
	StoreID     *uuid.UUID
	ActiveOnly  bool
	InStockOnly bool
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, product model.Product) error
	UpdateProduct(ctx context.Context, product model.Product) error
	DeactivateProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error)
	ListProductsByCode(ctx context.Context, code string) ([]model.Product, error)
	SetImageURL(ctx context.Context, id uuid.UUID, imageURL string) error
	DetachStore(ctx context.Context, storeID uuid.UUID) (int64, error)
	CountActiveProducts(ctx context.Context) (int, error)

	// Conditional stock writes report false when no row matched.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error)
	IncrementStock(ctx context.Context, id uuid.UUID, qty int) error
	ReassignStore(ctx context.Context, id, fromStoreID, toStoreID uuid.UUID) (*uuid.UUID, bool, error)
	RestoreStore(ctx context.Context, id, currentStoreID uuid.UUID, prevStoreID *uuid.UUID) (bool, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

type productRow struct {
	ID            uuid.UUID       `db:"id"`
	Name          string          `db:"name"`
	Color         string          `db:"color"`
	Barcode       string          `db:"barcode"`
	MeiCode1      string          `db:"mei_code1"`
	MeiCode2      string          `db:"mei_code2"`
	ImageURL      string          `db:"image_url"`
	CostPrice     decimal.Decimal `db:"cost_price"`
	Markup        decimal.Decimal `db:"markup"`
	StockQuantity int32           `db:"stock_quantity"`
	StoreID       *uuid.UUID      `db:"store_id"`
	Active        bool            `db:"active"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) error {
	args, err := productArgs(product)
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (@id, @name, @color, @barcode, @mei_code1, @mei_code2, @image_url,
			@cost_price, @markup, @stock_quantity, @store_id, @active, @created_at, @updated_at)
	`, args); err != nil {
		if db.IsForeignKeyViolation(err) {
			return apperr.ErrStoreNotFound
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (r productRepository) UpdateProduct(ctx context.Context, product model.Product) error {
	args, err := productArgs(product)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name           = @name,
			color          = @color,
			barcode        = @barcode,
			mei_code1      = @mei_code1,
			mei_code2      = @mei_code2,
			cost_price     = @cost_price,
			markup         = @markup,
			stock_quantity = @stock_quantity,
			store_id       = @store_id,
			active         = @active,
			updated_at     = @updated_at
		WHERE id = @id
	`, args)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return apperr.ErrStoreNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrProductNotFound
	}

	return nil
}

func (r productRepository) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET active = FALSE, updated_at = NOW() WHERE id = @id
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrProductNotFound
	}
	return nil
}

func (r productRepository) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return model.Product{}, fmt.Errorf("query product: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, apperr.ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("collect product: %w", err)
	}

	return row.toModel(), nil
}

func (r productRepository) ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE (@store_id::uuid IS NULL OR store_id = @store_id)
		  AND (NOT @active_only OR active)
		  AND (NOT @in_stock_only OR stock_quantity > 0)
		ORDER BY name, id
	`, pgx.NamedArgs{
		"store_id":      params.StoreID,
		"active_only":   params.ActiveOnly,
		"in_stock_only": params.InStockOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	return collectProducts(rows)
}

func (r productRepository) ListProductsByCode(ctx context.Context, code string) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM get_products_by_code(@code)`, pgx.NamedArgs{"code": code})
	if err != nil {
		return nil, fmt.Errorf("call get_products_by_code: %w", err)
	}

	return collectProducts(rows)
}

func (r productRepository) SetImageURL(ctx context.Context, id uuid.UUID, imageURL string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET image_url = @image_url, updated_at = NOW() WHERE id = @id
	`, pgx.NamedArgs{"id": id, "image_url": imageURL})
	if err != nil {
		return fmt.Errorf("set product image url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrProductNotFound
	}
	return nil
}

func (r productRepository) DetachStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET store_id = NULL, updated_at = NOW() WHERE store_id = @store_id
	`, pgx.NamedArgs{"store_id": storeID})
	if err != nil {
		return 0, fmt.Errorf("detach products from store: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r productRepository) CountActiveProducts(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (r productRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - @qty, updated_at = NOW()
		WHERE id = @id AND active AND stock_quantity >= @qty
	`, pgx.NamedArgs{"id": id, "qty": qty})
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r productRepository) IncrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + @qty, updated_at = NOW()
		WHERE id = @id
	`, pgx.NamedArgs{"id": id, "qty": qty})
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrProductNotFound
	}
	return nil
}

// ReassignStore moves an active product to toStoreID when it sits in fromStoreID or in
// no store, and returns the store it was in before the move.
func (r productRepository) ReassignStore(
	ctx context.Context, id, fromStoreID, toStoreID uuid.UUID,
) (*uuid.UUID, bool, error) {
	var prev *uuid.UUID
	err := r.db.QueryRow(ctx, `
		UPDATE products p
		SET store_id = @to_store_id, updated_at = NOW()
		FROM (SELECT id, store_id FROM products WHERE id = @id FOR UPDATE) old
		WHERE p.id = old.id AND p.active AND (p.store_id = @from_store_id OR p.store_id IS NULL)
		RETURNING old.store_id
	`, pgx.NamedArgs{"id": id, "from_store_id": fromStoreID, "to_store_id": toStoreID}).Scan(&prev)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reassign product store: %w", err)
	}
	return prev, true, nil
}

// RestoreStore puts a product back into prevStoreID, or into no store when it is nil,
// provided it still sits in currentStoreID.
func (r productRepository) RestoreStore(
	ctx context.Context, id, currentStoreID uuid.UUID, prevStoreID *uuid.UUID,
) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET store_id = @prev_store_id, updated_at = NOW()
		WHERE id = @id AND store_id = @current_store_id
	`, pgx.NamedArgs{"id": id, "current_store_id": currentStoreID, "prev_store_id": prevStoreID})
	if err != nil {
		return false, fmt.Errorf("restore product store: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func productArgs(p model.Product) (pgx.NamedArgs, error) {
	stock, err := toInt32(p.StockQuantity, "stock quantity")
	if err != nil {
		return nil, err
	}

	return pgx.NamedArgs{
		"id":             p.ID,
		"name":           p.Name,
		"color":          p.Color,
		"barcode":        p.Barcode,
		"mei_code1":      p.MeiCode1,
		"mei_code2":      p.MeiCode2,
		"image_url":      p.ImageURL,
		"cost_price":     p.CostPrice,
		"markup":         p.Markup,
		"stock_quantity": stock,
		"store_id":       p.StoreID,
		"active":         p.Active,
		"created_at":     p.CreatedAt,
		"updated_at":     p.UpdatedAt,
	}, nil
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	productRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return nil, fmt.Errorf("collect products: %w", err)
	}

	products := make([]model.Product, 0, len(productRows))
	for _, row := range productRows {
		products = append(products, row.toModel())
	}

	return products, nil
}

func (row productRow) toModel() model.Product {
	return model.Product{
		ID:            row.ID,
		Name:          row.Name,
		Color:         row.Color,
		Barcode:       row.Barcode,
		MeiCode1:      row.MeiCode1,
		MeiCode2:      row.MeiCode2,
		ImageURL:      row.ImageURL,
		CostPrice:     row.CostPrice,
		Markup:        row.Markup,
		StockQuantity: int(row.StockQuantity),
		StoreID:       row.StoreID,
		Active:        row.Active,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
