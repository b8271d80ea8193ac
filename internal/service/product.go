package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/event"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/repository"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/blob"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/db"
)

const entityProduct = "product"

type CreateProductParams struct {
	Name          string
	Color         string
	Barcode       string
	MeiCode1      string
	MeiCode2      string
	CostPrice     decimal.Decimal
	Markup        decimal.Decimal
	StockQuantity int
	StoreID       *uuid.UUID
}

type UpdateProductParams struct {
	Name          string
	Color         string
	Barcode       string
	MeiCode1      string
	MeiCode2      string
	CostPrice     decimal.Decimal
	Markup        decimal.Decimal
	StockQuantity int
	StoreID       *uuid.UUID
	Active        bool
}

// ListProductsParams filters the product list. A non-empty Code looks the product up
// by barcode or mei code and ignores the other filters.
type ListProductsParams struct {
	StoreID         *uuid.UUID
	IncludeInactive bool
	Code            string
}

type ProductService interface {
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (model.Product, error)
	// DeleteProduct deactivates the product. Sale and transfer history keeps referencing it.
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error)
	UploadImage(ctx context.Context, id uuid.UUID, filename string, content io.Reader) (model.Product, error)
}

type productService struct {
	db            db.DB
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
	uploader      blob.Uploader
}

func NewProductService(
	db db.DB,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
	uploader blob.Uploader,
) ProductService {
	return &productService{
		db:            db,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
		uploader:      uploader,
	}
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	if err := validatePricing(params.CostPrice, params.Markup, params.StockQuantity); err != nil {
		return model.Product{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now()
	product := model.Product{
		ID:            id,
		Name:          params.Name,
		Color:         params.Color,
		Barcode:       params.Barcode,
		MeiCode1:      params.MeiCode1,
		MeiCode2:      params.MeiCode2,
		CostPrice:     params.CostPrice,
		Markup:        params.Markup,
		StockQuantity: params.StockQuantity,
		StoreID:       params.StoreID,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("product repository create product: %w", err)
		}

		return writeCatalogChanged(ctx, db, s.outboxMsgRepo, entityProduct, product.ID.String(), event.CatalogActionCreated)
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (model.Product, error) {
	if err := validatePricing(params.CostPrice, params.Markup, params.StockQuantity); err != nil {
		return model.Product{}, err
	}

	var product model.Product
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		repo := s.productRepo.WithDB(db)

		current, err := repo.GetProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("product repository get product: %w", err)
		}

		product = current
		product.Name = params.Name
		product.Color = params.Color
		product.Barcode = params.Barcode
		product.MeiCode1 = params.MeiCode1
		product.MeiCode2 = params.MeiCode2
		product.CostPrice = params.CostPrice
		product.Markup = params.Markup
		product.StockQuantity = params.StockQuantity
		product.StoreID = params.StoreID
		product.Active = params.Active
		product.UpdatedAt = time.Now()

		if err := repo.UpdateProduct(ctx, product); err != nil {
			return fmt.Errorf("product repository update product: %w", err)
		}

		return writeCatalogChanged(ctx, db, s.outboxMsgRepo, entityProduct, id.String(), event.CatalogActionUpdated)
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			DeactivateProduct(ctx, id); err != nil {
			return fmt.Errorf("product repository deactivate product: %w", err)
		}

		return writeCatalogChanged(ctx, db, s.outboxMsgRepo, entityProduct, id.String(), event.CatalogActionDeleted)
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}
	return nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	if code := strings.TrimSpace(params.Code); code != "" {
		products, err := s.productRepo.ListProductsByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("product repository list products by code: %w", err)
		}
		return products, nil
	}

	products, err := s.productRepo.ListProducts(ctx, repository.ListProductsParams{
		StoreID:    params.StoreID,
		ActiveOnly: !params.IncludeInactive,
	})
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}
	return products, nil
}

func (s *productService) UploadImage(ctx context.Context, id uuid.UUID, filename string, content io.Reader) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}

	url, err := s.uploader.Upload(ctx, blob.ProductImages, imageObjectName(id, filename), content)
	if err != nil {
		return model.Product{}, fmt.Errorf("upload product image: %w", err)
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			SetImageURL(ctx, id, url); err != nil {
			return fmt.Errorf("product repository set image url: %w", err)
		}

		return writeCatalogChanged(ctx, db, s.outboxMsgRepo, entityProduct, id.String(), event.CatalogActionUpdated)
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	product.ImageURL = url
	return product, nil
}

// imageObjectName keeps the client's extension but never its name.
func imageObjectName(id uuid.UUID, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/"))))
	if len(ext) > 6 {
		ext = ""
	}
	return fmt.Sprintf("%s/%d%s", id, time.Now().UnixNano(), ext)
}

func validatePricing(cost, markup decimal.Decimal, stock int) error {
	switch {
	case cost.IsNegative():
		return apperr.ValidationErr.WithMsg("cost price must not be negative")
	case markup.IsNegative():
		return apperr.ValidationErr.WithMsg("markup must not be negative")
	case stock < 0:
		return apperr.ValidationErr.WithMsg("stock quantity must not be negative")
	}
	return nil
}
