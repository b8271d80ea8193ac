package service

import (
	"context"
	"fmt"

	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/pos"
	"github.com/tuanvumaihuynh/retail-pos/internal/repository"
)

var (
	_ pos.CatalogSource = (*Reader)(nil)
	_ pos.HistorySource = (*Reader)(nil)
)

// Reader feeds catalog snapshots and history pages from the repositories.
type Reader struct {
	productRepo  repository.ProductRepository
	storeRepo    repository.StoreRepository
	saleRepo     repository.SaleRepository
	transferRepo repository.TransferRepository
}

func NewReader(
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	saleRepo repository.SaleRepository,
	transferRepo repository.TransferRepository,
) *Reader {
	return &Reader{
		productRepo:  productRepo,
		storeRepo:    storeRepo,
		saleRepo:     saleRepo,
		transferRepo: transferRepo,
	}
}

func (r *Reader) ListCatalogProducts(ctx context.Context, inStockOnly bool) ([]model.Product, error) {
	products, err := r.productRepo.ListProducts(ctx, repository.ListProductsParams{
		ActiveOnly:  true,
		InStockOnly: inStockOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}
	return products, nil
}

func (r *Reader) ListStores(ctx context.Context) ([]model.Store, error) {
	stores, err := r.storeRepo.ListStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("store repository list stores: %w", err)
	}
	return stores, nil
}

func (r *Reader) ListSales(ctx context.Context, limit, offset int) ([]model.SaleRecord, error) {
	records, err := r.saleRepo.ListSalesPaginated(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("sale repository list sales paginated: %w", err)
	}
	return records, nil
}

func (r *Reader) ListTransfers(ctx context.Context, limit, offset int) ([]model.TransferRecord, error) {
	records, err := r.transferRepo.ListTransfersPaginated(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("transfer repository list transfers paginated: %w", err)
	}
	return records, nil
}
