package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/retail-pos/internal/event"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/repository"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/db"
)

const entityStore = "store"

type StoreParams struct {
	Name    string
	Address string
}

type StoreService interface {
	CreateStore(ctx context.Context, params StoreParams) (model.Store, error)
	UpdateStore(ctx context.Context, id uuid.UUID, params StoreParams) (model.Store, error)
	// DeleteStore detaches the store's products before removing it.
	DeleteStore(ctx context.Context, id uuid.UUID) error
	GetStore(ctx context.Context, id uuid.UUID) (model.Store, error)
	ListStores(ctx context.Context) ([]model.Store, error)
	ListStoreProducts(ctx context.Context, id uuid.UUID) ([]model.Product, error)
}

type storeService struct {
	logger        *slog.Logger
	db            db.DB
	storeRepo     repository.StoreRepository
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewStoreService(
	logger *slog.Logger,
	db db.DB,
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) StoreService {
	return &storeService{
		logger:        logger.With(slog.String("service", "store")),
		db:            db,
		storeRepo:     storeRepo,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (s *storeService) CreateStore(ctx context.Context, params StoreParams) (model.Store, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.Store{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now()
	store := model.Store{
		ID:        id,
		Name:      params.Name,
		Address:   params.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.storeRepo.
			WithDB(db).
			CreateStore(ctx, store); err != nil {
			return fmt.Errorf("store repository create store: %w", err)
		}

		return writeCatalogChanged(ctx, db, s.outboxMsgRepo, entityStore, id.String(), event.CatalogActionCreated)
	}); err != nil {
		return model.Store{}, fmt.Errorf("db with tx: %w", err)
	}

	return store, nil
}

func (s *storeService) UpdateStore(ctx context.Context, id uuid.UUID, params StoreParams) (model.Store, error) {
	var store model.Store
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		repo := s.storeRepo.WithDB(db)

		current, err := repo.GetStore(ctx, id)
		if err != nil {
			return fmt.Errorf("store repository get store: %w", err)
		}

		store = current
		store.Name = params.Name
		store.Address = params.Address
		store.UpdatedAt = time.Now()

		if err := repo.UpdateStore(ctx, store); err != nil {
			return fmt.Errorf("store repository update store: %w", err)
		}

		return writeCatalogChanged(ctx, db, s.outboxMsgRepo, entityStore, id.String(), event.CatalogActionUpdated)
	}); err != nil {
		return model.Store{}, fmt.Errorf("db with tx: %w", err)
	}

	return store, nil
}

func (s *storeService) DeleteStore(ctx context.Context, id uuid.UUID) error {
	var detached int64
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		n, err := s.productRepo.
			WithDB(db).
			DetachStore(ctx, id)
		if err != nil {
			return fmt.Errorf("product repository detach store: %w", err)
		}
		detached = n

		if err := s.storeRepo.
			WithDB(db).
			DeleteStore(ctx, id); err != nil {
			return fmt.Errorf("store repository delete store: %w", err)
		}

		return writeCatalogChanged(ctx, db, s.outboxMsgRepo, entityStore, id.String(), event.CatalogActionDeleted)
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	s.logger.InfoContext(ctx, "store deleted",
		slog.String("store_id", id.String()),
		slog.Int64("detached_products", detached),
	)
	return nil
}

func (s *storeService) GetStore(ctx context.Context, id uuid.UUID) (model.Store, error) {
	store, err := s.storeRepo.GetStore(ctx, id)
	if err != nil {
		return model.Store{}, fmt.Errorf("store repository get store: %w", err)
	}
	return store, nil
}

func (s *storeService) ListStores(ctx context.Context) ([]model.Store, error) {
	stores, err := s.storeRepo.ListStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("store repository list stores: %w", err)
	}
	return stores, nil
}

func (s *storeService) ListStoreProducts(ctx context.Context, id uuid.UUID) ([]model.Product, error) {
	if _, err := s.storeRepo.GetStore(ctx, id); err != nil {
		return nil, fmt.Errorf("store repository get store: %w", err)
	}

	products, err := s.productRepo.ListProducts(ctx, repository.ListProductsParams{
		StoreID:    &id,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}
	return products, nil
}
