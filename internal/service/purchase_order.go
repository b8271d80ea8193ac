package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/event"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/repository"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/db"
)

type CreatePurchaseOrderParams struct {
	SupplierID uuid.UUID
	Items      []model.PurchaseOrderItem
}

type PurchaseOrderService interface {
	CreatePurchaseOrder(ctx context.Context, params CreatePurchaseOrderParams) (model.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, id uuid.UUID) (model.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context) ([]model.PurchaseOrder, error)
	// UpdateStatus moves the order one step forward. Completing an order adds its
	// quantities to product stock in the same transaction.
	UpdateStatus(ctx context.Context, id uuid.UUID, next model.PurchaseOrderStatus) (model.PurchaseOrder, error)
}

type purchaseOrderService struct {
	logger            *slog.Logger
	db                db.DB
	purchaseOrderRepo repository.PurchaseOrderRepository
	productRepo       repository.ProductRepository
	outboxMsgRepo     repository.OutboxMsgRepository
}

func NewPurchaseOrderService(
	logger *slog.Logger,
	db db.DB,
	purchaseOrderRepo repository.PurchaseOrderRepository,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) PurchaseOrderService {
	return &purchaseOrderService{
		logger:            logger.With(slog.String("service", "purchase_order")),
		db:                db,
		purchaseOrderRepo: purchaseOrderRepo,
		productRepo:       productRepo,
		outboxMsgRepo:     outboxMsgRepo,
	}
}

func (s *purchaseOrderService) CreatePurchaseOrder(ctx context.Context, params CreatePurchaseOrderParams) (model.PurchaseOrder, error) {
	if err := validateOrderItems(params.Items); err != nil {
		return model.PurchaseOrder{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.PurchaseOrder{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now()
	order := model.PurchaseOrder{
		ID:         id,
		SupplierID: params.SupplierID,
		Status:     model.PurchaseOrderStatusPending,
		Items:      params.Items,
		OrderDate:  now,
		UpdatedAt:  now,
	}
	order.TotalAmount = order.ComputeTotal()

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.purchaseOrderRepo.
			WithDB(db).
			CreatePurchaseOrder(ctx, order); err != nil {
			return fmt.Errorf("purchase order repository create purchase order: %w", err)
		}
		return nil
	}); err != nil {
		return model.PurchaseOrder{}, fmt.Errorf("db with tx: %w", err)
	}

	return order, nil
}

func (s *purchaseOrderService) GetPurchaseOrder(ctx context.Context, id uuid.UUID) (model.PurchaseOrder, error) {
	order, err := s.purchaseOrderRepo.GetPurchaseOrder(ctx, id)
	if err != nil {
		return model.PurchaseOrder{}, fmt.Errorf("purchase order repository get purchase order: %w", err)
	}
	return order, nil
}

func (s *purchaseOrderService) ListPurchaseOrders(ctx context.Context) ([]model.PurchaseOrder, error) {
	orders, err := s.purchaseOrderRepo.ListPurchaseOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("purchase order repository list purchase orders: %w", err)
	}
	return orders, nil
}

func (s *purchaseOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, next model.PurchaseOrderStatus) (model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		orderRepo := s.purchaseOrderRepo.WithDB(db)

		current, err := orderRepo.GetPurchaseOrder(ctx, id)
		if err != nil {
			return fmt.Errorf("purchase order repository get purchase order: %w", err)
		}
		if !current.Status.CanTransitionTo(next) {
			return apperr.ErrInvalidStatusChange.WithMsg(
				fmt.Sprintf("purchase order cannot move from %s to %s", current.Status, next))
		}

		ok, err := orderRepo.UpdatePurchaseOrderStatus(ctx, id, current.Status, next)
		if err != nil {
			return fmt.Errorf("purchase order repository update status: %w", err)
		}
		if !ok {
			return apperr.ErrInvalidStatusChange.WithMsg("purchase order status changed concurrently")
		}

		order = current
		order.Status = next
		order.UpdatedAt = time.Now()

		if next != model.PurchaseOrderStatusCompleted {
			return nil
		}

		productRepo := s.productRepo.WithDB(db)
		for _, it := range current.Items {
			if err := productRepo.IncrementStock(ctx, it.ProductID, it.Quantity); err != nil {
				return fmt.Errorf("product repository increment stock of %s: %w", it.ProductID, err)
			}
		}

		return writeCatalogChanged(ctx, db, s.outboxMsgRepo, "purchase_order", id.String(), event.CatalogActionStocked)
	}); err != nil {
		return model.PurchaseOrder{}, fmt.Errorf("db with tx: %w", err)
	}

	if order.Status == model.PurchaseOrderStatusCompleted {
		s.logger.InfoContext(ctx, "purchase order received",
			slog.String("purchase_order_id", id.String()),
			slog.Int("items", len(order.Items)),
		)
	}

	return order, nil
}

func validateOrderItems(items []model.PurchaseOrderItem) error {
	if len(items) == 0 {
		return apperr.ValidationErr.WithMsg("purchase order needs at least one item")
	}

	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			return apperr.ErrInvalidQuantity.WithMsg("item quantity must be at least 1")
		}
		if it.UnitPrice.IsNegative() {
			return apperr.ValidationErr.WithMsg("item unit price must not be negative")
		}
		if _, dup := seen[it.ProductID]; dup {
			return apperr.ValidationErr.WithMsg(fmt.Sprintf("product %s is listed more than once", it.ProductID))
		}
		seen[it.ProductID] = struct{}{}
	}
	return nil
}
