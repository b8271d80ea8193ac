package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/event"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
)

func newPurchaseOrderFixture() (PurchaseOrderService, *fakePurchaseOrderRepo, *fakeProductRepo, *fakeOutbox) {
	orders := &fakePurchaseOrderRepo{orders: map[uuid.UUID]model.PurchaseOrder{}}
	products := newFakeProductRepo()
	outbox := &fakeOutbox{}
	svc := NewPurchaseOrderService(discardLogger, &fakeDB{}, orders, products, outbox)
	return svc, orders, products, outbox
}

func TestPurchaseOrderService_CreatePurchaseOrder(t *testing.T) {
	t.Run("Should compute the total and start pending", func(t *testing.T) {
		svc, orders, _, _ := newPurchaseOrderFixture()

		order, err := svc.CreatePurchaseOrder(context.Background(), CreatePurchaseOrderParams{
			SupplierID: uuid.New(),
			Items: []model.PurchaseOrderItem{
				{ProductID: uuid.New(), Quantity: 3, UnitPrice: decimal.RequireFromString("2.50")},
				{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, model.PurchaseOrderStatusPending, order.Status)
		assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("17.5")))
		assert.Contains(t, orders.orders, order.ID)
	})

	t.Run("Should reject empty and duplicated items", func(t *testing.T) {
		svc, _, _, _ := newPurchaseOrderFixture()

		_, err := svc.CreatePurchaseOrder(context.Background(), CreatePurchaseOrderParams{SupplierID: uuid.New()})
		assert.ErrorIs(t, err, apperr.ValidationErr)

		p := uuid.New()
		_, err = svc.CreatePurchaseOrder(context.Background(), CreatePurchaseOrderParams{
			SupplierID: uuid.New(),
			Items: []model.PurchaseOrderItem{
				{ProductID: p, Quantity: 1, UnitPrice: decimal.NewFromInt(1)},
				{ProductID: p, Quantity: 2, UnitPrice: decimal.NewFromInt(1)},
			},
		})
		assert.ErrorIs(t, err, apperr.ValidationErr)

		_, err = svc.CreatePurchaseOrder(context.Background(), CreatePurchaseOrderParams{
			SupplierID: uuid.New(),
			Items:      []model.PurchaseOrderItem{{ProductID: p, Quantity: 0}},
		})
		assert.ErrorIs(t, err, apperr.ErrInvalidQuantity)
	})
}

func TestPurchaseOrderService_UpdateStatus(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	seed := func(orders *fakePurchaseOrderRepo, status model.PurchaseOrderStatus) uuid.UUID {
		id := uuid.New()
		orders.orders[id] = model.PurchaseOrder{
			ID:     id,
			Status: status,
			Items: []model.PurchaseOrderItem{
				{ProductID: p1, Quantity: 4},
				{ProductID: p2, Quantity: 1},
			},
		}
		return id
	}

	t.Run("Should not skip approval", func(t *testing.T) {
		svc, orders, products, outbox := newPurchaseOrderFixture()
		id := seed(orders, model.PurchaseOrderStatusPending)

		_, err := svc.UpdateStatus(context.Background(), id, model.PurchaseOrderStatusCompleted)
		assert.ErrorIs(t, err, apperr.ErrInvalidStatusChange)
		assert.Empty(t, products.incremented)
		assert.Empty(t, outbox.msgs)
		assert.Equal(t, model.PurchaseOrderStatusPending, orders.orders[id].Status)
	})

	t.Run("Should approve without touching stock", func(t *testing.T) {
		svc, orders, products, outbox := newPurchaseOrderFixture()
		id := seed(orders, model.PurchaseOrderStatusPending)

		order, err := svc.UpdateStatus(context.Background(), id, model.PurchaseOrderStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, model.PurchaseOrderStatusApproved, order.Status)
		assert.Empty(t, products.incremented)
		assert.Empty(t, outbox.msgs)
	})

	t.Run("Should restock every item on completion", func(t *testing.T) {
		svc, orders, products, outbox := newPurchaseOrderFixture()
		id := seed(orders, model.PurchaseOrderStatusApproved)

		order, err := svc.UpdateStatus(context.Background(), id, model.PurchaseOrderStatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, model.PurchaseOrderStatusCompleted, order.Status)
		assert.Equal(t, map[uuid.UUID]int{p1: 4, p2: 1}, products.incremented)

		require.Equal(t, []string{event.TopicCatalogChanged}, outbox.topics())
		ev := decodePayload[event.CatalogChangedEvent](outbox.msgs[0].Payload)
		assert.Equal(t, event.CatalogActionStocked, ev.Action)
	})

	t.Run("Should not move a completed order", func(t *testing.T) {
		svc, orders, _, _ := newPurchaseOrderFixture()
		id := seed(orders, model.PurchaseOrderStatusCompleted)

		_, err := svc.UpdateStatus(context.Background(), id, model.PurchaseOrderStatusApproved)
		assert.ErrorIs(t, err, apperr.ErrInvalidStatusChange)
	})
}
