package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/event"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
)

func TestStoreService_DeleteStore(t *testing.T) {
	t.Run("Should detach products and delete the store in one transaction", func(t *testing.T) {
		storeID := uuid.New()
		other := uuid.New()
		p1 := model.Product{ID: uuid.New(), StoreID: &storeID}
		p2 := model.Product{ID: uuid.New(), StoreID: &other}

		d := &fakeDB{}
		products := newFakeProductRepo(p1, p2)
		stores := &fakeStoreRepo{stores: map[uuid.UUID]model.Store{storeID: {ID: storeID}}}
		outbox := &fakeOutbox{}
		svc := NewStoreService(discardLogger, d, stores, products, outbox)

		require.NoError(t, svc.DeleteStore(context.Background(), storeID))

		assert.Equal(t, 1, d.txs)
		assert.Nil(t, products.products[p1.ID].StoreID)
		assert.Equal(t, &other, products.products[p2.ID].StoreID)
		assert.NotContains(t, stores.stores, storeID)

		require.Equal(t, []string{event.TopicCatalogChanged}, outbox.topics())
		ev := decodePayload[event.CatalogChangedEvent](outbox.msgs[0].Payload)
		assert.Equal(t, event.CatalogActionDeleted, ev.Action)
		assert.Equal(t, storeID.String(), ev.EntityID)
	})

	t.Run("Should return not found for unknown store", func(t *testing.T) {
		outbox := &fakeOutbox{}
		svc := NewStoreService(discardLogger, &fakeDB{}, &fakeStoreRepo{stores: map[uuid.UUID]model.Store{}},
			newFakeProductRepo(), outbox)

		err := svc.DeleteStore(context.Background(), uuid.New())
		assert.ErrorIs(t, err, apperr.ErrStoreNotFound)
		assert.Empty(t, outbox.msgs)
	})
}
