package pos_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/pos"
)

func catalogFixture() *fakeSource {
	phone := newProduct("Galaxy A15", "120", "50", 2)
	phone.Color = "Black"
	phone.Barcode = "7790001"
	phone.MeiCode1 = "356789-01"

	soldOut := newProduct("Galaxy A05", "90", "40", 0)
	soldOut.Barcode = "7790002"

	retired := newProduct("Nokia 105", "15", "10", 8)
	retired.Active = false

	return &fakeSource{
		products: []model.Product{phone, soldOut, retired},
		stores: []model.Store{
			{ID: uuid.New(), Name: "Centro"},
			{ID: uuid.New(), Name: "Norte"},
		},
	}
}

func TestCatalog_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("Should keep only products with stock in sale mode", func(t *testing.T) {
		src := catalogFixture()
		c := pos.NewCatalog(pos.KindSale, src, 3, discardLogger)

		require.NoError(t, c.Load(ctx))

		products := c.Products()
		require.Len(t, products, 1)
		assert.Equal(t, "Galaxy A15", products[0].Name)
		assert.Len(t, c.Stores(), 2)
		assert.False(t, c.LoadedAt().IsZero())
	})

	t.Run("Should keep every active product in transfer mode", func(t *testing.T) {
		c := pos.NewCatalog(pos.KindTransfer, catalogFixture(), 3, discardLogger)

		require.NoError(t, c.Load(ctx))

		assert.Len(t, c.Products(), 2)
	})

	t.Run("Should keep previous snapshot when loading fails", func(t *testing.T) {
		src := catalogFixture()
		c := pos.NewCatalog(pos.KindSale, src, 3, discardLogger)
		require.NoError(t, c.Load(ctx))
		loadedAt := c.LoadedAt()

		src.err = errors.New("connection refused")
		err := c.Load(ctx)

		assert.ErrorIs(t, err, apperr.ErrDataAccess)
		assert.Len(t, c.Products(), 1)
		assert.Equal(t, loadedAt, c.LoadedAt())
	})
}

func TestCatalog_Lookup(t *testing.T) {
	ctx := context.Background()
	src := catalogFixture()
	c := pos.NewCatalog(pos.KindTransfer, src, 3, discardLogger)
	require.NoError(t, c.Load(ctx))

	t.Run("Should search name, color and codes", func(t *testing.T) {
		assert.Len(t, c.Search("galaxy"), 2)
		assert.Len(t, c.Search("BLACK"), 1)
		assert.Len(t, c.Search("356789"), 1)
	})

	t.Run("Should return nothing for short terms", func(t *testing.T) {
		assert.Empty(t, c.Search("ga"))
		assert.Empty(t, c.Search("   "))
	})

	t.Run("Should find by exact code", func(t *testing.T) {
		p, err := c.LookupByCode("7790002")
		require.NoError(t, err)
		assert.Equal(t, "Galaxy A05", p.Name)
	})

	t.Run("Should not match partial codes", func(t *testing.T) {
		_, err := c.LookupByCode("77900")
		assert.ErrorIs(t, err, apperr.ErrProductNotFound)
	})

	t.Run("Should find by id and store", func(t *testing.T) {
		p := src.products[0]
		got, ok := c.FindByID(p.ID)
		require.True(t, ok)
		assert.Equal(t, p.Name, got.Name)

		_, ok = c.FindByID(uuid.New())
		assert.False(t, ok)

		store, ok := c.Store(src.stores[1].ID)
		require.True(t, ok)
		assert.Equal(t, "Norte", store.Name)
	})
}

func TestCatalogs_Reload(t *testing.T) {
	src := catalogFixture()
	cs := pos.NewCatalogs(src, 3, discardLogger)

	require.NoError(t, cs.Reload(context.Background()))

	assert.Len(t, cs.For(pos.KindSale).Products(), 1)
	assert.Len(t, cs.For(pos.KindTransfer).Products(), 2)
}
