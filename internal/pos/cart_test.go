package pos_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/pos"
)

func TestCart_AddProduct(t *testing.T) {
	t.Run("Should cap quantity at stock", func(t *testing.T) {
		p := newProduct("Phone", "10", "5", 3)
		cart := pos.NewCart(pos.KindSale)

		for range 3 {
			require.NoError(t, cart.AddProduct(p))
		}
		err := cart.AddProduct(p)

		assert.ErrorIs(t, err, apperr.ErrStockLimit)
		require.Equal(t, 1, cart.Len())
		assert.Equal(t, 3, cart.Items()[0].Quantity)
	})

	t.Run("Should keep one line when adding a single-stock product twice", func(t *testing.T) {
		p := newProduct("A", "10", "5", 1)
		cart := pos.NewCart(pos.KindSale)

		require.NoError(t, cart.AddProduct(p))
		assert.ErrorIs(t, cart.AddProduct(p), apperr.ErrStockLimit)

		require.Equal(t, 1, cart.Len())
		assert.Equal(t, 1, cart.Items()[0].Quantity)
	})

	t.Run("Should refuse product without stock in a sale cart", func(t *testing.T) {
		cart := pos.NewCart(pos.KindSale)

		err := cart.AddProduct(newProduct("Empty", "1", "0", 0))

		assert.ErrorIs(t, err, apperr.ErrStockLimit)
		assert.True(t, cart.IsEmpty())
	})

	t.Run("Should ignore duplicates in a transfer cart", func(t *testing.T) {
		p := newProduct("Phone", "10", "5", 0)
		cart := pos.NewCart(pos.KindTransfer)

		require.NoError(t, cart.AddProduct(p))
		require.NoError(t, cart.AddProduct(p))

		require.Equal(t, 1, cart.Len())
		assert.Equal(t, 1, cart.Items()[0].Quantity)
	})
}

func TestCart_SetQuantity(t *testing.T) {
	p := newProduct("Phone", "10", "5", 4)

	t.Run("Should set quantity within stock", func(t *testing.T) {
		cart := pos.NewCart(pos.KindSale)
		require.NoError(t, cart.AddProduct(p))

		require.NoError(t, cart.SetQuantity(p.ID, 4))

		assert.Equal(t, 4, cart.Units())
	})

	t.Run("Should refuse quantity above stock", func(t *testing.T) {
		cart := pos.NewCart(pos.KindSale)
		require.NoError(t, cart.AddProduct(p))

		assert.ErrorIs(t, cart.SetQuantity(p.ID, 5), apperr.ErrStockLimit)
		assert.Equal(t, 1, cart.Units())
	})

	t.Run("Should ignore quantity below one", func(t *testing.T) {
		cart := pos.NewCart(pos.KindSale)
		require.NoError(t, cart.AddProduct(p))

		require.NoError(t, cart.SetQuantity(p.ID, 0))

		assert.Equal(t, 1, cart.Units())
	})

	t.Run("Should fail for unknown product", func(t *testing.T) {
		cart := pos.NewCart(pos.KindSale)

		assert.ErrorIs(t, cart.SetQuantity(p.ID, 2), apperr.ErrLineItemNotFound)
	})

	t.Run("Should only accept one unit in a transfer cart", func(t *testing.T) {
		cart := pos.NewCart(pos.KindTransfer)
		require.NoError(t, cart.AddProduct(p))

		assert.ErrorIs(t, cart.SetQuantity(p.ID, 2), apperr.ErrInvalidQuantity)
		assert.NoError(t, cart.SetQuantity(p.ID, 1))
	})
}

func TestCart_Total(t *testing.T) {
	rate := decimal.NewFromInt(7)

	t.Run("Should price lines with rate and markup", func(t *testing.T) {
		a := newProduct("A", "10", "5", 5)
		b := newProduct("B", "20", "0", 5)
		cart := pos.NewCart(pos.KindSale)

		require.NoError(t, cart.AddProduct(a))
		require.NoError(t, cart.AddProduct(a))
		require.NoError(t, cart.AddProduct(b))

		assert.Equal(t, "290", cart.Total(rate).String())
		assert.Equal(t, 3, cart.Units())
	})

	t.Run("Should not depend on insertion order", func(t *testing.T) {
		a := newProduct("A", "10.37", "2.5", 5)
		b := newProduct("B", "3.33", "0.25", 5)

		ab := pos.NewCart(pos.KindSale)
		require.NoError(t, ab.AddProduct(a))
		require.NoError(t, ab.AddProduct(b))
		require.NoError(t, ab.AddProduct(b))

		ba := pos.NewCart(pos.KindSale)
		require.NoError(t, ba.AddProduct(b))
		require.NoError(t, ba.AddProduct(a))
		require.NoError(t, ba.SetQuantity(b.ID, 2))

		assert.True(t, ab.Total(rate).Equal(ba.Total(rate)))
		assert.True(t, ab.Subtotal(rate).Equal(ba.Subtotal(rate)))
	})

	t.Run("Should round once after summing", func(t *testing.T) {
		// 0.07 * 7 = 0.49 per unit. Rounding per line would give 0 for each.
		p := newProduct("Cable", "0.07", "0", 10)
		cart := pos.NewCart(pos.KindSale)
		require.NoError(t, cart.AddProduct(p))
		require.NoError(t, cart.SetQuantity(p.ID, 3))

		assert.Equal(t, "1.47", cart.Subtotal(rate).String())
		assert.Equal(t, "1", cart.Total(rate).String())
	})

	t.Run("Should round half away from zero", func(t *testing.T) {
		p := newProduct("Case", "0.5", "0", 1)
		cart := pos.NewCart(pos.KindSale)
		require.NoError(t, cart.AddProduct(p))

		assert.Equal(t, "4", cart.Total(rate).String())
	})

	t.Run("Should be zero when empty", func(t *testing.T) {
		assert.True(t, pos.NewCart(pos.KindSale).Total(rate).IsZero())
	})
}

func TestCart_RemoveLineItem(t *testing.T) {
	rate := decimal.NewFromInt(7)
	a := newProduct("A", "10", "5", 5)
	b := newProduct("B", "20", "0", 5)

	t.Run("Should drop exactly the removed line", func(t *testing.T) {
		cart := pos.NewCart(pos.KindSale)
		require.NoError(t, cart.AddProduct(a))
		require.NoError(t, cart.AddProduct(a))
		require.NoError(t, cart.AddProduct(b))

		cart.RemoveLineItem(a.ID)

		assert.Equal(t, "140", cart.Total(rate).String())
		require.Equal(t, 1, cart.Len())
		assert.Equal(t, b.ID, cart.Items()[0].Product.ID)
	})

	t.Run("Should ignore unknown product", func(t *testing.T) {
		cart := pos.NewCart(pos.KindSale)
		require.NoError(t, cart.AddProduct(a))
		before := cart.Items()

		cart.RemoveLineItem(b.ID)

		assert.Equal(t, before, cart.Items())
	})
}

func TestCart_Clone(t *testing.T) {
	a := newProduct("A", "10", "5", 5)
	cart := pos.NewCart(pos.KindSale)
	require.NoError(t, cart.AddProduct(a))

	clone := cart.Clone()
	clone.Clear()

	assert.Equal(t, 1, cart.Len())
	assert.True(t, clone.IsEmpty())
	assert.Equal(t, pos.KindSale, clone.Kind())
}
