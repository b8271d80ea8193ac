package pos_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/pos"
	"github.com/tuanvumaihuynh/retail-pos/pkg/zerror"
)

type committerFixture struct {
	committer *pos.Committer
	writer    *fakeWriter
	refresher *fakeRefresher
	registry  *prometheus.Registry
}

func newCommitterFixture() committerFixture {
	writer := &fakeWriter{}
	refresher := &fakeRefresher{}
	reg := prometheus.NewRegistry()

	return committerFixture{
		committer: pos.NewCommitter(writer, newRates("7"), refresher, pos.NewMetrics(reg), discardLogger),
		writer:    writer,
		refresher: refresher,
		registry:  reg,
	}
}

func saleCart(t *testing.T) *pos.Cart {
	t.Helper()

	a := newProduct("A", "10", "5", 2)
	b := newProduct("B", "20", "0", 1)
	cart := pos.NewCart(pos.KindSale)
	require.NoError(t, cart.AddProduct(a))
	require.NoError(t, cart.AddProduct(a))
	require.NoError(t, cart.AddProduct(b))
	return cart
}

func transferCart(t *testing.T) *pos.Cart {
	t.Helper()

	cart := pos.NewCart(pos.KindTransfer)
	require.NoError(t, cart.AddProduct(newProduct("A", "10", "5", 2)))
	require.NoError(t, cart.AddProduct(newProduct("B", "20", "0", 1)))
	return cart
}

func TestCommitter_CommitSale(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	t.Run("Should write the sale and clear the cart", func(t *testing.T) {
		f := newCommitterFixture()
		cart := saleCart(t)

		receipt, err := f.committer.CommitSale(ctx, cart, employeeID, model.PaymentMethodCash)
		require.NoError(t, err)

		assert.Equal(t, "290", receipt.Total.String())
		assert.Equal(t, 3, receipt.Units)
		assert.NotEmpty(t, receipt.Message)
		assert.True(t, cart.IsEmpty())
		assert.True(t, cart.Total(decimal.NewFromInt(7)).IsZero())
		assert.Equal(t, 1, f.refresher.calls)

		require.Len(t, f.writer.sales, 1)
		draft := f.writer.sales[0]
		assert.Equal(t, receipt.ID, draft.ID)
		assert.Equal(t, employeeID, draft.EmployeeID)
		assert.Equal(t, model.PaymentMethodCash, draft.PaymentMethod)
		assert.Equal(t, 3, draft.ItemCount)
		require.Len(t, draft.Lines, 2)
		assert.Equal(t, "75", draft.Lines[0].UnitPrice.String())
		assert.Equal(t, 2, draft.Lines[0].Quantity)
		assert.Equal(t, "140", draft.Lines[1].UnitPrice.String())

		assert.InDelta(t, 1, counterValue(t, f.registry, "pos_commits_total", "sale", "committed"), 0)
	})

	t.Run("Should reject an empty cart without writing", func(t *testing.T) {
		f := newCommitterFixture()

		_, err := f.committer.CommitSale(ctx, pos.NewCart(pos.KindSale), employeeID, model.PaymentMethodCash)

		assert.ErrorIs(t, err, apperr.ErrCartEmpty)
		assert.Zero(t, f.writer.Calls())
	})

	t.Run("Should reject missing employee and bad payment method", func(t *testing.T) {
		f := newCommitterFixture()
		cart := saleCart(t)

		_, err := f.committer.CommitSale(ctx, cart, uuid.Nil, model.PaymentMethodCash)
		assert.ErrorIs(t, err, apperr.ErrEmployeeRequired)

		_, err = f.committer.CommitSale(ctx, cart, employeeID, model.PaymentMethod("cheque"))
		assert.ErrorIs(t, err, apperr.ErrInvalidPaymentMethod)

		assert.Zero(t, f.writer.Calls())
		assert.Equal(t, 2, cart.Len())
	})

	t.Run("Should reject a transfer cart", func(t *testing.T) {
		f := newCommitterFixture()

		_, err := f.committer.CommitSale(ctx, transferCart(t), employeeID, model.PaymentMethodCard)

		assert.ErrorIs(t, err, apperr.ErrCartKindMismatch)
		assert.Zero(t, f.writer.Calls())
	})

	t.Run("Should keep the cart when the backend rejects", func(t *testing.T) {
		f := newCommitterFixture()
		f.writer.err = apperr.ErrInsufficientStock.WithMsg("insufficient stock for product A")
		cart := saleCart(t)
		before := cart.Items()

		_, err := f.committer.CommitSale(ctx, cart, employeeID, model.PaymentMethodCard)

		var zErr zerror.ZError
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, apperr.InsufficientStockCode, zErr.Code())
		assert.Equal(t, "insufficient stock for product A", zErr.Msg())
		assert.Equal(t, before, cart.Items())
		assert.Zero(t, f.refresher.calls)
		assert.InDelta(t, 1, counterValue(t, f.registry, "pos_commits_total", "sale", "rejected"), 0)
	})

	t.Run("Should report unknown failures as data access errors", func(t *testing.T) {
		f := newCommitterFixture()
		f.writer.err = errors.New("connection reset by peer")
		cart := saleCart(t)

		_, err := f.committer.CommitSale(ctx, cart, employeeID, model.PaymentMethodTransfer)

		assert.ErrorIs(t, err, apperr.ErrDataAccess)
		assert.Equal(t, 2, cart.Len())
	})

	t.Run("Should succeed when the catalog reload fails", func(t *testing.T) {
		f := newCommitterFixture()
		f.refresher.err = errors.New("timeout")
		cart := saleCart(t)

		_, err := f.committer.CommitSale(ctx, cart, employeeID, model.PaymentMethodCash)

		require.NoError(t, err)
		assert.True(t, cart.IsEmpty())
	})
}

func TestCommitter_CommitTransfer(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	from, to := uuid.New(), uuid.New()

	t.Run("Should write the transfer and clear the cart", func(t *testing.T) {
		f := newCommitterFixture()
		cart := transferCart(t)

		receipt, err := f.committer.CommitTransfer(ctx, cart, employeeID, from, to)
		require.NoError(t, err)

		assert.Equal(t, 2, receipt.Units)
		assert.True(t, cart.IsEmpty())
		require.Len(t, f.writer.transfers, 1)
		assert.Equal(t, from, f.writer.transfers[0].FromStoreID)
		assert.Equal(t, to, f.writer.transfers[0].ToStoreID)
		assert.Len(t, f.writer.transfers[0].Lines, 2)
	})

	t.Run("Should reject the same store on both ends without writing", func(t *testing.T) {
		f := newCommitterFixture()
		cart := transferCart(t)

		_, err := f.committer.CommitTransfer(ctx, cart, employeeID, from, from)

		var zErr zerror.ZError
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, apperr.SameStoreTransferCode, zErr.Code())
		assert.Equal(t, "source and destination store must differ", zErr.Msg())
		assert.Zero(t, f.writer.Calls())
		assert.Equal(t, 2, cart.Len())
		assert.InDelta(t, 1, counterValue(t, f.registry, "pos_commits_total", "transfer", "invalid"), 0)
	})

	t.Run("Should require both stores", func(t *testing.T) {
		f := newCommitterFixture()

		_, err := f.committer.CommitTransfer(ctx, transferCart(t), employeeID, uuid.Nil, to)

		assert.ErrorIs(t, err, apperr.ErrStoreRequired)
		assert.Zero(t, f.writer.Calls())
	})

	t.Run("Should reject an empty cart without writing", func(t *testing.T) {
		f := newCommitterFixture()

		_, err := f.committer.CommitTransfer(ctx, pos.NewCart(pos.KindTransfer), employeeID, from, to)

		assert.ErrorIs(t, err, apperr.ErrCartEmpty)
		assert.Zero(t, f.writer.Calls())
	})

	t.Run("Should count partial commits", func(t *testing.T) {
		f := newCommitterFixture()
		f.writer.err = apperr.ErrPartialCommit.WrapParent(errors.New("undo failed"))
		cart := transferCart(t)

		_, err := f.committer.CommitTransfer(ctx, cart, employeeID, from, to)

		assert.ErrorIs(t, err, apperr.ErrPartialCommit)
		assert.Equal(t, 2, cart.Len())
		assert.InDelta(t, 1, counterValue(t, f.registry, "pos_commits_total", "transfer", "partial"), 0)
		assert.InDelta(t, 1, counterValue(t, f.registry, "pos_partial_commits_total", "transfer", ""), 0)
	})
}

// counterValue reads a counter from reg. An empty outcome matches series without one.
func counterValue(t *testing.T, reg *prometheus.Registry, name, kind, outcome string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["kind"] == kind && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}
