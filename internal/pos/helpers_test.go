package pos_test

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/pos"
)

var discardLogger = slog.New(slog.DiscardHandler)

func newProduct(name, cost, markup string, stock int) model.Product {
	return model.Product{
		ID:            uuid.New(),
		Name:          name,
		CostPrice:     decimal.RequireFromString(cost),
		Markup:        decimal.RequireFromString(markup),
		StockQuantity: stock,
		Active:        true,
	}
}

func newRates(rate string) *pos.Rates {
	return pos.NewRates(pos.NewMemoryRateStore(), decimal.RequireFromString(rate))
}

type fakeSource struct {
	mu       sync.Mutex
	products []model.Product
	stores   []model.Store
	err      error
}

func (s *fakeSource) ListCatalogProducts(_ context.Context, _ bool) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]model.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *fakeSource) ListStores(_ context.Context) ([]model.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]model.Store, len(s.stores))
	copy(out, s.stores)
	return out, nil
}

type fakeWriter struct {
	mu        sync.Mutex
	calls     int
	sales     []pos.SaleDraft
	transfers []pos.TransferDraft
	err       error

	// started and release let a test hold a write in flight.
	started chan struct{}
	release chan struct{}
}

func (w *fakeWriter) WriteSale(_ context.Context, draft pos.SaleDraft) error {
	w.hold()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.err != nil {
		return w.err
	}
	w.sales = append(w.sales, draft)
	return nil
}

func (w *fakeWriter) WriteTransfer(_ context.Context, draft pos.TransferDraft) error {
	w.hold()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.err != nil {
		return w.err
	}
	w.transfers = append(w.transfers, draft)
	return nil
}

func (w *fakeWriter) hold() {
	if w.started != nil {
		w.started <- struct{}{}
	}
	if w.release != nil {
		<-w.release
	}
}

func (w *fakeWriter) Calls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls
}

type fakeRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *fakeRefresher) Reload(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.err
}
