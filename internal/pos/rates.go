package pos

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
)

// MaxRateScale is the most decimal places a rate may carry. Costs carry four, so
// cost times rate stays within the eight places a stored unit price holds.
const MaxRateScale = 4

// RateStore persists the current exchange rate. ok is false when no rate was ever set.
type RateStore interface {
	GetRate(ctx context.Context) (rate decimal.Decimal, ok bool, err error)
	SetRate(ctx context.Context, rate decimal.Decimal) error
}

// Rates owns the process-wide foreign-to-local exchange rate. It is set from the
// settings screen and read by every price computation.
type Rates struct {
	store       RateStore
	defaultRate decimal.Decimal
}

func NewRates(store RateStore, defaultRate decimal.Decimal) *Rates {
	return &Rates{store: store, defaultRate: defaultRate}
}

// Get returns the configured rate, or the default when none was set.
func (r *Rates) Get(ctx context.Context) (decimal.Decimal, error) {
	rate, ok, err := r.store.GetRate(ctx)
	if err != nil {
		return decimal.Zero, apperr.ErrDataAccess.WrapParent(fmt.Errorf("get exchange rate: %w", err))
	}
	if !ok {
		return r.defaultRate, nil
	}
	return rate, nil
}

func (r *Rates) Set(ctx context.Context, rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return apperr.ErrInvalidExchangeRate
	}
	if !rate.Equal(rate.Truncate(MaxRateScale)) {
		return apperr.ErrInvalidExchangeRate.WithMsg(
			fmt.Sprintf("exchange rate must have at most %d decimal places", MaxRateScale))
	}
	if err := r.store.SetRate(ctx, rate); err != nil {
		return apperr.ErrDataAccess.WrapParent(fmt.Errorf("set exchange rate: %w", err))
	}
	return nil
}

var _ RateStore = (*MemoryRateStore)(nil)

// MemoryRateStore keeps the rate in process memory. Used when no Redis is configured.
type MemoryRateStore struct {
	mu   sync.RWMutex
	rate *decimal.Decimal
}

func NewMemoryRateStore() *MemoryRateStore {
	return &MemoryRateStore{}
}

func (s *MemoryRateStore) GetRate(_ context.Context) (decimal.Decimal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rate == nil {
		return decimal.Zero, false, nil
	}
	return *s.rate, true, nil
}

func (s *MemoryRateStore) SetRate(_ context.Context, rate decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rate = &rate
	return nil
}
