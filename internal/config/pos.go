package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// POS holds the settings cashiers notice: exchange rate, commit strategy,
// history page size and minimum search length.
type POS struct {
	ExchangeRate    decimal.Decimal `env:"POS_EXCHANGE_RATE" envDefault:"6.96"`
	CommitStrategy  CommitStrategy  `env:"POS_COMMIT_STRATEGY" envDefault:"PROCEDURE"`
	HistoryPageSize int             `env:"POS_HISTORY_PAGE_SIZE" envDefault:"5"`
	SearchMinLength int             `env:"POS_SEARCH_MIN_LENGTH" envDefault:"3"`

	// CartIdleTimeout drops carts untouched for this long. Zero keeps them forever.
	CartIdleTimeout   time.Duration `env:"POS_CART_IDLE_TIMEOUT" envDefault:"12h"`
	CartSweepInterval time.Duration `env:"POS_CART_SWEEP_INTERVAL" envDefault:"10m"`
}

func (p POS) Validate() error {
	var errs []error
	if !p.ExchangeRate.IsPositive() {
		errs = append(errs, fmt.Errorf("POS_EXCHANGE_RATE must be greater than zero, got %s", p.ExchangeRate))
	} else if !p.ExchangeRate.Equal(p.ExchangeRate.Truncate(4)) {
		errs = append(errs, fmt.Errorf("POS_EXCHANGE_RATE must have at most 4 decimal places, got %s", p.ExchangeRate))
	}
	if p.HistoryPageSize < 1 || p.HistoryPageSize > 100 {
		errs = append(errs, fmt.Errorf("POS_HISTORY_PAGE_SIZE must be between 1 and 100, got %d", p.HistoryPageSize))
	}
	if p.CartIdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("POS_CART_IDLE_TIMEOUT must not be negative, got %s", p.CartIdleTimeout))
	}
	if p.CartIdleTimeout > 0 && p.CartSweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("POS_CART_SWEEP_INTERVAL must be greater than zero, got %s", p.CartSweepInterval))
	}
	if p.SearchMinLength < 0 {
		errs = append(errs, fmt.Errorf("POS_SEARCH_MIN_LENGTH must not be negative, got %d", p.SearchMinLength))
	}
	return errors.Join(errs...)
}

// CommitStrategy selects how sales and transfers are written.
type CommitStrategy uint8

const (
	// CommitStrategyProcedure commits through one server-side procedure call.
	CommitStrategyProcedure CommitStrategy = iota
	// CommitStrategyOrchestrated commits header, line items and stock as separate writes.
	CommitStrategyOrchestrated
)

func (s CommitStrategy) String() string {
	return []string{"PROCEDURE", "ORCHESTRATED"}[s]
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *CommitStrategy) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "PROCEDURE":
		*s = CommitStrategyProcedure
	case "ORCHESTRATED":
		*s = CommitStrategyOrchestrated
	default:
		return fmt.Errorf("unknown commit strategy: %s", text)
	}
	return nil
}

func (s CommitStrategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
