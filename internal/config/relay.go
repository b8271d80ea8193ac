package config

import (
	"errors"
	"time"
)

type Relay struct {
	// Enabled controls whether the standalone binary runs the relay in process.
	// Turn it off when rp-relay is deployed separately.
	Enabled   bool          `env:"RELAY_ENABLED" envDefault:"true"`
	BatchSize uint32        `env:"RELAY_BATCH_SIZE" envDefault:"100"`
	Interval  time.Duration `env:"RELAY_INTERVAL" envDefault:"1s"`
	// Retention is how long relayed messages stay in the outbox table.
	// Zero keeps them forever.
	Retention     time.Duration `env:"RELAY_RETENTION" envDefault:"168h"`
	PurgeInterval time.Duration `env:"RELAY_PURGE_INTERVAL" envDefault:"1h"`
}

func (r Relay) Validate() error {
	if r.BatchSize == 0 {
		return errors.New("RELAY_BATCH_SIZE must be greater than zero")
	}
	if r.Interval <= 0 {
		return errors.New("RELAY_INTERVAL must be positive")
	}
	return nil
}
