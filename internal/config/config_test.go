package config_test

import (
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/retail-pos/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("Should apply defaults", func(t *testing.T) {
		type Config struct {
			Log config.Log
			POS config.POS
		}

		cfg, err := config.New[Config]()
		require.NoError(t, err)

		assert.Equal(t, config.LogFormatJSON, cfg.Log.Format)
		assert.Equal(t, slog.LevelInfo, cfg.Log.Level)
		assert.True(t, decimal.RequireFromString("6.96").Equal(cfg.POS.ExchangeRate))
		assert.Equal(t, config.CommitStrategyProcedure, cfg.POS.CommitStrategy)
		assert.Equal(t, 5, cfg.POS.HistoryPageSize)
		assert.Equal(t, 3, cfg.POS.SearchMinLength)
		assert.Equal(t, 12*time.Hour, cfg.POS.CartIdleTimeout)
	})

	t.Run("Should read commit strategy from env", func(t *testing.T) {
		t.Setenv("POS_COMMIT_STRATEGY", "orchestrated")
		t.Setenv("LOG_FORMAT", "text")

		type Config struct {
			Log config.Log
			POS config.POS
		}

		cfg, err := config.New[Config]()
		require.NoError(t, err)

		assert.Equal(t, config.CommitStrategyOrchestrated, cfg.POS.CommitStrategy)
		assert.Equal(t, config.LogFormatText, cfg.Log.Format)
	})

	t.Run("Should fail on unknown commit strategy", func(t *testing.T) {
		t.Setenv("POS_COMMIT_STRATEGY", "eventually")

		type Config struct {
			POS config.POS
		}

		_, err := config.New[Config]()
		assert.Error(t, err)
	})

	t.Run("Should fail when required auth secret is missing", func(t *testing.T) {
		type Config struct {
			Auth config.Auth
		}

		_, err := config.New[Config]()
		assert.Error(t, err)
	})
}

func TestNew_Validate(t *testing.T) {
	type Config struct {
		POS   config.POS
		Relay config.Relay
	}

	t.Run("Should reject a non positive exchange rate", func(t *testing.T) {
		t.Setenv("POS_EXCHANGE_RATE", "0")

		_, err := config.New[Config]()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "POS_EXCHANGE_RATE")
	})

	t.Run("Should parse the exchange rate exactly", func(t *testing.T) {
		t.Setenv("POS_EXCHANGE_RATE", "6.9701")

		cfg, err := config.New[Config]()
		require.NoError(t, err)
		assert.Equal(t, "6.9701", cfg.POS.ExchangeRate.String())
	})

	t.Run("Should reject a negative cart idle timeout", func(t *testing.T) {
		t.Setenv("POS_CART_IDLE_TIMEOUT", "-1m")

		_, err := config.New[Config]()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "POS_CART_IDLE_TIMEOUT")
	})

	t.Run("Should reject an exchange rate finer than four decimal places", func(t *testing.T) {
		t.Setenv("POS_EXCHANGE_RATE", "6.97015")

		_, err := config.New[Config]()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decimal places")
	})

	t.Run("Should report every invalid section", func(t *testing.T) {
		t.Setenv("POS_HISTORY_PAGE_SIZE", "500")
		t.Setenv("RELAY_BATCH_SIZE", "0")

		_, err := config.New[Config]()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "POS_HISTORY_PAGE_SIZE")
		assert.Contains(t, err.Error(), "RELAY_BATCH_SIZE")
	})

	t.Run("Should accept defaults", func(t *testing.T) {
		_, err := config.New[Config]()
		assert.NoError(t, err)
	})
}

func TestPostgres_DSN(t *testing.T) {
	t.Run("Should escape credentials and carry connection options", func(t *testing.T) {
		cfg := config.Postgres{
			Host:            "db.local",
			Port:            5433,
			User:            "pos",
			Password:        "p@ss/word",
			DB:              "retail",
			SSLMode:         "require",
			ApplicationName: "rp-relay",
			ConnectTimeout:  3 * time.Second,
		}

		u, err := url.Parse(cfg.DSN())
		require.NoError(t, err)

		assert.Equal(t, "postgres", u.Scheme)
		assert.Equal(t, "db.local:5433", u.Host)
		assert.Equal(t, "/retail", u.Path)
		pass, _ := u.User.Password()
		assert.Equal(t, "p@ss/word", pass)
		assert.Equal(t, "require", u.Query().Get("sslmode"))
		assert.Equal(t, "rp-relay", u.Query().Get("application_name"))
		assert.Equal(t, "3", u.Query().Get("connect_timeout"))
	})

	t.Run("Should apply pool defaults", func(t *testing.T) {
		t.Setenv("POSTGRES_HOST", "localhost")
		t.Setenv("POSTGRES_USER", "pos")
		t.Setenv("POSTGRES_PASSWORD", "secret")
		t.Setenv("POSTGRES_DB", "retail")

		type Config struct {
			Postgres config.Postgres
		}

		cfg, err := config.New[Config]()
		require.NoError(t, err)

		assert.Equal(t, 5432, cfg.Postgres.Port)
		assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
		assert.Equal(t, 15*time.Second, cfg.Postgres.StatementTimeout)
		assert.NotContains(t, cfg.Postgres.DSN(), "connect_timeout=0")
	})
}

func TestLogFormat(t *testing.T) {
	tests := []struct {
		in   string
		want config.LogFormat
	}{
		{"json", config.LogFormatJSON},
		{"TEXT", config.LogFormatText},
		{" console ", config.LogFormatText},
	}
	for _, tt := range tests {
		t.Run("Should parse "+tt.in, func(t *testing.T) {
			var f config.LogFormat
			require.NoError(t, f.UnmarshalText([]byte(tt.in)))
			assert.Equal(t, tt.want, f)
		})
	}

	t.Run("Should reject unknown format", func(t *testing.T) {
		var f config.LogFormat
		assert.Error(t, f.UnmarshalText([]byte("yaml")))
	})

	t.Run("Should print unknown values without panicking", func(t *testing.T) {
		assert.Equal(t, "LogFormat(7)", config.LogFormat(7).String())
	})
}
