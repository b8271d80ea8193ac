package config

import (
	"net/url"
	"strconv"
	"time"
)

// Postgres holds the connection settings of the POS database. Sales, transfers
// and stock all live in the same database, so a single pool serves every writer.
type Postgres struct {
	Host     string `env:"POSTGRES_HOST,required"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER,required"`
	Password string `env:"POSTGRES_PASSWORD,required"`
	DB       string `env:"POSTGRES_DB,required"`
	SSLMode  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// ApplicationName shows up in pg_stat_activity.
	ApplicationName string `env:"POSTGRES_APPLICATION_NAME" envDefault:"retail-pos"`
	// StatementTimeout bounds every statement, including the commit procedures.
	// Zero leaves the server default in place.
	StatementTimeout time.Duration `env:"POSTGRES_STATEMENT_TIMEOUT" envDefault:"15s"`
	ConnectTimeout   time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" envDefault:"5s"`

	MaxConns        int32         `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns        int32         `env:"POSTGRES_MIN_CONNS" envDefault:"1"`
	MaxConnLifetime time.Duration `env:"POSTGRES_MAX_CONN_LIFETIME" envDefault:"1h"`
	MaxConnIdleTime time.Duration `env:"POSTGRES_MAX_CONN_IDLE_TIME" envDefault:"10m"`
}

// DSN builds a postgres URL. User and password are escaped.
func (p Postgres) DSN() string {
	q := url.Values{}
	q.Set("sslmode", p.SSLMode)
	if p.ApplicationName != "" {
		q.Set("application_name", p.ApplicationName)
	}
	if p.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(p.ConnectTimeout.Seconds())))
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     p.Host + ":" + strconv.Itoa(p.Port),
		Path:     "/" + p.DB,
		RawQuery: q.Encode(),
	}
	return u.String()
}
