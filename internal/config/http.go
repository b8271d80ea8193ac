package config

import "time"

type HTTP struct {
	Port           uint32        `env:"HTTP_PORT" envDefault:"8000"`
	Swagger        bool          `env:"HTTP_SWAGGER" envDefault:"true"`
	AllowedOrigins []string      `env:"HTTP_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"15s"`
}
