package config

import "time"

type Auth struct {
	JWTSecret string        `env:"AUTH_JWT_SECRET,required"`
	Issuer    string        `env:"AUTH_ISSUER" envDefault:"retail-pos"`
	TokenTTL  time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"12h"`
}
