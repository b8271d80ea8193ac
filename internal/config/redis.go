package config

// Redis is optional. When Addr is empty the exchange rate is kept in process memory.
type Redis struct {
	Addr      string `env:"REDIS_ADDR"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB" envDefault:"0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"retail-pos"`
}
