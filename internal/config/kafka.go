package config

import "time"

// Kafka configures both the outbox producer and the catalog-change consumer.
type Kafka struct {
	Addresses []string `env:"KAFKA_ADDRESSES,required" envSeparator:","`
	// Group is the consumer group. Every POS instance needs its own group so
	// that each one refreshes its catalog snapshot on a change.
	Group       string        `env:"KAFKA_GROUP,required"`
	ClientID    string        `env:"KAFKA_CLIENT_ID" envDefault:"retail-pos"`
	DialTimeout time.Duration `env:"KAFKA_DIAL_TIMEOUT" envDefault:"5s"`
}
