package mq

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/retail-pos/internal/config"
)

const pingTimeout = 5 * time.Second

var (
	tracer  = otel.Tracer("retail-pos/storage/mq")
	kTracer = kotel.NewTracer()
)

// clientOptions are shared by the producer and the consumer. Topics are
// created on first use so a fresh broker needs no provisioning.
func clientOptions(ctx context.Context, cfg config.Kafka) []kgo.Opt {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Addresses...),
		kgo.AllowAutoTopicCreation(),
		kgo.WithContext(ctx),
		kgo.WithHooks(kTracer),
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}
	if cfg.DialTimeout > 0 {
		opts = append(opts, kgo.DialTimeout(cfg.DialTimeout))
	}
	return opts
}

func newClient(ctx context.Context, opts ...kgo.Opt) (*kgo.Client, error) {
	cl, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := cl.Ping(pingCtx); err != nil {
		cl.Close()
		return nil, fmt.Errorf("ping kafka: %w", err)
	}

	return cl, nil
}
