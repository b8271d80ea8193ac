package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/retail-pos/internal/storage/mq"
)

// Reloader refreshes in-memory catalog snapshots.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Service is the event service.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
	reloader   Reloader
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
	reloader Reloader,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
		reloader:   reloader,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	handlers := map[string]mq.HandlerFunc{
		TopicSaleCommitted:     decode(s.handleSaleCommitted),
		TopicTransferCommitted: decode(s.handleTransferCommitted),
		TopicCatalogChanged:    decode(s.handleCatalogChanged),
	}
	for _, topic := range Topics {
		if err := s.mqConsumer.RegisterHandler(topic, handlers[topic]); err != nil {
			return nil, fmt.Errorf("register %s handler: %w", topic, err)
		}
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}

func decode[T any](handle func(context.Context, T) error) mq.HandlerFunc {
	return func(ctx context.Context, topic string, payload []byte) error {
		var ev T
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("unmarshal %s event: %w", topic, err)
		}

		if err := handle(ctx, ev); err != nil {
			return fmt.Errorf("handle %s event: %w", topic, err)
		}

		return nil
	}
}
