package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tuanvumaihuynh/retail-pos/internal/config"
	"github.com/tuanvumaihuynh/retail-pos/internal/repository"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/db"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/mq"
	"github.com/tuanvumaihuynh/retail-pos/pkg/ptr"
)

const (
	outcomeProduced = "produced"
	outcomeFailed   = "failed"
)

// Service publishes committed sale, transfer and catalog events from the outbox
// table to the broker.
type Service struct {
	cfg           config.Relay
	logger        *slog.Logger
	db            db.DB
	outboxMsgRepo repository.OutboxMsgRepository
	mqProducer    mq.Producer
	relayed       *prometheus.CounterVec

	stopChan chan struct{}
}

func NewService(
	cfg config.Relay,
	logger *slog.Logger,
	db db.DB,
	outboxMsgRepo repository.OutboxMsgRepository,
	mqProducer mq.Producer,
	reg prometheus.Registerer,
) *Service {
	return &Service{
		cfg:           cfg,
		logger:        logger.With(slog.String("service", "relay")),
		db:            db,
		outboxMsgRepo: outboxMsgRepo,
		mqProducer:    mqProducer,
		relayed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Subsystem: "relay",
			Name:      "messages_total",
			Help:      "Outbox messages handed to the broker by topic and outcome.",
		}, []string{"topic", "outcome"}),
		stopChan: make(chan struct{}),
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) CleanupFunc {
	ctx, cancel := context.WithCancel(ctx)

	stoppedChan := make(chan struct{})
	go func() {
		defer close(stoppedChan)
		s.run(ctx)
	}()

	return func() {
		close(s.stopChan)
		select {
		case <-stoppedChan:
		case <-time.After(5 * time.Second):
			cancel()
		}
	}
}

func (s *Service) run(ctx context.Context) {
	relayTicker := time.NewTicker(s.cfg.Interval)
	defer relayTicker.Stop()

	var purgeC <-chan time.Time
	if s.cfg.Retention > 0 && s.cfg.PurgeInterval > 0 {
		purgeTicker := time.NewTicker(s.cfg.PurgeInterval)
		defer purgeTicker.Stop()
		purgeC = purgeTicker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-relayTicker.C:
			if _, err := s.RelayBatch(ctx); err != nil {
				s.logger.ErrorContext(ctx, "error relaying outbox msgs", slog.Any("error", err))
			}
		case <-purgeC:
			if _, err := s.Purge(ctx); err != nil {
				s.logger.ErrorContext(ctx, "error purging outbox msgs", slog.Any("error", err))
			}
		}
	}
}

// Purge deletes successfully relayed messages older than the retention.
func (s *Service) Purge(ctx context.Context) (int64, error) {
	if s.cfg.Retention <= 0 {
		return 0, nil
	}

	n, err := s.outboxMsgRepo.
		WithDB(s.db).
		PurgeProcessedOutboxMsgs(ctx, time.Now().Add(-s.cfg.Retention))
	if err != nil {
		return 0, fmt.Errorf("purge processed outbox msgs: %w", err)
	}

	if n > 0 {
		s.logger.InfoContext(ctx, "purged outbox msgs", slog.Int64("count", n))
	}
	return n, nil
}

// RelayBatch produces one batch of unprocessed messages and records the outcome of
// each. Rows stay locked for the duration, so concurrent relays skip them.
func (s *Service) RelayBatch(ctx context.Context) (int, error) {
	var relayed int
	err := s.db.WithTx(ctx, func(db db.DB) error {
		outboxMsgs, err := s.outboxMsgRepo.
			WithDB(db).
			ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{
				//nolint:gosec
				BatchSize: int32(s.cfg.BatchSize),
			})
		if err != nil {
			return fmt.Errorf("list unprocessed outbox msgs: %w", err)
		}

		if len(outboxMsgs) == 0 {
			return nil
		}

		s.logger.InfoContext(ctx, "relaying outbox msgs", slog.Int("count", len(outboxMsgs)))

		items := s.produceAll(ctx, outboxMsgs)

		if err := s.outboxMsgRepo.
			WithDB(db).
			BulkUpdateOutboxMsgs(ctx, repository.BulkUpdateOutboxMsgsParams{
				Items: items,
			}); err != nil {
			return fmt.Errorf("bulk update outbox msgs: %w", err)
		}

		relayed = len(items)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return relayed, nil
}

func (s *Service) produceAll(ctx context.Context, outboxMsgs []repository.ListUnprocessedOutboxMsgsResult) []repository.BulkUpdateOutboxMsgsItem {
	items := make([]repository.BulkUpdateOutboxMsgsItem, 0, len(outboxMsgs))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, msg := range outboxMsgs {
		wg.Go(func() {
			item := repository.BulkUpdateOutboxMsgsItem{ID: msg.ID}

			err := s.mqProducer.Produce(ctx, mq.ProduceMsg{
				Topic:        msg.Topic,
				Headers:      msg.Headers,
				Payload:      msg.Payload,
				PartitionKey: msg.PartitionKey,
			})
			if err != nil {
				s.logger.ErrorContext(ctx,
					"error producing message",
					slog.String("outbox_msg_id", msg.ID.String()),
					slog.String("topic", msg.Topic),
					slog.Any("error", err),
				)
				item.Error = ptr.New(fmt.Errorf("produce message: %w", err).Error())
				s.relayed.WithLabelValues(msg.Topic, outcomeFailed).Inc()
			} else {
				s.relayed.WithLabelValues(msg.Topic, outcomeProduced).Inc()
			}

			mu.Lock()
			items = append(items, item)
			mu.Unlock()
		})
	}

	wg.Wait()
	return items
}
