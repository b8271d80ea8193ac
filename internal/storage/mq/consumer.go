package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/retail-pos/internal/config"
	"github.com/tuanvumaihuynh/retail-pos/pkg/outbox"
)

type HandlerFunc func(ctx context.Context, topic string, payload []byte) error

type CleanupFunc func()

type Consumer interface {
	RegisterHandler(topic string, handler HandlerFunc) error
	Run(ctx context.Context) (CleanupFunc, error)
}

var _ Consumer = (*KafkaConsumer)(nil)

type KafkaConsumer struct {
	cl       *kgo.Client
	handlers map[string]HandlerFunc
	log      *slog.Logger
}

func NewKafkaConsumer(ctx context.Context, cfg config.Kafka, logger *slog.Logger) (*KafkaConsumer, error) {
	opts := append(clientOptions(ctx, cfg),
		kgo.ConsumerGroup(cfg.Group),
		kgo.DisableAutoCommit(),
	)

	cl, err := newClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &KafkaConsumer{
		cl:       cl,
		handlers: make(map[string]HandlerFunc),
		log:      logger.With(slog.String("service", "mq.KafkaConsumer")),
	}, nil
}

// RegisterHandler must be called before Run.
func (c *KafkaConsumer) RegisterHandler(topic string, handler HandlerFunc) error {
	if _, exists := c.handlers[topic]; exists {
		return fmt.Errorf("handler for topic %s already registered", topic)
	}

	c.cl.AddConsumeTopics(topic)
	c.handlers[topic] = handler
	return nil
}

func (c *KafkaConsumer) Run(ctx context.Context) (CleanupFunc, error) {
	if len(c.handlers) == 0 {
		return nil, errors.New("no handler registered")
	}

	ctx, cancel := context.WithCancel(ctx)
	doneChan := make(chan struct{})

	go func() {
		defer close(doneChan)
		for {
			fetches := c.cl.PollFetches(ctx)
			if ctx.Err() != nil || fetches.IsClientClosed() {
				return
			}

			if errs := fetches.Errors(); len(errs) > 0 {
				c.log.ErrorContext(ctx, "error fetching messages",
					slog.Any("error", errs),
				)
				continue
			}

			fetches.EachRecord(func(rec *kgo.Record) {
				c.handle(ctx, rec)
			})

			if err := c.cl.CommitUncommittedOffsets(ctx); err != nil {
				c.log.ErrorContext(ctx, "error committing offsets",
					slog.Any("error", err),
				)
			}
		}
	}()

	cleanup := func() {
		cancel()
		<-doneChan
		c.cl.Close()
	}

	return cleanup, nil
}

// handle runs the topic handler with the trace and correlation id carried by the
// record headers. Handler errors and panics are logged; the offset still advances.
func (c *KafkaConsumer) handle(ctx context.Context, rec *kgo.Record) {
	ctx = outbox.ExtractContextFromHeaders(ctx, outbox.HeadersFromRecord(rec))
	ctx, span := tracer.Start(ctx, "KafkaConsumer.Handle",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("topic", rec.Topic),
			attribute.Int64("offset", rec.Offset),
		),
	)
	defer span.End()

	defer func() {
		if rvr := recover(); rvr != nil {
			span.RecordError(fmt.Errorf("panic: %v", rvr))
			span.SetStatus(codes.Error, "panic in handler")

			c.log.ErrorContext(ctx, "panic in message handler",
				slog.String("topic", rec.Topic),
				slog.Any("recover", rvr),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	fn, exists := c.handlers[rec.Topic]
	if !exists {
		c.log.WarnContext(ctx, "no handler registered for topic",
			slog.String("topic", rec.Topic),
		)
		return
	}

	if err := fn(ctx, rec.Topic, rec.Value); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "handler failed")
		c.log.ErrorContext(ctx, "error handling message",
			slog.String("topic", rec.Topic),
			slog.String("key", string(rec.Key)),
			slog.Any("error", err),
		)
	}
}

func (c *KafkaConsumer) Close() {
	c.cl.Close()
}
