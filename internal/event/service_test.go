package event

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/retail-pos/internal/storage/mq"
)

type fakeConsumer struct {
	handlers map[string]mq.HandlerFunc
	ran      bool
}

func (c *fakeConsumer) RegisterHandler(topic string, handler mq.HandlerFunc) error {
	if c.handlers == nil {
		c.handlers = map[string]mq.HandlerFunc{}
	}
	c.handlers[topic] = handler
	return nil
}

func (c *fakeConsumer) Run(context.Context) (mq.CleanupFunc, error) {
	c.ran = true
	return func() {}, nil
}

type countingReloader struct {
	calls int
	err   error
}

func (r *countingReloader) Reload(context.Context) error {
	r.calls++
	return r.err
}

func TestService_RegistersAllTopics(t *testing.T) {
	t.Parallel()

	consumer := &fakeConsumer{}
	svc := New(slog.New(slog.DiscardHandler), consumer, &countingReloader{})

	cleanup, err := svc.Run(context.Background())
	require.NoError(t, err)
	defer cleanup()

	assert.True(t, consumer.ran)
	for _, topic := range Topics {
		assert.Contains(t, consumer.handlers, topic)
	}
}

func TestService_EventsReloadCatalogs(t *testing.T) {
	t.Parallel()

	consumer := &fakeConsumer{}
	reloader := &countingReloader{}
	svc := New(slog.New(slog.DiscardHandler), consumer, reloader)

	cleanup, err := svc.Run(context.Background())
	require.NoError(t, err)
	defer cleanup()

	sale, err := json.Marshal(SaleCommittedEvent{SaleID: "s1", Total: decimal.NewFromInt(290), ItemCount: 3})
	require.NoError(t, err)
	require.NoError(t, consumer.handlers[TopicSaleCommitted](context.Background(), TopicSaleCommitted, sale))

	changed, err := json.Marshal(CatalogChangedEvent{Entity: "product", EntityID: "p1", Action: CatalogActionUpdated})
	require.NoError(t, err)
	require.NoError(t, consumer.handlers[TopicCatalogChanged](context.Background(), TopicCatalogChanged, changed))

	assert.Equal(t, 2, reloader.calls)
}

func TestService_BadPayload(t *testing.T) {
	t.Parallel()

	consumer := &fakeConsumer{}
	reloader := &countingReloader{}
	svc := New(slog.New(slog.DiscardHandler), consumer, reloader)

	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	err = consumer.handlers[TopicTransferCommitted](context.Background(), TopicTransferCommitted, []byte("{"))
	assert.ErrorContains(t, err, "unmarshal transfer.committed event")
	assert.Zero(t, reloader.calls)
}

func TestService_ReloadErrorIsReturned(t *testing.T) {
	t.Parallel()

	consumer := &fakeConsumer{}
	svc := New(slog.New(slog.DiscardHandler), consumer, &countingReloader{err: errors.New("db down")})

	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	err = consumer.handlers[TopicCatalogChanged](context.Background(), TopicCatalogChanged, []byte(`{"entity":"store"}`))
	assert.ErrorContains(t, err, "db down")
}
