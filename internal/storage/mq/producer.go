package mq

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/retail-pos/internal/config"
)

// ProduceMsg is one outbox row on its way to kafka.
type ProduceMsg struct {
	Topic        string
	Headers      map[string]string
	Payload      []byte
	PartitionKey *string
}

type Producer interface {
	Produce(ctx context.Context, msg ProduceMsg) error
}

var _ Producer = (*KafkaProducer)(nil)

type KafkaProducer struct {
	cl *kgo.Client
}

func NewKafkaProducer(ctx context.Context, cfg config.Kafka) (*KafkaProducer, error) {
	opts := append(clientOptions(ctx, cfg),
		// A relayed sale must never be lost once its outbox row is deleted.
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.RecordPartitioner(kgo.StickyKeyPartitioner(nil)),
	)

	cl, err := newClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &KafkaProducer{cl: cl}, nil
}

// Produce blocks until the broker acknowledged the record or ctx is done.
func (p *KafkaProducer) Produce(ctx context.Context, msg ProduceMsg) error {
	ctx, span := tracer.Start(ctx, "KafkaProducer.Produce",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", msg.Topic),
		),
	)
	defer span.End()

	if err := p.cl.ProduceSync(ctx, BuildRecord(msg)).FirstErr(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to produce message")
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (p *KafkaProducer) Close() {
	p.cl.Close()
}

// BuildRecord converts msg into a kafka record. Messages sharing a partition key
// keep their relative order.
func BuildRecord(msg ProduceMsg) *kgo.Record {
	headers := make([]kgo.RecordHeader, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kgo.RecordHeader{
			Key:   k,
			Value: []byte(v),
		})
	}

	r := &kgo.Record{
		Topic:   msg.Topic,
		Value:   msg.Payload,
		Headers: headers,
	}

	if msg.PartitionKey != nil {
		r.Key = []byte(*msg.PartitionKey)
	}

	return r
}
