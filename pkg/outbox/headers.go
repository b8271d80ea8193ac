// Package outbox carries request context across the outbox table and kafka.
// Headers are stored as JSON next to the payload, then copied onto the record
// by the relay, so a consumer's span joins the trace of the request that
// committed the sale.
package outbox

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/tuanvumaihuynh/retail-pos/pkg/correlationid"
)

const (
	ContentTypeHeader = "content-type"
	ContentTypeJSON   = "application/json"
)

// BuildHeaders captures the trace context and correlation id of ctx.
func BuildHeaders(ctx context.Context) map[string]string {
	headers := map[string]string{ContentTypeHeader: ContentTypeJSON}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(headers))

	if id, ok := correlationid.FromContext(ctx); ok {
		headers[correlationid.Header] = id
	}
	return headers
}

// ExtractContextFromHeaders is the reverse of BuildHeaders.
func ExtractContextFromHeaders(ctx context.Context, headers map[string]string) context.Context {
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(headers))

	if id := headers[correlationid.Header]; id != "" {
		ctx = correlationid.NewContext(ctx, id)
	}
	return ctx
}

// HeadersFromRecord flattens kafka record headers. The last value wins on duplicates.
func HeadersFromRecord(rec *kgo.Record) map[string]string {
	headers := make(map[string]string, len(rec.Headers))
	for _, h := range rec.Headers {
		headers[h.Key] = string(h.Value)
	}
	return headers
}
