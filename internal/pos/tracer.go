package pos

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("internal/pos")
