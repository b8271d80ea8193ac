package config

type Otel struct {
	ServiceName    string `env:"OTEL_SERVICE_NAME"`
	ServiceVersion string `env:"OTEL_SERVICE_VERSION"`
	// CollectorURL empty disables span export. Spans are still created so
	// that trace ids reach the logs.
	CollectorURL  string  `env:"OTEL_COLLECTOR_URL"`
	CollectorAuth string  `env:"OTEL_COLLECTOR_AUTH"`
	Insecure      bool    `env:"OTEL_INSECURE"`
	TraceIDRatio  float64 `env:"OTEL_TRACE_ID_RATIO" envDefault:"0.1"`

	K8sPodName   string `env:"K8S_POD_NAME"`
	K8sNamespace string `env:"K8S_NAMESPACE"`
}
