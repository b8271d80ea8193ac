package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/retail-pos/internal/config"
	"github.com/tuanvumaihuynh/retail-pos/internal/http/apierr"
	"github.com/tuanvumaihuynh/retail-pos/internal/http/metric"
	"github.com/tuanvumaihuynh/retail-pos/internal/http/middleware"
	"github.com/tuanvumaihuynh/retail-pos/internal/http/swagger"
	"github.com/tuanvumaihuynh/retail-pos/internal/pos"
	"github.com/tuanvumaihuynh/retail-pos/internal/service"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/db"
	"github.com/tuanvumaihuynh/retail-pos/pkg/validator"
)

const (
	apiPrefix = "/api/v1"
	filesPath = "/files"
)

var tracer = otel.Tracer("internal/http")

// Deps are the components the HTTP service exposes.
type Deps struct {
	Auth           service.AuthService
	Products       service.ProductService
	Stores         service.StoreService
	Employees      service.EmployeeService
	Suppliers      service.SupplierService
	PurchaseOrders service.PurchaseOrderService
	Dashboard      service.DashboardService

	Terminal *pos.Terminal
	Catalogs *pos.Catalogs
	History  *pos.History
	Rates    *pos.Rates

	// Files serves uploaded product images. Optional.
	Files  http.Handler
	Health db.HealthChecker

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	HistoryPageSize int
}

// Service represents the HTTP service.
type Service struct {
	cfg       config.HTTP
	logger    *slog.Logger
	metrics   *metric.Metrics
	validator validator.Validator
	deps      Deps
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	deps Deps,
) (*Service, error) {
	v, err := validator.NewDefaultValidator()
	if err != nil {
		return nil, fmt.Errorf("create validator: %w", err)
	}
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	if deps.HistoryPageSize < 1 || deps.HistoryPageSize > pos.MaxPageLimit {
		deps.HistoryPageSize = 5
	}

	return &Service{
		cfg:       cfg,
		logger:    log.With(slog.String("service", "http")),
		metrics:   metric.New(deps.Registerer),
		validator: v,
		deps:      deps,
	}, nil
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	r, err := s.Router()
	if err != nil {
		return nil, err
	}

	return s.RunWithServer(ctx, r)
}

// Router builds the full handler tree.
func (s *Service) Router() (chi.Router, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		if err := swagger.Register(r); err != nil {
			return nil, fmt.Errorf("register swagger: %w", err)
		}
	}

	s.RegisterHandlers(r)
	return r, nil
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      s.cfg.RequestTimeout + 5*time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger, s.metrics.Panics),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.AllowedOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	r.Route(apiPrefix, func(r chi.Router) {
		if s.cfg.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(s.cfg.RequestTimeout))
		}

		r.Post("/auth/login", s.handle(s.login))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(s.deps.Auth, s.handleResponseError))

			s.registerSessionRoutes(r)
			s.registerCatalogRoutes(r)
			s.registerCartRoutes(r)
			s.registerHistoryRoutes(r)
			s.registerProductRoutes(r)
			s.registerStoreRoutes(r)
			s.registerEmployeeRoutes(r)
			s.registerSupplierRoutes(r)
			s.registerPurchaseOrderRoutes(r)
			s.registerDashboardRoutes(r)
		})
	})

	if s.deps.Files != nil {
		r.Handle(filesPath+"/*", http.StripPrefix(filesPath, s.deps.Files))
	}

	r.Get("/healthz", s.handle(s.healthz))

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

// handlerFunc is an HTTP handler that reports failures instead of writing them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Service) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.handleResponseError(w, r, err)
		}
	}
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}

func (s *Service) healthz(w http.ResponseWriter, r *http.Request) error {
	status := map[string]string{"status": "ok"}
	if s.deps.Health != nil {
		if ok, err := s.deps.Health.IsHealthy(r.Context()); !ok || err != nil {
			s.logger.WarnContext(r.Context(), "database unhealthy", slog.Any("error", err))
			return writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
	}
	return writeJSON(w, http.StatusOK, status)
}
