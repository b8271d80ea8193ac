package middleware_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/http/apierr"
	"github.com/tuanvumaihuynh/retail-pos/internal/http/metric"
	"github.com/tuanvumaihuynh/retail-pos/internal/http/middleware"
	"github.com/tuanvumaihuynh/retail-pos/internal/service"
	"github.com/tuanvumaihuynh/retail-pos/pkg/correlationid"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestRecoverer(t *testing.T) {
	t.Run("Should answer 500 with the API error body", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := metric.New(reg)

		h := middleware.Recoverer(discard, m.Panics)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("nil catalog")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var body apierr.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, apierr.InternalServerErr.Code, body.Code)
		assert.InDelta(t, 1, counterValue(t, reg, "http_panics_total"), 0)
	})

	t.Run("Should re-raise aborted handlers", func(t *testing.T) {
		m := metric.New(prometheus.NewRegistry())
		h := middleware.Recoverer(discard, m.Panics)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		}))

		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}

func TestTrace(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	r := chi.NewRouter()
	r.Use(middleware.Trace(tp.Tracer("test")))
	r.Post("/carts/{cartID}/checkout", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {})

	t.Run("Should name the span after the route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/carts/"+uuid.NewString()+"/checkout", nil))

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, "POST /carts/{cartID}/checkout", spans[0].Name())
	})

	t.Run("Should skip health checks", func(t *testing.T) {
		before := len(recorder.Ended())
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Len(t, recorder.Ended(), before)
	})
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := chi.NewRouter()
	r.Use(middleware.Metrics(metric.New(reg)))
	r.Get("/carts/{cartID}", func(w http.ResponseWriter, _ *http.Request) {})

	for range 3 {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/carts/"+uuid.NewString(), nil))
	}

	t.Run("Should count requests under one route label", func(t *testing.T) {
		families, err := reg.Gather()
		require.NoError(t, err)

		for _, f := range families {
			if f.GetName() != "http_requests_total" {
				continue
			}
			require.Len(t, f.GetMetric(), 1)
			assert.InDelta(t, 3, f.GetMetric()[0].GetCounter().GetValue(), 0)
			return
		}
		t.Fatal("http_requests_total not gathered")
	})
}

type staticAuth struct {
	session service.Session
}

func (a staticAuth) Authenticate(_ context.Context, token string) (service.Session, error) {
	if token != "good" {
		return service.Session{}, apperr.ErrSessionRequired
	}
	return a.session, nil
}

func TestAuth(t *testing.T) {
	session := service.Session{EmployeeID: uuid.New(), Username: "cashier"}
	var gotErr error
	onError := func(w http.ResponseWriter, _ *http.Request, err error) {
		gotErr = err
		w.WriteHeader(http.StatusUnauthorized)
	}

	h := middleware.Auth(staticAuth{session: session}, onError)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := service.SessionFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, session.EmployeeID, s.EmployeeID)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"Should accept a bearer token", "Bearer good", http.StatusOK},
		{"Should accept a lower case scheme", "bearer good", http.StatusOK},
		{"Should reject a missing header", "", http.StatusUnauthorized},
		{"Should reject basic auth", "Basic Z29vZA==", http.StatusUnauthorized},
		{"Should reject an unknown token", "Bearer bad", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotErr = nil
			req := httptest.NewRequest(http.MethodGet, "/api/v1/carts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				assert.ErrorIs(t, gotErr, apperr.ErrSessionRequired)
			}
		})
	}
}

func TestCorrelationID(t *testing.T) {
	var seen string
	h := middleware.CorrelationID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen, _ = correlationid.FromContext(r.Context())
	}))

	t.Run("Should reuse the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(correlationid.Header, "till-7")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "till-7", seen)
		assert.Equal(t, "till-7", rec.Header().Get(correlationid.Header))
	})

	t.Run("Should create one when missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(correlationid.Header))
	})
}
