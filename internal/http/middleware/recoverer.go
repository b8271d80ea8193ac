package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tuanvumaihuynh/retail-pos/internal/http/apierr"
)

// Recoverer turns a handler panic into a 500 with the API error body and counts
// it. http.ErrAbortHandler is re-raised so net/http aborts the response silently.
func Recoverer(log *slog.Logger, panics prometheus.Counter) func(http.Handler) http.Handler {
	body, err := json.Marshal(apierr.InternalServerErr)
	if err != nil {
		panic(err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if err, ok := rvr.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rvr)
				}

				panics.Inc()
				log.ErrorContext(r.Context(), "handler panicked",
					slog.Any("recover", rvr),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)

				if r.Header.Get("Connection") == "Upgrade" {
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write(body)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
