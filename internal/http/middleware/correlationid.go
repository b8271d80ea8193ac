package middleware

import (
	"net/http"

	"github.com/tuanvumaihuynh/retail-pos/pkg/correlationid"
)

// CorrelationID reuses the caller's correlation id or creates one, and echoes it back.
func CorrelationID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(correlationid.Header)
			if id == "" || len(id) > 128 {
				id = correlationid.New()
			}

			w.Header().Set(correlationid.Header, id)
			next.ServeHTTP(w, r.WithContext(correlationid.NewContext(r.Context(), id)))
		})
	}
}
