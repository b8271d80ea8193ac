package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/log"
	"github.com/tuanvumaihuynh/retail-pos/internal/service"
)

// Authenticator resolves a bearer token into a session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (service.Session, error)
}

// Auth rejects requests without a valid bearer token. The session is put on the
// request context for handlers to read with service.SessionFromContext.
func Auth(auth Authenticator, onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				onError(w, r, apperr.ErrSessionRequired)
				return
			}

			session, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				onError(w, r, err)
				return
			}

			ctx := service.ContextWithSession(r.Context(), session)
			ctx = log.WithEmployeeID(ctx, session.EmployeeID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
