package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Service) registerDashboardRoutes(r chi.Router) {
	r.Get("/dashboard", s.handle(func(w http.ResponseWriter, r *http.Request) error {
		stats, err := s.deps.Dashboard.GetStats(r.Context())
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, stats)
	}))
}
