package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Service) registerHistoryRoutes(r chi.Router) {
	r.Get("/sales", s.handle(s.listSales))
	r.Get("/transfers", s.handle(s.listTransfers))
}

func (s *Service) pageParams(r *http.Request) (limit, offset int, err error) {
	if limit, err = queryInt(r, "limit", s.deps.HistoryPageSize); err != nil {
		return 0, 0, err
	}
	if offset, err = queryInt(r, "offset", 0); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func (s *Service) listSales(w http.ResponseWriter, r *http.Request) error {
	limit, offset, err := s.pageParams(r)
	if err != nil {
		return err
	}

	page, err := s.deps.History.SalesPage(r.Context(), limit, offset)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, page)
}

func (s *Service) listTransfers(w http.ResponseWriter, r *http.Request) error {
	limit, offset, err := s.pageParams(r)
	if err != nil {
		return err
	}

	page, err := s.deps.History.TransfersPage(r.Context(), limit, offset)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, page)
}
