package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type loginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

func (s *Service) login(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		return err
	}

	token, err := s.deps.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, token)
}

type exchangeRateBody struct {
	Rate decimal.Decimal `json:"rate"`
}

func (s *Service) registerSessionRoutes(r chi.Router) {
	r.Get("/auth/session", s.handle(func(w http.ResponseWriter, r *http.Request) error {
		session, err := sessionOf(r)
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, session)
	}))

	r.Get("/settings/exchange-rate", s.handle(func(w http.ResponseWriter, r *http.Request) error {
		rate, err := s.deps.Rates.Get(r.Context())
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, exchangeRateBody{Rate: rate})
	}))

	r.Put("/settings/exchange-rate", s.handle(func(w http.ResponseWriter, r *http.Request) error {
		var req exchangeRateBody
		if err := s.decodeBody(w, r, &req); err != nil {
			return err
		}
		if err := s.deps.Rates.Set(r.Context(), req.Rate); err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, req)
	}))
}
