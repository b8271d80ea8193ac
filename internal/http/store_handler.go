package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuanvumaihuynh/retail-pos/internal/service"
)

type storeRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Address string `json:"address" validate:"max=512"`
}

func (s *Service) registerStoreRoutes(r chi.Router) {
	r.Route("/stores", func(r chi.Router) {
		r.Get("/", s.handle(s.listStores))
		r.Post("/", s.handle(s.createStore))
		r.Get("/{storeID}", s.handle(s.getStore))
		r.Put("/{storeID}", s.handle(s.updateStore))
		r.Delete("/{storeID}", s.handle(s.deleteStore))
		r.Get("/{storeID}/products", s.handle(s.listStoreProducts))
	})
}

func (s *Service) listStores(w http.ResponseWriter, r *http.Request) error {
	stores, err := s.deps.Stores.ListStores(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, stores)
}

func (s *Service) createStore(w http.ResponseWriter, r *http.Request) error {
	var req storeRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		return err
	}

	store, err := s.deps.Stores.CreateStore(r.Context(), service.StoreParams{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, store)
}

func (s *Service) getStore(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "storeID")
	if err != nil {
		return err
	}

	store, err := s.deps.Stores.GetStore(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, store)
}

func (s *Service) updateStore(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "storeID")
	if err != nil {
		return err
	}

	var req storeRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		return err
	}

	store, err := s.deps.Stores.UpdateStore(r.Context(), id, service.StoreParams{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, store)
}

func (s *Service) deleteStore(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "storeID")
	if err != nil {
		return err
	}

	if err := s.deps.Stores.DeleteStore(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Service) listStoreProducts(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "storeID")
	if err != nil {
		return err
	}

	products, err := s.deps.Stores.ListStoreProducts(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, products)
}
