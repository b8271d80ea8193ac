package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuanvumaihuynh/retail-pos/internal/service"
)

type supplierRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100,alphanumspace"`
	LastName  string `json:"last_name" validate:"max=100,alphanumspace"`
	Phone     string `json:"phone" validate:"max=32"`
}

func (s *Service) registerSupplierRoutes(r chi.Router) {
	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", s.handle(s.listSuppliers))
		r.Post("/", s.handle(s.createSupplier))
		r.Get("/{supplierID}", s.handle(s.getSupplier))
		r.Put("/{supplierID}", s.handle(s.updateSupplier))
		r.Delete("/{supplierID}", s.handle(s.deleteSupplier))
	})
}

func (s *Service) listSuppliers(w http.ResponseWriter, r *http.Request) error {
	suppliers, err := s.deps.Suppliers.ListSuppliers(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, suppliers)
}

func (s *Service) createSupplier(w http.ResponseWriter, r *http.Request) error {
	var req supplierRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		return err
	}

	supplier, err := s.deps.Suppliers.CreateSupplier(r.Context(), service.SupplierParams(req))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, supplier)
}

func (s *Service) getSupplier(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "supplierID")
	if err != nil {
		return err
	}

	supplier, err := s.deps.Suppliers.GetSupplier(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, supplier)
}

func (s *Service) updateSupplier(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "supplierID")
	if err != nil {
		return err
	}

	var req supplierRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		return err
	}

	supplier, err := s.deps.Suppliers.UpdateSupplier(r.Context(), id, service.SupplierParams(req))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, supplier)
}

func (s *Service) deleteSupplier(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "supplierID")
	if err != nil {
		return err
	}

	if err := s.deps.Suppliers.DeleteSupplier(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
