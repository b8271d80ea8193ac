package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/pos"
)

type catalogProductsResponse struct {
	Mode     pos.Kind        `json:"mode"`
	Products []model.Product `json:"products"`
	LoadedAt time.Time       `json:"loaded_at"`
}

func (s *Service) registerCatalogRoutes(r chi.Router) {
	r.Get("/catalog/products", s.handle(s.searchCatalog))
	r.Get("/catalog/scan", s.handle(s.scanCatalog))
	r.Get("/catalog/stores", s.handle(func(w http.ResponseWriter, r *http.Request) error {
		return writeJSON(w, http.StatusOK, s.deps.Catalogs.For(pos.KindTransfer).Stores())
	}))
	r.Post("/catalog/reload", s.handle(func(w http.ResponseWriter, r *http.Request) error {
		if err := s.deps.Catalogs.Reload(r.Context()); err != nil {
			return err
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	}))
}

func catalogMode(r *http.Request) (pos.Kind, error) {
	raw, err := queryString(r, "mode", false)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return pos.KindSale, nil
	}

	var kind pos.Kind
	if err := kind.UnmarshalText([]byte(raw)); err != nil {
		return 0, apperr.ValidationErr.WithMsg("mode must be sale or transfer").WrapParent(err)
	}
	return kind, nil
}

// searchCatalog lists the snapshot, filtered when q is given.
func (s *Service) searchCatalog(w http.ResponseWriter, r *http.Request) error {
	kind, err := catalogMode(r)
	if err != nil {
		return err
	}
	q, err := queryString(r, "q", false)
	if err != nil {
		return err
	}

	catalog := s.deps.Catalogs.For(kind)
	products := catalog.Products()
	if q != "" {
		products = catalog.Search(q)
	}

	return writeJSON(w, http.StatusOK, catalogProductsResponse{
		Mode:     kind,
		Products: products,
		LoadedAt: catalog.LoadedAt(),
	})
}

func (s *Service) scanCatalog(w http.ResponseWriter, r *http.Request) error {
	kind, err := catalogMode(r)
	if err != nil {
		return err
	}
	code, err := queryString(r, "code", true)
	if err != nil {
		return err
	}

	product, err := s.deps.Catalogs.For(kind).LookupByCode(code)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, product)
}
