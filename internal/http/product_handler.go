package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/service"
	"github.com/tuanvumaihuynh/retail-pos/pkg/ptr"
)

const (
	imageFormField    = "image"
	maxImageFormBytes = 10 << 20
)

type productRequest struct {
	Name          string          `json:"name" validate:"required,max=255"`
	Color         string          `json:"color" validate:"max=64"`
	Barcode       string          `json:"barcode" validate:"omitempty,max=64,scancode"`
	MeiCode1      string          `json:"mei_code1" validate:"omitempty,max=64,scancode"`
	MeiCode2      string          `json:"mei_code2" validate:"omitempty,max=64,scancode"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	Markup        decimal.Decimal `json:"markup"`
	StockQuantity int             `json:"stock_quantity" validate:"min=0"`
	StoreID       *uuid.UUID      `json:"store_id"`
}

type updateProductRequest struct {
	productRequest
	Active *bool `json:"active"`
}

func (s *Service) registerProductRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.handle(s.listProducts))
		r.Post("/", s.handle(s.createProduct))
		r.Get("/{productID}", s.handle(s.getProduct))
		r.Put("/{productID}", s.handle(s.updateProduct))
		r.Delete("/{productID}", s.handle(s.deleteProduct))
		r.Post("/{productID}/image", s.handle(s.uploadProductImage))
	})
}

func (s *Service) listProducts(w http.ResponseWriter, r *http.Request) error {
	storeID, err := queryUUID(r, "store_id")
	if err != nil {
		return err
	}

	var includeInactive *bool
	if err := bindQuery(r, "include_inactive", &includeInactive); err != nil {
		return err
	}
	code, err := queryString(r, "code", false)
	if err != nil {
		return err
	}

	products, err := s.deps.Products.ListProducts(r.Context(), service.ListProductsParams{
		StoreID:         storeID,
		IncludeInactive: ptr.Deref(includeInactive, false),
		Code:            code,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, products)
}

func (s *Service) createProduct(w http.ResponseWriter, r *http.Request) error {
	var req productRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		return err
	}

	product, err := s.deps.Products.CreateProduct(r.Context(), service.CreateProductParams{
		Name:          req.Name,
		Color:         req.Color,
		Barcode:       req.Barcode,
		MeiCode1:      req.MeiCode1,
		MeiCode2:      req.MeiCode2,
		CostPrice:     req.CostPrice,
		Markup:        req.Markup,
		StockQuantity: req.StockQuantity,
		StoreID:       req.StoreID,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, product)
}

func (s *Service) getProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "productID")
	if err != nil {
		return err
	}

	product, err := s.deps.Products.GetProduct(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, product)
}

func (s *Service) updateProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "productID")
	if err != nil {
		return err
	}

	var req updateProductRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		return err
	}

	// Omitting active keeps the product sellable.
	active := ptr.Deref(req.Active, true)

	product, err := s.deps.Products.UpdateProduct(r.Context(), id, service.UpdateProductParams{
		Name:          req.Name,
		Color:         req.Color,
		Barcode:       req.Barcode,
		MeiCode1:      req.MeiCode1,
		MeiCode2:      req.MeiCode2,
		CostPrice:     req.CostPrice,
		Markup:        req.Markup,
		StockQuantity: req.StockQuantity,
		StoreID:       req.StoreID,
		Active:        active,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, product)
}

func (s *Service) deleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "productID")
	if err != nil {
		return err
	}

	if err := s.deps.Products.DeleteProduct(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Service) uploadProductImage(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "productID")
	if err != nil {
		return err
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageFormBytes)
	if err := r.ParseMultipartForm(maxImageFormBytes); err != nil {
		return apperr.ErrInvalidImage.WithMsg("invalid multipart form: " + err.Error()).WrapParent(err)
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile(imageFormField)
	if err != nil {
		return apperr.ErrInvalidImage.WithMsg("missing form file " + imageFormField).WrapParent(err)
	}
	defer file.Close()

	product, err := s.deps.Products.UploadImage(r.Context(), id, header.Filename, file)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, product)
}
