package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/service"
)

type purchaseOrderItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type createPurchaseOrderRequest struct {
	SupplierID uuid.UUID                  `json:"supplier_id" validate:"required"`
	Items      []purchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type purchaseOrderStatusRequest struct {
	Status model.PurchaseOrderStatus `json:"status" validate:"required,enum"`
}

func (s *Service) registerPurchaseOrderRoutes(r chi.Router) {
	r.Route("/purchase-orders", func(r chi.Router) {
		r.Get("/", s.handle(s.listPurchaseOrders))
		r.Post("/", s.handle(s.createPurchaseOrder))
		r.Get("/{orderID}", s.handle(s.getPurchaseOrder))
		r.Put("/{orderID}/status", s.handle(s.updatePurchaseOrderStatus))
	})
}

func (s *Service) listPurchaseOrders(w http.ResponseWriter, r *http.Request) error {
	orders, err := s.deps.PurchaseOrders.ListPurchaseOrders(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, orders)
}

func (s *Service) createPurchaseOrder(w http.ResponseWriter, r *http.Request) error {
	var req createPurchaseOrderRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		return err
	}

	items := make([]model.PurchaseOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.PurchaseOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	order, err := s.deps.PurchaseOrders.CreatePurchaseOrder(r.Context(), service.CreatePurchaseOrderParams{
		SupplierID: req.SupplierID,
		Items:      items,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, order)
}

func (s *Service) getPurchaseOrder(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "orderID")
	if err != nil {
		return err
	}

	order, err := s.deps.PurchaseOrders.GetPurchaseOrder(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, order)
}

func (s *Service) updatePurchaseOrderStatus(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "orderID")
	if err != nil {
		return err
	}

	var req purchaseOrderStatusRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		return err
	}

	order, err := s.deps.PurchaseOrders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, order)
}
