package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/pos"
)

type openCartRequest struct {
	Kind string `json:"kind" validate:"required,oneof=sale transfer"`
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type scanRequest struct {
	Code string `json:"code" validate:"required,max=64,scancode"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// checkoutRequest carries the fields of either checkout kind. Which ones are
// required depends on the cart.
type checkoutRequest struct {
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	FromStoreID   uuid.UUID           `json:"from_store_id"`
	ToStoreID     uuid.UUID           `json:"to_store_id"`
}

func (s *Service) registerCartRoutes(r chi.Router) {
	r.Route("/carts", func(r chi.Router) {
		r.Post("/", s.handle(s.openCart))
		r.Get("/", s.handle(s.listCarts))

		r.Route("/{cartID}", func(r chi.Router) {
			r.Get("/", s.handle(s.cartAction(func(_ http.ResponseWriter, r *http.Request, owner, cartID uuid.UUID) (pos.CartView, error) {
				return s.deps.Terminal.Get(r.Context(), owner, cartID)
			})))
			r.Delete("/", s.handle(s.discardCart))
			r.Post("/items", s.handle(s.cartAction(s.addItem)))
			r.Delete("/items", s.handle(s.cartAction(func(_ http.ResponseWriter, r *http.Request, owner, cartID uuid.UUID) (pos.CartView, error) {
				return s.deps.Terminal.Clear(r.Context(), owner, cartID)
			})))
			r.Post("/scan", s.handle(s.cartAction(s.scanItem)))
			r.Put("/items/{productID}", s.handle(s.cartAction(s.setQuantity)))
			r.Delete("/items/{productID}", s.handle(s.cartAction(s.removeItem)))
			r.Post("/checkout", s.handle(s.checkout))
		})
	})
}

func (s *Service) openCart(w http.ResponseWriter, r *http.Request) error {
	session, err := sessionOf(r)
	if err != nil {
		return err
	}

	var req openCartRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		return err
	}

	var kind pos.Kind
	if err := kind.UnmarshalText([]byte(req.Kind)); err != nil {
		return err
	}

	view, err := s.deps.Terminal.Open(r.Context(), session.EmployeeID, kind)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, view)
}

func (s *Service) listCarts(w http.ResponseWriter, r *http.Request) error {
	session, err := sessionOf(r)
	if err != nil {
		return err
	}

	views, err := s.deps.Terminal.List(r.Context(), session.EmployeeID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, views)
}

func (s *Service) discardCart(w http.ResponseWriter, r *http.Request) error {
	session, err := sessionOf(r)
	if err != nil {
		return err
	}
	cartID, err := pathUUID(r, "cartID")
	if err != nil {
		return err
	}

	if err := s.deps.Terminal.Discard(session.EmployeeID, cartID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

type cartActionFunc func(w http.ResponseWriter, r *http.Request, owner, cartID uuid.UUID) (pos.CartView, error)

// cartAction resolves the session and cart id, runs fn and renders the cart.
func (s *Service) cartAction(fn cartActionFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		session, err := sessionOf(r)
		if err != nil {
			return err
		}
		cartID, err := pathUUID(r, "cartID")
		if err != nil {
			return err
		}

		view, err := fn(w, r, session.EmployeeID, cartID)
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, view)
	}
}

func (s *Service) addItem(w http.ResponseWriter, r *http.Request, owner, cartID uuid.UUID) (pos.CartView, error) {
	var req addItemRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		return pos.CartView{}, err
	}
	return s.deps.Terminal.AddProduct(r.Context(), owner, cartID, req.ProductID)
}

func (s *Service) scanItem(w http.ResponseWriter, r *http.Request, owner, cartID uuid.UUID) (pos.CartView, error) {
	var req scanRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		return pos.CartView{}, err
	}
	return s.deps.Terminal.AddByCode(r.Context(), owner, cartID, req.Code)
}

func (s *Service) setQuantity(w http.ResponseWriter, r *http.Request, owner, cartID uuid.UUID) (pos.CartView, error) {
	productID, err := pathUUID(r, "productID")
	if err != nil {
		return pos.CartView{}, err
	}

	var req setQuantityRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		return pos.CartView{}, err
	}
	return s.deps.Terminal.SetQuantity(r.Context(), owner, cartID, productID, req.Quantity)
}

func (s *Service) removeItem(_ http.ResponseWriter, r *http.Request, owner, cartID uuid.UUID) (pos.CartView, error) {
	productID, err := pathUUID(r, "productID")
	if err != nil {
		return pos.CartView{}, err
	}
	return s.deps.Terminal.Remove(r.Context(), owner, cartID, productID)
}

func (s *Service) checkout(w http.ResponseWriter, r *http.Request) error {
	session, err := sessionOf(r)
	if err != nil {
		return err
	}
	cartID, err := pathUUID(r, "cartID")
	if err != nil {
		return err
	}

	var req checkoutRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		return err
	}

	view, err := s.deps.Terminal.Get(r.Context(), session.EmployeeID, cartID)
	if err != nil {
		return err
	}

	var receipt pos.Receipt
	switch view.Kind {
	case pos.KindTransfer:
		receipt, err = s.deps.Terminal.CheckoutTransfer(r.Context(), session.EmployeeID, cartID, req.FromStoreID, req.ToStoreID)
	default:
		receipt, err = s.deps.Terminal.CheckoutSale(r.Context(), session.EmployeeID, cartID, req.PaymentMethod)
	}
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, receipt)
}
