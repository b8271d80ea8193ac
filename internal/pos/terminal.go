package pos

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
)

type CartLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Color     string          `json:"color"`
	Stock     int             `json:"stock"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartView is a read-only rendering of an open cart priced at the current rate.
type CartView struct {
	ID           uuid.UUID       `json:"id"`
	Kind         Kind            `json:"kind"`
	Lines        []CartLine      `json:"lines"`
	Units        int             `json:"units"`
	Total        decimal.Decimal `json:"total"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	InFlight     bool            `json:"in_flight"`
	CreatedAt    time.Time       `json:"created_at"`
}

type cartSession struct {
	id        uuid.UUID
	owner     uuid.UUID
	cart      *Cart
	inFlight  bool
	createdAt time.Time
	lastUsed  time.Time
}

// Terminal keeps the open carts of every signed-in employee. A cart belongs to the
// session that opened it. While a checkout is in flight the cart refuses edits and
// further checkouts. A checked out cart is cleared and stays open until discarded
// or evicted as idle.
type Terminal struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*cartSession

	catalogs  *Catalogs
	committer *Committer
	rates     *Rates
}

func NewTerminal(catalogs *Catalogs, committer *Committer, rates *Rates) *Terminal {
	return &Terminal{
		sessions:  make(map[uuid.UUID]*cartSession),
		catalogs:  catalogs,
		committer: committer,
		rates:     rates,
	}
}

func (t *Terminal) Open(ctx context.Context, owner uuid.UUID, kind Kind) (CartView, error) {
	if owner == uuid.Nil {
		return CartView{}, apperr.ErrEmployeeRequired
	}

	rate, err := t.rates.Get(ctx)
	if err != nil {
		return CartView{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return CartView{}, err
	}

	sess := &cartSession{
		id:        id,
		owner:     owner,
		cart:      NewCart(kind),
		createdAt: time.Now(),
	}
	sess.lastUsed = sess.createdAt

	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[id] = sess

	return sess.view(rate), nil
}

// List returns the carts opened by owner, oldest first.
func (t *Terminal) List(ctx context.Context, owner uuid.UUID) ([]CartView, error) {
	rate, err := t.rates.Get(ctx)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	views := make([]CartView, 0)
	for _, sess := range t.sessions {
		if sess.owner == owner {
			views = append(views, sess.view(rate))
		}
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].CreatedAt.Before(views[j].CreatedAt)
	})

	return views, nil
}

func (t *Terminal) Get(ctx context.Context, owner, cartID uuid.UUID) (CartView, error) {
	rate, err := t.rates.Get(ctx)
	if err != nil {
		return CartView{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	sess, err := t.lookup(owner, cartID)
	if err != nil {
		return CartView{}, err
	}

	return sess.view(rate), nil
}

// Discard forgets the cart. A checkout still in flight completes but no longer
// touches it.
func (t *Terminal) Discard(owner, cartID uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.lookup(owner, cartID); err != nil {
		return err
	}
	delete(t.sessions, cartID)

	return nil
}

// EvictIdle drops carts nobody touched for maxIdle as of now. Carts with a checkout
// in flight are kept. It returns the number of carts dropped.
func (t *Terminal) EvictIdle(now time.Time, maxIdle time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	evicted := 0
	for id, sess := range t.sessions {
		if sess.inFlight || now.Sub(sess.lastUsed) < maxIdle {
			continue
		}
		delete(t.sessions, id)
		evicted++
	}

	return evicted
}

func (t *Terminal) AddProduct(ctx context.Context, owner, cartID, productID uuid.UUID) (CartView, error) {
	return t.edit(ctx, owner, cartID, func(cart *Cart) error {
		p, ok := t.catalogs.For(cart.Kind()).FindByID(productID)
		if !ok {
			return apperr.ErrProductNotFound
		}
		return cart.AddProduct(p)
	})
}

// AddByCode adds the product whose barcode or mei code equals code.
func (t *Terminal) AddByCode(ctx context.Context, owner, cartID uuid.UUID, code string) (CartView, error) {
	return t.edit(ctx, owner, cartID, func(cart *Cart) error {
		p, err := t.catalogs.For(cart.Kind()).LookupByCode(code)
		if err != nil {
			return err
		}
		return cart.AddProduct(p)
	})
}

func (t *Terminal) SetQuantity(ctx context.Context, owner, cartID, productID uuid.UUID, qty int) (CartView, error) {
	return t.edit(ctx, owner, cartID, func(cart *Cart) error {
		return cart.SetQuantity(productID, qty)
	})
}

func (t *Terminal) Remove(ctx context.Context, owner, cartID, productID uuid.UUID) (CartView, error) {
	return t.edit(ctx, owner, cartID, func(cart *Cart) error {
		cart.RemoveLineItem(productID)
		return nil
	})
}

func (t *Terminal) Clear(ctx context.Context, owner, cartID uuid.UUID) (CartView, error) {
	return t.edit(ctx, owner, cartID, func(cart *Cart) error {
		cart.Clear()
		return nil
	})
}

func (t *Terminal) CheckoutSale(
	ctx context.Context,
	owner, cartID uuid.UUID,
	method model.PaymentMethod,
) (Receipt, error) {
	return t.checkout(owner, cartID, func(cart *Cart) (Receipt, error) {
		return t.committer.CommitSale(ctx, cart, owner, method)
	})
}

func (t *Terminal) CheckoutTransfer(
	ctx context.Context,
	owner, cartID uuid.UUID,
	fromStoreID, toStoreID uuid.UUID,
) (Receipt, error) {
	return t.checkout(owner, cartID, func(cart *Cart) (Receipt, error) {
		return t.committer.CommitTransfer(ctx, cart, owner, fromStoreID, toStoreID)
	})
}

// checkout commits a copy of the cart outside the lock. The live cart is cleared
// only on success and only if it was not discarded meanwhile.
func (t *Terminal) checkout(owner, cartID uuid.UUID, commit func(*Cart) (Receipt, error)) (Receipt, error) {
	t.mu.Lock()
	sess, err := t.lookup(owner, cartID)
	if err != nil {
		t.mu.Unlock()
		return Receipt{}, err
	}
	if sess.inFlight {
		t.mu.Unlock()
		return Receipt{}, apperr.ErrCommitInFlight
	}
	sess.inFlight = true
	snapshot := sess.cart.Clone()
	t.mu.Unlock()

	receipt, err := commit(snapshot)

	t.mu.Lock()
	defer t.mu.Unlock()
	sess.inFlight = false
	if err != nil {
		return Receipt{}, err
	}
	if t.sessions[cartID] == sess {
		sess.cart.Clear()
	}

	return receipt, nil
}

func (t *Terminal) edit(ctx context.Context, owner, cartID uuid.UUID, fn func(*Cart) error) (CartView, error) {
	rate, err := t.rates.Get(ctx)
	if err != nil {
		return CartView{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	sess, err := t.lookup(owner, cartID)
	if err != nil {
		return CartView{}, err
	}
	if sess.inFlight {
		return CartView{}, apperr.ErrCommitInFlight
	}
	if err := fn(sess.cart); err != nil {
		return CartView{}, err
	}

	return sess.view(rate), nil
}

// lookup must be called with t.mu held. A successful lookup counts as use.
func (t *Terminal) lookup(owner, cartID uuid.UUID) (*cartSession, error) {
	sess, ok := t.sessions[cartID]
	if !ok {
		return nil, apperr.ErrCartNotFound
	}
	if sess.owner != owner {
		return nil, apperr.ErrCartNotOwned
	}
	sess.lastUsed = time.Now()
	return sess, nil
}

func (s *cartSession) view(rate decimal.Decimal) CartView {
	items := s.cart.Items()
	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, CartLine{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Color:     it.Product.Color,
			Stock:     it.Product.StockQuantity,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice(rate),
			Subtotal:  it.Subtotal(rate),
		})
	}

	total := decimal.Zero
	if s.cart.Kind() == KindSale {
		total = s.cart.Total(rate)
	}

	return CartView{
		ID:           s.id,
		Kind:         s.cart.Kind(),
		Lines:        lines,
		Units:        s.cart.Units(),
		Total:        total,
		ExchangeRate: rate,
		InFlight:     s.inFlight,
		CreatedAt:    s.createdAt,
	}
}
