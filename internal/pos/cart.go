package pos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
)

// LineItem is one product in a cart. Product is the catalog snapshot taken when the
// item was last added and carries the price inputs and the stock bound.
type LineItem struct {
	Product  model.Product
	Quantity int
}

// UnitPrice returns the exact local price of one unit, unrounded.
func (li LineItem) UnitPrice(rate decimal.Decimal) decimal.Decimal {
	return UnitPrice(li.Product, rate)
}

// Subtotal returns the exact local price of the line, unrounded.
func (li LineItem) Subtotal(rate decimal.Decimal) decimal.Decimal {
	return li.UnitPrice(rate).Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// UnitPrice converts the foreign unit cost with rate and adds the local markup.
func UnitPrice(p model.Product, rate decimal.Decimal) decimal.Decimal {
	return p.CostPrice.Mul(rate).Add(p.Markup)
}

// RoundLocal rounds an amount to whole units of local currency, half away from zero.
func RoundLocal(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(0)
}

// Cart is an ordered list of line items, de-duplicated by product, for one sale or
// transfer being assembled. It never touches the network. A Cart is not safe for
// concurrent use; Terminal serialises access.
type Cart struct {
	kind  Kind
	items []LineItem
}

func NewCart(kind Kind) *Cart {
	return &Cart{kind: kind}
}

func (c *Cart) Kind() Kind { return c.kind }

// AddProduct adds one unit of p.
//
// In a sale cart an existing line is incremented, bounded by p's stock; a refused
// increment returns apperr.ErrStockLimit and leaves the cart unchanged. In a transfer
// cart adding a product that is already present does nothing.
func (c *Cart) AddProduct(p model.Product) error {
	i := c.indexOf(p.ID)

	if c.kind == KindTransfer {
		if i < 0 {
			c.items = append(c.items, LineItem{Product: p, Quantity: 1})
		}
		return nil
	}

	if i < 0 {
		if p.StockQuantity < 1 {
			return apperr.ErrStockLimit
		}
		c.items = append(c.items, LineItem{Product: p, Quantity: 1})
		return nil
	}

	if c.items[i].Quantity+1 > p.StockQuantity {
		return apperr.ErrStockLimit
	}
	c.items[i].Product = p
	c.items[i].Quantity++
	return nil
}

// SetQuantity sets the quantity of an existing line. Quantities below one are ignored;
// removal goes through RemoveLineItem. Quantities above stock are refused, not clamped.
func (c *Cart) SetQuantity(productID uuid.UUID, qty int) error {
	if qty < 1 {
		return nil
	}

	i := c.indexOf(productID)
	if i < 0 {
		return apperr.ErrLineItemNotFound
	}

	if c.kind == KindTransfer {
		if qty != 1 {
			return apperr.ErrInvalidQuantity.WithMsg("transfer lines always move a single unit")
		}
		return nil
	}

	if qty > c.items[i].Product.StockQuantity {
		return apperr.ErrStockLimit
	}
	c.items[i].Quantity = qty
	return nil
}

// RemoveLineItem drops the line for productID. Unknown ids are ignored.
func (c *Cart) RemoveLineItem(productID uuid.UUID) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
}

func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int { return len(c.items) }

func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }

// Units is the total number of units across all lines.
func (c *Cart) Units() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Subtotal is the exact, unrounded sum of all lines.
func (c *Cart) Subtotal(rate decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.items {
		sum = sum.Add(it.Subtotal(rate))
	}
	return sum
}

// Total is Subtotal rounded once to whole local currency. Line and unit prices are
// never rounded before summing.
func (c *Cart) Total(rate decimal.Decimal) decimal.Decimal {
	return RoundLocal(c.Subtotal(rate))
}

// Clone returns an independent copy of the cart.
func (c *Cart) Clone() *Cart {
	return &Cart{kind: c.kind, items: c.Items()}
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	for i, it := range c.items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}
