package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending   PurchaseOrderStatus = "pending"
	PurchaseOrderStatusApproved  PurchaseOrderStatus = "approved"
	PurchaseOrderStatusCompleted PurchaseOrderStatus = "completed"
)

func (s PurchaseOrderStatus) Validate() error {
	switch s {
	case PurchaseOrderStatusPending, PurchaseOrderStatusApproved, PurchaseOrderStatusCompleted:
		return nil
	default:
		return fmt.Errorf("invalid purchase order status: %q", string(s))
	}
}

// CanTransitionTo reports whether the order may move to next.
// Orders only move forward: pending -> approved -> completed.
func (s PurchaseOrderStatus) CanTransitionTo(next PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusPending:
		return next == PurchaseOrderStatusApproved
	case PurchaseOrderStatusApproved:
		return next == PurchaseOrderStatusCompleted
	default:
		return false
	}
}

type PurchaseOrder struct {
	ID          uuid.UUID           `json:"id"`
	SupplierID  uuid.UUID           `json:"supplier_id"`
	Status      PurchaseOrderStatus `json:"status"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Items       []PurchaseOrderItem `json:"items"`
	OrderDate   time.Time           `json:"order_date"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type PurchaseOrderItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ComputeTotal sums quantity x unit price over all items.
func (o PurchaseOrder) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
