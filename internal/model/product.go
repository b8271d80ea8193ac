package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable unit. CostPrice is quoted in the foreign reference currency,
// Markup is a flat amount in local currency added per unit.
type Product struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Color         string          `json:"color"`
	Barcode       string          `json:"barcode"`
	MeiCode1      string          `json:"mei_code1"`
	MeiCode2      string          `json:"mei_code2"`
	ImageURL      string          `json:"image_url"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	Markup        decimal.Decimal `json:"markup"`
	StockQuantity int             `json:"stock_quantity"`
	StoreID       *uuid.UUID      `json:"store_id"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Codes returns the non-empty scannable codes of the product.
func (p Product) Codes() []string {
	codes := make([]string, 0, 3)
	for _, c := range []string{p.Barcode, p.MeiCode1, p.MeiCode2} {
		if c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

// InStore reports whether the product is assigned to the given store.
func (p Product) InStore(storeID uuid.UUID) bool {
	return p.StoreID != nil && *p.StoreID == storeID
}
