package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

// Validate is used by the "enum" validation tag.
func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer:
		return nil
	default:
		return fmt.Errorf("invalid payment method: %q", string(m))
	}
}

// CommitStatus marks whether every write of a transaction landed.
// Only client-orchestrated commits can leave a header incomplete.
type CommitStatus string

const (
	CommitStatusCompleted  CommitStatus = "completed"
	CommitStatusIncomplete CommitStatus = "incomplete"
)

type Sale struct {
	ID            uuid.UUID       `json:"id"`
	EmployeeID    uuid.UUID       `json:"employee_id"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
	Status        CommitStatus    `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type SaleItem struct {
	SaleID    uuid.UUID       `json:"sale_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SaleRecord is a sale enriched for history views.
type SaleRecord struct {
	ID            uuid.UUID        `json:"id"`
	CreatedAt     time.Time        `json:"created_at"`
	PaymentMethod PaymentMethod    `json:"payment_method"`
	Total         decimal.Decimal  `json:"total"`
	ItemCount     int              `json:"item_count"`
	Status        CommitStatus     `json:"status"`
	EmployeeName  string           `json:"employee_name"`
	Lines         []SaleRecordLine `json:"lines"`
}

type SaleRecordLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}
