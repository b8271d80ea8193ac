package event

import (
	"github.com/shopspring/decimal"
)

const (
	TopicSaleCommitted     = "sale.committed"
	TopicTransferCommitted = "transfer.committed"
	TopicCatalogChanged    = "catalog.changed"
)

// Topics lists every topic the event service consumes.
var Topics = []string{TopicSaleCommitted, TopicTransferCommitted, TopicCatalogChanged}

type CommittedLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type SaleCommittedEvent struct {
	SaleID        string          `json:"sale_id"`
	EmployeeID    string          `json:"employee_id"`
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
	Lines         []CommittedLine `json:"lines"`
}

type TransferCommittedEvent struct {
	TransferID  string   `json:"transfer_id"`
	EmployeeID  string   `json:"employee_id"`
	FromStoreID string   `json:"from_store_id"`
	ToStoreID   string   `json:"to_store_id"`
	ProductIDs  []string `json:"product_ids"`
}

type CatalogAction string

const (
	CatalogActionCreated CatalogAction = "created"
	CatalogActionUpdated CatalogAction = "updated"
	CatalogActionDeleted CatalogAction = "deleted"
	CatalogActionStocked CatalogAction = "stocked"
)

// CatalogChangedEvent tells snapshot holders that a product or store changed.
type CatalogChangedEvent struct {
	Entity   string        `json:"entity"`
	EntityID string        `json:"entity_id"`
	Action   CatalogAction `json:"action"`
}
