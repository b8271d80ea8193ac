package model

import (
	"time"

	"github.com/google/uuid"
)

type Transfer struct {
	ID          uuid.UUID    `json:"id"`
	EmployeeID  uuid.UUID    `json:"employee_id"`
	FromStoreID uuid.UUID    `json:"from_store_id"`
	ToStoreID   uuid.UUID    `json:"to_store_id"`
	Status      CommitStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}

type TransferItem struct {
	TransferID uuid.UUID `json:"transfer_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Quantity   int       `json:"quantity"`
}

// TransferRecord is a transfer enriched with store, employee and product names.
type TransferRecord struct {
	ID           uuid.UUID            `json:"id"`
	CreatedAt    time.Time            `json:"created_at"`
	FromStore    string               `json:"from_store"`
	ToStore      string               `json:"to_store"`
	EmployeeName string               `json:"employee_name"`
	Status       CommitStatus         `json:"status"`
	Lines        []TransferRecordLine `json:"lines"`
}

type TransferRecordLine struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
}
