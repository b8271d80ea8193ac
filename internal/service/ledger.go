package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/retail-pos/internal/event"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/pos"
	"github.com/tuanvumaihuynh/retail-pos/internal/repository"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/db"
)

var (
	_ pos.SaleLedger     = (*Ledger)(nil)
	_ pos.TransferLedger = (*Ledger)(nil)
	_ pos.StockLedger    = (*Ledger)(nil)
	_ pos.EventRecorder  = (*Ledger)(nil)
)

// Ledger exposes single-row writes for the orchestrated commit. Every call is
// its own round trip; nothing here opens a transaction.
type Ledger struct {
	db            db.DB
	saleRepo      repository.SaleRepository
	transferRepo  repository.TransferRepository
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewLedger(
	db db.DB,
	saleRepo repository.SaleRepository,
	transferRepo repository.TransferRepository,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) *Ledger {
	return &Ledger{
		db:            db,
		saleRepo:      saleRepo,
		transferRepo:  transferRepo,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (l *Ledger) InsertSaleHeader(ctx context.Context, draft pos.SaleDraft) error {
	return l.saleRepo.CreateSale(ctx, model.Sale{
		ID:            draft.ID,
		EmployeeID:    draft.EmployeeID,
		PaymentMethod: draft.PaymentMethod,
		Total:         draft.Total,
		ItemCount:     draft.ItemCount,
		Status:        model.CommitStatusCompleted,
		CreatedAt:     time.Now(),
	})
}

func (l *Ledger) InsertSaleItem(ctx context.Context, saleID uuid.UUID, line pos.DraftLine) error {
	return l.saleRepo.CreateSaleItem(ctx, model.SaleItem{
		SaleID:    saleID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
	})
}

func (l *Ledger) DeleteSaleItems(ctx context.Context, saleID uuid.UUID) error {
	return l.saleRepo.DeleteSaleItems(ctx, saleID)
}

func (l *Ledger) DeleteSale(ctx context.Context, saleID uuid.UUID) error {
	return l.saleRepo.DeleteSale(ctx, saleID)
}

func (l *Ledger) MarkSaleIncomplete(ctx context.Context, saleID uuid.UUID) error {
	return l.saleRepo.UpdateSaleStatus(ctx, saleID, model.CommitStatusIncomplete)
}

func (l *Ledger) InsertTransferHeader(ctx context.Context, draft pos.TransferDraft) error {
	return l.transferRepo.CreateTransfer(ctx, model.Transfer{
		ID:          draft.ID,
		EmployeeID:  draft.EmployeeID,
		FromStoreID: draft.FromStoreID,
		ToStoreID:   draft.ToStoreID,
		Status:      model.CommitStatusCompleted,
		CreatedAt:   time.Now(),
	})
}

func (l *Ledger) InsertTransferItem(ctx context.Context, transferID uuid.UUID, line pos.DraftLine) error {
	return l.transferRepo.CreateTransferItem(ctx, model.TransferItem{
		TransferID: transferID,
		ProductID:  line.ProductID,
		Quantity:   line.Quantity,
	})
}

func (l *Ledger) DeleteTransferItems(ctx context.Context, transferID uuid.UUID) error {
	return l.transferRepo.DeleteTransferItems(ctx, transferID)
}

func (l *Ledger) DeleteTransfer(ctx context.Context, transferID uuid.UUID) error {
	return l.transferRepo.DeleteTransfer(ctx, transferID)
}

func (l *Ledger) MarkTransferIncomplete(ctx context.Context, transferID uuid.UUID) error {
	return l.transferRepo.UpdateTransferStatus(ctx, transferID, model.CommitStatusIncomplete)
}

func (l *Ledger) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error) {
	return l.productRepo.DecrementStock(ctx, productID, qty)
}

func (l *Ledger) IncrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	return l.productRepo.IncrementStock(ctx, productID, qty)
}

func (l *Ledger) ReassignStore(
	ctx context.Context, productID, fromStoreID, toStoreID uuid.UUID,
) (*uuid.UUID, bool, error) {
	return l.productRepo.ReassignStore(ctx, productID, fromStoreID, toStoreID)
}

func (l *Ledger) RestoreStore(
	ctx context.Context, productID, currentStoreID uuid.UUID, prevStoreID *uuid.UUID,
) (bool, error) {
	return l.productRepo.RestoreStore(ctx, productID, currentStoreID, prevStoreID)
}

func (l *Ledger) SaleCommitted(ctx context.Context, draft pos.SaleDraft) error {
	if err := writeOutbox(ctx, l.db, l.outboxMsgRepo,
		event.TopicSaleCommitted, draft.ID.String(), saleCommittedEvent(draft)); err != nil {
		return fmt.Errorf("record sale committed: %w", err)
	}
	return nil
}

func (l *Ledger) TransferCommitted(ctx context.Context, draft pos.TransferDraft) error {
	if err := writeOutbox(ctx, l.db, l.outboxMsgRepo,
		event.TopicTransferCommitted, draft.ID.String(), transferCommittedEvent(draft)); err != nil {
		return fmt.Errorf("record transfer committed: %w", err)
	}
	return nil
}
