package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tuanvumaihuynh/retail-pos/internal/event"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/pos"
	"github.com/tuanvumaihuynh/retail-pos/internal/repository"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/db"
)

var _ pos.Writer = (*ProcedureWriter)(nil)

// ProcedureWriter commits each sale or transfer with a single stored procedure call.
// The procedure and the commit event share one transaction, so either both land or
// neither does.
type ProcedureWriter struct {
	db            db.DB
	saleRepo      repository.SaleRepository
	transferRepo  repository.TransferRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewProcedureWriter(
	db db.DB,
	saleRepo repository.SaleRepository,
	transferRepo repository.TransferRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) *ProcedureWriter {
	return &ProcedureWriter{
		db:            db,
		saleRepo:      saleRepo,
		transferRepo:  transferRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (w *ProcedureWriter) WriteSale(ctx context.Context, draft pos.SaleDraft) error {
	sale := model.Sale{
		ID:            draft.ID,
		EmployeeID:    draft.EmployeeID,
		PaymentMethod: draft.PaymentMethod,
		Total:         draft.Total,
		ItemCount:     draft.ItemCount,
		Status:        model.CommitStatusCompleted,
		CreatedAt:     time.Now(),
	}
	items := make([]model.SaleItem, 0, len(draft.Lines))
	for _, l := range draft.Lines {
		items = append(items, model.SaleItem{
			SaleID:    draft.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	if err := w.db.WithTx(ctx, func(db db.DB) error {
		if err := w.saleRepo.
			WithDB(db).
			InsertSale(ctx, sale, items); err != nil {
			return fmt.Errorf("sale repository insert sale: %w", err)
		}

		return writeOutbox(ctx, db, w.outboxMsgRepo,
			event.TopicSaleCommitted, draft.ID.String(), saleCommittedEvent(draft))
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	return nil
}

func (w *ProcedureWriter) WriteTransfer(ctx context.Context, draft pos.TransferDraft) error {
	transfer := model.Transfer{
		ID:          draft.ID,
		EmployeeID:  draft.EmployeeID,
		FromStoreID: draft.FromStoreID,
		ToStoreID:   draft.ToStoreID,
		Status:      model.CommitStatusCompleted,
		CreatedAt:   time.Now(),
	}

	if err := w.db.WithTx(ctx, func(db db.DB) error {
		if err := w.transferRepo.
			WithDB(db).
			InsertTransfer(ctx, transfer, productIDs(draft.Lines)); err != nil {
			return fmt.Errorf("transfer repository insert transfer: %w", err)
		}

		return writeOutbox(ctx, db, w.outboxMsgRepo,
			event.TopicTransferCommitted, draft.ID.String(), transferCommittedEvent(draft))
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	return nil
}
