package pos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
)

// SaleLedger is the row-level access to sale headers and items.
type SaleLedger interface {
	InsertSaleHeader(ctx context.Context, draft SaleDraft) error
	InsertSaleItem(ctx context.Context, saleID uuid.UUID, line DraftLine) error
	DeleteSaleItems(ctx context.Context, saleID uuid.UUID) error
	DeleteSale(ctx context.Context, saleID uuid.UUID) error
	MarkSaleIncomplete(ctx context.Context, saleID uuid.UUID) error
}

// TransferLedger is the row-level access to transfer headers and items.
type TransferLedger interface {
	InsertTransferHeader(ctx context.Context, draft TransferDraft) error
	InsertTransferItem(ctx context.Context, transferID uuid.UUID, line DraftLine) error
	DeleteTransferItems(ctx context.Context, transferID uuid.UUID) error
	DeleteTransfer(ctx context.Context, transferID uuid.UUID) error
	MarkTransferIncomplete(ctx context.Context, transferID uuid.UUID) error
}

// StockLedger applies conditional stock writes. DecrementStock, ReassignStore and
// RestoreStore report false when the condition did not hold and no row changed.
// ReassignStore returns the store the product was in, nil meaning none.
type StockLedger interface {
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error)
	IncrementStock(ctx context.Context, productID uuid.UUID, qty int) error
	ReassignStore(ctx context.Context, productID, fromStoreID, toStoreID uuid.UUID) (*uuid.UUID, bool, error)
	RestoreStore(ctx context.Context, productID, currentStoreID uuid.UUID, prevStoreID *uuid.UUID) (bool, error)
}

// EventRecorder publishes commit notifications. Failures are logged, never returned.
type EventRecorder interface {
	SaleCommitted(ctx context.Context, draft SaleDraft) error
	TransferCommitted(ctx context.Context, draft TransferDraft) error
}

var _ Writer = (*OrchestratedWriter)(nil)

// OrchestratedWriter commits with one round trip per row: header, then line items,
// then stock. A failure after the header undoes the landed writes in reverse; if
// that fails too the header is marked incomplete and apperr.ErrPartialCommit is
// returned.
type OrchestratedWriter struct {
	sales     SaleLedger
	transfers TransferLedger
	stock     StockLedger
	events    EventRecorder
	logger    *slog.Logger
}

func NewOrchestratedWriter(
	sales SaleLedger,
	transfers TransferLedger,
	stock StockLedger,
	events EventRecorder,
	logger *slog.Logger,
) *OrchestratedWriter {
	return &OrchestratedWriter{
		sales:     sales,
		transfers: transfers,
		stock:     stock,
		events:    events,
		logger:    logger.With("service", "pos.OrchestratedWriter"),
	}
}

func (w *OrchestratedWriter) WriteSale(ctx context.Context, draft SaleDraft) error {
	if err := w.sales.InsertSaleHeader(ctx, draft); err != nil {
		return fmt.Errorf("insert sale header: %w", err)
	}

	var s saga
	s.push("delete sale header", func(ctx context.Context) error {
		return w.sales.DeleteSale(ctx, draft.ID)
	})

	for i, line := range draft.Lines {
		if err := w.sales.InsertSaleItem(ctx, draft.ID, line); err != nil {
			return w.abortSale(ctx, &s, draft.ID, fmt.Errorf("insert sale item: %w", err))
		}
		if i == 0 {
			s.push("delete sale items", func(ctx context.Context) error {
				return w.sales.DeleteSaleItems(ctx, draft.ID)
			})
		}
	}

	for _, line := range draft.Lines {
		ok, err := w.stock.DecrementStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return w.abortSale(ctx, &s, draft.ID, fmt.Errorf("decrement stock: %w", err))
		}
		if !ok {
			return w.abortSale(ctx, &s, draft.ID, apperr.ErrInsufficientStock.WithMsg(
				fmt.Sprintf("insufficient stock for product %s", line.ProductID)))
		}
		s.push("restore stock "+line.ProductID.String(), func(ctx context.Context) error {
			return w.stock.IncrementStock(ctx, line.ProductID, line.Quantity)
		})
	}

	if w.events != nil {
		if err := w.events.SaleCommitted(ctx, draft); err != nil {
			w.logger.WarnContext(ctx, "record sale committed event",
				slog.String("sale_id", draft.ID.String()),
				slog.Any("error", err),
			)
		}
	}

	return nil
}

func (w *OrchestratedWriter) WriteTransfer(ctx context.Context, draft TransferDraft) error {
	if err := w.transfers.InsertTransferHeader(ctx, draft); err != nil {
		return fmt.Errorf("insert transfer header: %w", err)
	}

	var s saga
	s.push("delete transfer header", func(ctx context.Context) error {
		return w.transfers.DeleteTransfer(ctx, draft.ID)
	})

	for i, line := range draft.Lines {
		if err := w.transfers.InsertTransferItem(ctx, draft.ID, line); err != nil {
			return w.abortTransfer(ctx, &s, draft.ID, fmt.Errorf("insert transfer item: %w", err))
		}
		if i == 0 {
			s.push("delete transfer items", func(ctx context.Context) error {
				return w.transfers.DeleteTransferItems(ctx, draft.ID)
			})
		}
	}

	for _, line := range draft.Lines {
		prev, ok, err := w.stock.ReassignStore(ctx, line.ProductID, draft.FromStoreID, draft.ToStoreID)
		if err != nil {
			return w.abortTransfer(ctx, &s, draft.ID, fmt.Errorf("reassign store: %w", err))
		}
		if !ok {
			return w.abortTransfer(ctx, &s, draft.ID, apperr.ErrBusinessRejection.WithMsg(
				fmt.Sprintf("product %s is not assigned to the source store", line.ProductID)))
		}
		s.push("move back "+line.ProductID.String(), func(ctx context.Context) error {
			ok, err := w.stock.RestoreStore(ctx, line.ProductID, draft.ToStoreID, prev)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("product %s is no longer in the destination store", line.ProductID)
			}
			return nil
		})
	}

	if w.events != nil {
		if err := w.events.TransferCommitted(ctx, draft); err != nil {
			w.logger.WarnContext(ctx, "record transfer committed event",
				slog.String("transfer_id", draft.ID.String()),
				slog.Any("error", err),
			)
		}
	}

	return nil
}

func (w *OrchestratedWriter) abortSale(ctx context.Context, s *saga, saleID uuid.UUID, cause error) error {
	rbErr := s.rollback(ctx)
	if rbErr == nil {
		return cause
	}

	markErr := w.sales.MarkSaleIncomplete(context.WithoutCancel(ctx), saleID)
	w.logger.ErrorContext(ctx, "partial commit: sale left incomplete",
		slog.String("sale_id", saleID.String()),
		slog.Any("cause", cause),
		slog.Any("compensation_error", rbErr),
		slog.Any("mark_error", markErr),
	)

	return apperr.ErrPartialCommit.WrapParent(errors.Join(cause, rbErr, markErr))
}

func (w *OrchestratedWriter) abortTransfer(ctx context.Context, s *saga, transferID uuid.UUID, cause error) error {
	rbErr := s.rollback(ctx)
	if rbErr == nil {
		return cause
	}

	markErr := w.transfers.MarkTransferIncomplete(context.WithoutCancel(ctx), transferID)
	w.logger.ErrorContext(ctx, "partial commit: transfer left incomplete",
		slog.String("transfer_id", transferID.String()),
		slog.Any("cause", cause),
		slog.Any("compensation_error", rbErr),
		slog.Any("mark_error", markErr),
	)

	return apperr.ErrPartialCommit.WrapParent(errors.Join(cause, rbErr, markErr))
}
