package service

import (
	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/retail-pos/internal/event"
	"github.com/tuanvumaihuynh/retail-pos/internal/pos"
)

func saleCommittedEvent(draft pos.SaleDraft) event.SaleCommittedEvent {
	lines := make([]event.CommittedLine, 0, len(draft.Lines))
	for _, l := range draft.Lines {
		lines = append(lines, event.CommittedLine{
			ProductID: l.ProductID.String(),
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return event.SaleCommittedEvent{
		SaleID:        draft.ID.String(),
		EmployeeID:    draft.EmployeeID.String(),
		PaymentMethod: string(draft.PaymentMethod),
		Total:         draft.Total,
		ItemCount:     draft.ItemCount,
		Lines:         lines,
	}
}

func transferCommittedEvent(draft pos.TransferDraft) event.TransferCommittedEvent {
	ids := make([]string, 0, len(draft.Lines))
	for _, id := range productIDs(draft.Lines) {
		ids = append(ids, id.String())
	}
	return event.TransferCommittedEvent{
		TransferID:  draft.ID.String(),
		EmployeeID:  draft.EmployeeID.String(),
		FromStoreID: draft.FromStoreID.String(),
		ToStoreID:   draft.ToStoreID.String(),
		ProductIDs:  ids,
	}
}

func productIDs(lines []pos.DraftLine) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}
