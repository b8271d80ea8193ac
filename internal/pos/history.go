package pos

import (
	"context"
	"fmt"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
)

const MaxPageLimit = 100

// HistorySource returns committed records newest first.
type HistorySource interface {
	ListSales(ctx context.Context, limit, offset int) ([]model.SaleRecord, error)
	ListTransfers(ctx context.Context, limit, offset int) ([]model.TransferRecord, error)
}

// Page is one window of history. HasMore is a heuristic: a full page means there
// may be more, a short page means there is not.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// Next is the offset of the following page.
func (p Page[T]) Next() int {
	return p.Offset + p.Limit
}

// Prev is the offset of the preceding page, never below zero.
func (p Page[T]) Prev() int {
	return max(0, p.Offset-p.Limit)
}

type History struct {
	source HistorySource
}

func NewHistory(source HistorySource) *History {
	return &History{source: source}
}

func (h *History) SalesPage(ctx context.Context, limit, offset int) (Page[model.SaleRecord], error) {
	return page(ctx, limit, offset, h.source.ListSales)
}

func (h *History) TransfersPage(ctx context.Context, limit, offset int) (Page[model.TransferRecord], error) {
	return page(ctx, limit, offset, h.source.ListTransfers)
}

func page[T any](
	ctx context.Context,
	limit, offset int,
	list func(ctx context.Context, limit, offset int) ([]T, error),
) (Page[T], error) {
	if limit < 1 || limit > MaxPageLimit {
		return Page[T]{}, apperr.ErrInvalidPage
	}
	offset = max(0, offset)

	items, err := list(ctx, limit, offset)
	if err != nil {
		return Page[T]{}, apperr.ErrDataAccess.WrapParent(fmt.Errorf("list history page: %w", err))
	}
	if items == nil {
		items = []T{}
	}

	return Page[T]{
		Items:   items,
		Limit:   limit,
		Offset:  offset,
		HasMore: len(items) == limit,
	}, nil
}
