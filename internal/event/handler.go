package event

import (
	"context"
	"fmt"
	"log/slog"
)

func (s *Service) handleSaleCommitted(ctx context.Context, ev SaleCommittedEvent) error {
	s.logger.InfoContext(ctx, "handling sale committed event",
		slog.String("sale_id", ev.SaleID),
		slog.String("total", ev.Total.String()),
		slog.Int("item_count", ev.ItemCount),
	)
	return s.reload(ctx)
}

func (s *Service) handleTransferCommitted(ctx context.Context, ev TransferCommittedEvent) error {
	s.logger.InfoContext(ctx, "handling transfer committed event",
		slog.String("transfer_id", ev.TransferID),
		slog.String("from_store_id", ev.FromStoreID),
		slog.String("to_store_id", ev.ToStoreID),
	)
	return s.reload(ctx)
}

func (s *Service) handleCatalogChanged(ctx context.Context, ev CatalogChangedEvent) error {
	s.logger.InfoContext(ctx, "handling catalog changed event",
		slog.String("entity", ev.Entity),
		slog.String("entity_id", ev.EntityID),
		slog.String("action", string(ev.Action)),
	)
	return s.reload(ctx)
}

func (s *Service) reload(ctx context.Context) error {
	if err := s.reloader.Reload(ctx); err != nil {
		return fmt.Errorf("reload catalogs: %w", err)
	}
	return nil
}
