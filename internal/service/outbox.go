package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tuanvumaihuynh/retail-pos/internal/event"
	"github.com/tuanvumaihuynh/retail-pos/internal/repository"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/db"
	"github.com/tuanvumaihuynh/retail-pos/pkg/outbox"
	"github.com/tuanvumaihuynh/retail-pos/pkg/ptr"
)

// writeOutbox stores ev for the relay on the given db handle, usually a transaction.
func writeOutbox(
	ctx context.Context,
	db db.DB,
	repo repository.OutboxMsgRepository,
	topic, partitionKey string,
	ev any,
) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	if err := repo.
		WithDB(db).
		CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
			Topic:        topic,
			Headers:      outbox.BuildHeaders(ctx),
			Payload:      payload,
			PartitionKey: ptr.New(partitionKey),
		}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}

func writeCatalogChanged(
	ctx context.Context,
	db db.DB,
	repo repository.OutboxMsgRepository,
	entity, entityID string,
	action event.CatalogAction,
) error {
	return writeOutbox(ctx, db, repo, event.TopicCatalogChanged, entityID, event.CatalogChangedEvent{
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
	})
}
