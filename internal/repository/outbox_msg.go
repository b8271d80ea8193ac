package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/retail-pos/internal/storage/db"
)

type CreateOutboxMsgParams struct {
	Topic        string
	Headers      map[string]string
	Payload      json.RawMessage
	PartitionKey *string
}

type ListUnprocessedOutboxMsgsParams struct {
	BatchSize int32
}

type ListUnprocessedOutboxMsgsResult struct {
	ID           uuid.UUID
	Topic        string
	Headers      map[string]string
	Payload      json.RawMessage
	PartitionKey *string
}

type BulkUpdateOutboxMsgsItem struct {
	ID    uuid.UUID
	Error *string
}

type BulkUpdateOutboxMsgsParams struct {
	Items []BulkUpdateOutboxMsgsItem
}

// OutboxMsgRepository stores events written in the same transaction as the
// sale, transfer or catalog change they describe.
type OutboxMsgRepository interface {
	WithDB(db db.DB) OutboxMsgRepository
	CreateOutboxMsg(ctx context.Context, params CreateOutboxMsgParams) error
	ListUnprocessedOutboxMsgs(ctx context.Context, params ListUnprocessedOutboxMsgsParams) ([]ListUnprocessedOutboxMsgsResult, error)
	BulkUpdateOutboxMsgs(ctx context.Context, params BulkUpdateOutboxMsgsParams) error
	// PurgeProcessedOutboxMsgs deletes messages relayed without error before the
	// given time. Failed messages are kept for inspection.
	PurgeProcessedOutboxMsgs(ctx context.Context, before time.Time) (int64, error)
}

type outboxMsgRepository struct {
	db db.DB
}

func NewOutboxMsgRepository(db db.DB) OutboxMsgRepository {
	return &outboxMsgRepository{db: db}
}

func (r outboxMsgRepository) WithDB(db db.DB) OutboxMsgRepository {
	return &outboxMsgRepository{db: db}
}

func (r outboxMsgRepository) CreateOutboxMsg(ctx context.Context, params CreateOutboxMsgParams) error {
	headersBytes, err := json.Marshal(params.Headers)
	if err != nil {
		return fmt.Errorf("marshal headers: %w", err)
	}

	if _, err := r.db.Exec(ctx, `
		INSERT INTO outbox_messages (topic, headers, payload, partition_key, created_at)
		VALUES (@topic, @headers, @payload, @partition_key, @created_at)
	`, pgx.NamedArgs{
		"topic":         params.Topic,
		"headers":       headersBytes,
		"payload":       []byte(params.Payload),
		"partition_key": params.PartitionKey,
		"created_at":    time.Now(),
	}); err != nil {
		return fmt.Errorf("outbox msg create: %w", err)
	}

	return nil
}

type outboxMsgRow struct {
	ID           uuid.UUID `db:"id"`
	Topic        string    `db:"topic"`
	Headers      []byte    `db:"headers"`
	Payload      []byte    `db:"payload"`
	PartitionKey *string   `db:"partition_key"`
}

// ListUnprocessedOutboxMsgs locks the returned rows until the surrounding
// transaction ends, so concurrent relays never pick the same message.
func (r outboxMsgRepository) ListUnprocessedOutboxMsgs(ctx context.Context, params ListUnprocessedOutboxMsgsParams) ([]ListUnprocessedOutboxMsgsResult, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, topic, headers, payload, partition_key
		FROM outbox_messages
		WHERE processed_at IS NULL
		ORDER BY created_at
		LIMIT @batch_size
		FOR UPDATE SKIP LOCKED
	`, pgx.NamedArgs{"batch_size": params.BatchSize})
	if err != nil {
		return nil, fmt.Errorf("outbox msg list unprocessed: %w", err)
	}

	msgs, err := pgx.CollectRows(rows, pgx.RowToStructByName[outboxMsgRow])
	if err != nil {
		return nil, fmt.Errorf("collect outbox msgs: %w", err)
	}

	results := make([]ListUnprocessedOutboxMsgsResult, 0, len(msgs))
	for _, msg := range msgs {
		headers := map[string]string{}
		if len(msg.Headers) > 0 {
			if err := json.Unmarshal(msg.Headers, &headers); err != nil {
				return nil, fmt.Errorf("unmarshal headers: %w", err)
			}
		}

		results = append(results, ListUnprocessedOutboxMsgsResult{
			ID:           msg.ID,
			Topic:        msg.Topic,
			Headers:      headers,
			Payload:      msg.Payload,
			PartitionKey: msg.PartitionKey,
		})
	}

	return results, nil
}

func (r outboxMsgRepository) BulkUpdateOutboxMsgs(ctx context.Context, params BulkUpdateOutboxMsgsParams) error {
	if len(params.Items) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(params.Items))
	errs := make([]*string, len(params.Items))
	for i, item := range params.Items {
		ids[i] = item.ID
		errs[i] = item.Error
	}

	if _, err := r.db.Exec(ctx, `
		UPDATE outbox_messages AS o
		SET processed_at = NOW(),
		    error        = e.error
		FROM UNNEST(@ids::uuid[], @errors::text[]) AS e(id, error)
		WHERE o.id = e.id
	`, pgx.NamedArgs{
		"ids":    ids,
		"errors": errs,
	}); err != nil {
		return fmt.Errorf("outbox msg bulk update: %w", err)
	}

	return nil
}

func (r outboxMsgRepository) PurgeProcessedOutboxMsgs(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM outbox_messages
		WHERE processed_at < @before
		  AND error IS NULL
	`, pgx.NamedArgs{"before": before})
	if err != nil {
		return 0, fmt.Errorf("outbox msg purge: %w", err)
	}
	return tag.RowsAffected(), nil
}
