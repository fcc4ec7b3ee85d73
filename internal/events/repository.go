package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	TypeConfigUpdated = "CONFIG_UPDATED"
	TypeBulkAssign    = "BULK_ASSIGN"
)

// Event is one entry in a product's configuration change history. Data carries
// the serialized ChangeSet (or bulk summary) that was confirmed by the admin.
type Event struct {
	ID         string `json:"id"`
	ProductID  string `json:"productId"`
	EventType  string `json:"eventType"`
	Summary    string `json:"summary"`
	Actor      string `json:"actor"`
	OccurredAt string `json:"occurredAt"`
	Data       any    `json:"data,omitempty"`
}

const insertQuery = `
INSERT INTO config_events (id, product_id, event_type, summary, actor, data)
VALUES ($1, $2, $3, $4, $5, CAST($6 AS jsonb))
`

// Insert records an event inside an existing transaction, so the history entry
// commits (or rolls back) together with the write it describes.
func Insert(ctx context.Context, tx pgx.Tx, productID, eventType, summary, actor string, data any) error {
	raw, err := marshalData(data)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, insertQuery, uuid.NewString(), productID, eventType, summary, actor, raw)
	return err
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Record inserts an event outside any transaction (best-effort paths like the
// bulk executor's per-product history).
func (r *Repository) Record(ctx context.Context, productID, eventType, summary, actor string, data any) error {
	raw, err := marshalData(data)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, insertQuery, uuid.NewString(), productID, eventType, summary, actor, raw)
	return err
}

func (r *Repository) ListByProduct(ctx context.Context, productID string) ([]Event, error) {
	const q = `
SELECT id, product_id, event_type, summary, actor, occurred_at::text, COALESCE(data, '{}'::jsonb)
FROM config_events
WHERE product_id = $1
ORDER BY occurred_at ASC
`
	rows, err := r.db.Query(ctx, q, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.ProductID, &e.EventType, &e.Summary, &e.Actor, &e.OccurredAt, &e.Data); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func marshalData(data any) (*string, error) {
	if data == nil {
		return nil, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}
