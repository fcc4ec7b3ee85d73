package product

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/internal/customization"
	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/internal/events"
	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/pkg/db"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Summary is the product list row the dashboard renders.
type Summary struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"isAvailable"`
}

// storedConfig is the JSONB shape of `product_customizations.config`.
// Product scalars live on the products row; only the assignment collections
// are stored here.
type storedConfig struct {
	Groups     []customization.GroupAssignment     `json:"optionGroups"`
	Containers []customization.ContainerAssignment `json:"containers"`
	Sizes      []customization.SizeAssignment      `json:"sizes"`
}

func (r *Repository) List(ctx context.Context) ([]Summary, error) {
	const q = `
SELECT id, name, COALESCE(category,''), price, is_available
FROM products
ORDER BY name ASC
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Price, &s.IsAvailable); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Load hydrates a product's full configuration: scalars from the products row,
// assignments from the JSONB config (empty collections when none saved yet).
func (r *Repository) Load(ctx context.Context, productID string) (customization.ProductConfig, error) {
	const q = `
SELECT p.id, p.name, COALESCE(p.category,''), p.price, p.is_available, COALESCE(p.tags, '{}'),
       COALESCE(pc.config, 'null'::jsonb)
FROM products p
LEFT JOIN product_customizations pc ON pc.product_id = p.id
WHERE p.id = $1
`
	var (
		cfg customization.ProductConfig
		raw []byte
	)
	err := r.db.QueryRow(ctx, q, productID).Scan(
		&cfg.ProductID, &cfg.Name, &cfg.Category, &cfg.Price, &cfg.IsAvailable, &cfg.Tags, &raw,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return customization.ProductConfig{}, customization.ErrProductNotFound
		}
		return customization.ProductConfig{}, err
	}

	var stored storedConfig
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &stored); err != nil {
			return customization.ProductConfig{}, err
		}
	}
	cfg.Groups = stored.Groups
	cfg.Containers = stored.Containers
	cfg.Sizes = stored.Sizes
	return cfg, nil
}

// Submit persists the corrected, validated configuration: product scalars and
// the assignment JSONB move together in one transaction.
func (r *Repository) Submit(ctx context.Context, cfg customization.ProductConfig) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return submitTx(ctx, tx, cfg)
	})
}

// SubmitWithEvent persists the configuration and its change event in the same
// transaction, so the history cannot miss a committed edit and a failed event
// insert rolls the edit back with it.
func (r *Repository) SubmitWithEvent(ctx context.Context, cfg customization.ProductConfig, eventType, summary, actor string, data any) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := submitTx(ctx, tx, cfg); err != nil {
			return err
		}
		return events.Insert(ctx, tx, cfg.ProductID, eventType, summary, actor, data)
	})
}

func submitTx(ctx context.Context, tx pgx.Tx, cfg customization.ProductConfig) error {
	raw, err := json.Marshal(storedConfig{
		Groups:     cfg.Groups,
		Containers: cfg.Containers,
		Sizes:      cfg.Sizes,
	})
	if err != nil {
		return err
	}

	const qProduct = `
UPDATE products
SET name = $2, category = $3, price = $4, is_available = $5, tags = $6, updated_at = NOW()
WHERE id = $1
`
	tag, err := tx.Exec(ctx, qProduct,
		cfg.ProductID, cfg.Name, cfg.Category, cfg.Price, cfg.IsAvailable, cfg.Tags,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return customization.ErrProductNotFound
	}

	const qConfig = `
INSERT INTO product_customizations (product_id, config)
VALUES ($1, $2)
ON CONFLICT (product_id) DO UPDATE SET
  config = EXCLUDED.config,
  updated_at = NOW()
`
	_, err = tx.Exec(ctx, qConfig, cfg.ProductID, raw)
	return err
}
