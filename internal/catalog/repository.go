package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/internal/customization"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Load hydrates the full catalog snapshot the engine validates against.
// Groups come back with their options already attached, in display order.
func (r *Repository) Load(ctx context.Context) (customization.Catalog, error) {
	var (
		cat customization.Catalog
		err error
	)
	if cat.Groups, err = r.loadGroups(ctx); err != nil {
		return customization.Catalog{}, err
	}
	if cat.Containers, err = r.loadContainers(ctx); err != nil {
		return customization.Catalog{}, err
	}
	if cat.Sizes, err = r.loadSizes(ctx); err != nil {
		return customization.Catalog{}, err
	}
	return cat, nil
}

func (r *Repository) loadGroups(ctx context.Context) ([]customization.OptionGroup, error) {
	const qGroups = `
SELECT id, name, COALESCE(icon, '')
FROM option_groups
ORDER BY display_order ASC, id ASC
`
	rows, err := r.db.Query(ctx, qGroups)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []customization.OptionGroup
	index := make(map[string]int)
	for rows.Next() {
		var g customization.OptionGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.Icon); err != nil {
			return nil, err
		}
		index[g.ID] = len(groups)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	const qOptions = `
SELECT id, group_id, name, base_price
FROM options
ORDER BY group_id ASC, display_order ASC, id ASC
`
	rows, err = r.db.Query(ctx, qOptions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			o       customization.Option
			groupID string
		)
		if err := rows.Scan(&o.ID, &groupID, &o.Name, &o.BasePrice); err != nil {
			return nil, err
		}
		if i, ok := index[groupID]; ok {
			groups[i].Options = append(groups[i].Options, o)
		}
	}
	return groups, rows.Err()
}

func (r *Repository) loadContainers(ctx context.Context) ([]customization.ContainerInfo, error) {
	const q = `SELECT id, name FROM containers ORDER BY name ASC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []customization.ContainerInfo
	for rows.Next() {
		var c customization.ContainerInfo
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) loadSizes(ctx context.Context) ([]customization.SizeInfo, error) {
	const q = `SELECT id, name FROM sizes ORDER BY name ASC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []customization.SizeInfo
	for rows.Next() {
		var s customization.SizeInfo
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
