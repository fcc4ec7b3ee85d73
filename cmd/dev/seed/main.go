package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"

	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/pkg/config"
	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/pkg/db"
)

// Seeds a local database with a small ice-cream catalog and a few products so
// the dashboard has something to edit. Idempotent; safe to re-run.
func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db open failed: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	err = db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		stmts := []struct {
			q    string
			args [][]any
		}{
			{
				q: `INSERT INTO option_groups (id, name, icon, display_order) VALUES ($1, $2, $3, $4)
				    ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, icon = EXCLUDED.icon, display_order = EXCLUDED.display_order`,
				args: [][]any{
					{"flavors", "Flavors", "ice-cream", 0},
					{"toppings", "Toppings", "sprinkles", 1},
					{"sauces", "Sauces", "drizzle", 2},
				},
			},
			{
				q: `INSERT INTO options (id, group_id, name, base_price, display_order) VALUES ($1, $2, $3, $4, $5)
				    ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, base_price = EXCLUDED.base_price, display_order = EXCLUDED.display_order`,
				args: [][]any{
					{"vanilla", "flavors", "Vanilla", "0.00", 0},
					{"chocolate", "flavors", "Chocolate", "0.00", 1},
					{"pistachio", "flavors", "Pistachio", "0.50", 2},
					{"oreo", "toppings", "Oreo Crumbs", "0.75", 0},
					{"almonds", "toppings", "Roasted Almonds", "0.75", 1},
					{"lotus", "toppings", "Lotus Crumbs", "1.00", 2},
					{"caramel", "sauces", "Caramel", "0.50", 0},
					{"dark-choc", "sauces", "Dark Chocolate", "0.50", 1},
				},
			},
			{
				q: `INSERT INTO containers (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
				args: [][]any{
					{"cup", "Cup"},
					{"cone", "Cone"},
					{"waffle-cone", "Waffle Cone"},
				},
			},
			{
				q: `INSERT INTO sizes (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
				args: [][]any{
					{"small", "Small"},
					{"medium", "Medium"},
					{"large", "Large"},
				},
			},
			{
				q: `INSERT INTO products (id, name, category, price, is_available, tags) VALUES ($1, $2, $3, $4, $5, $6)
				    ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category, price = EXCLUDED.price`,
				args: [][]any{
					{"soft-serve-classic", "Classic Soft Serve", "soft-serve", "4.50", true, []string{"bestseller"}},
					{"sundae-deluxe", "Deluxe Sundae", "sundae", "7.00", true, []string{"new"}},
					{"milkshake", "Milkshake", "drinks", "5.50", true, []string{}},
				},
			},
		}

		for _, s := range stmts {
			for _, args := range s.args {
				if _, err := tx.Exec(ctx, s.q, args...); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("seed data applied")
}
