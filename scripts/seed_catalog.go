//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"storefront-cart/internal/auth"
	"storefront-cart/internal/config"
	"storefront-cart/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// seed_catalog migrates the configured database, inserts a small product
// catalogue and prints bearer tokens for local testing.
func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logger)

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	products := []struct {
		id, name, category string
		price              string
		available          bool
	}{
		{"P001", "Espresso Beans 1kg", "coffee", "24.90", true},
		{"P002", "Pour-over Kettle", "equipment", "89.00", true},
		{"P003", "Burr Grinder", "equipment", "149.99", true},
		{"P004", "Paper Filters x100", "accessories", "6.50", true},
		{"P005", "Discontinued Mug", "accessories", "12.00", false},
	}

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(`
			INSERT INTO products (id, name, price, category, available)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, price = EXCLUDED.price,
			    category = EXCLUDED.category, available = EXCLUDED.available`,
			p.id, p.name, decimal.RequireFromString(p.price), p.category, p.available)
	}
	if err := pool.SendBatch(ctx, batch).Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Seeding products failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Seeded %d products\n", len(products))

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	for _, identity := range []auth.Identity{
		{UserID: "user-1", Role: auth.RoleUser},
		{UserID: "admin-1", Role: auth.RoleAdmin},
	} {
		token, err := verifier.Issue(identity, 24*time.Hour)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Issuing token failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\n%s (%s):\n  %s\n", identity.UserID, identity.Role, token)
	}
}
