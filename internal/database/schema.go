package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema is the DDL for all tables the service owns. Every statement is
// idempotent so Migrate can run on each start.
const Schema = `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		price NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		category TEXT NOT NULL,
		available BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);

	CREATE TABLE IF NOT EXISTS carts (
		user_id TEXT PRIMARY KEY,
		coupon_code TEXT NOT NULL DEFAULT '',
		discount NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (discount >= 0),
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS cart_items (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES carts(user_id) ON DELETE CASCADE,
		product_id TEXT NOT NULL,
		unit_price NUMERIC(12,2) NOT NULL CHECK (unit_price >= 0),
		quantity INTEGER NOT NULL CHECK (quantity BETWEEN 1 AND 99),
		position INTEGER NOT NULL,
		added_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, product_id)
	);
	CREATE INDEX IF NOT EXISTS idx_cart_items_user_id ON cart_items(user_id, position);

	CREATE TABLE IF NOT EXISTS cart_requests (
		user_id TEXT NOT NULL,
		request_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, request_id)
	);

	CREATE TABLE IF NOT EXISTS coupons (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		amount_type TEXT NOT NULL CHECK (amount_type IN ('PERCENTAGE', 'FIXED')),
		discount_amount NUMERIC(12,2) NOT NULL CHECK (discount_amount > 0),
		min_amount NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (min_amount >= 0),
		valid_from TIMESTAMPTZ,
		valid_until TIMESTAMPTZ,
		usage_limit INTEGER CHECK (usage_limit > 0),
		times_used INTEGER NOT NULL DEFAULT 0,
		category TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

// Migrate creates any missing tables and indexes.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		logger.Error().Err(err).Msg("failed to apply database schema")
		return fmt.Errorf("failed to apply database schema: %w", err)
	}

	logger.Info().Msg("database schema applied")
	return nil
}
