package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront-cart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// querier is the read surface shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *cartRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// GetByUserID loads a cart with its items.
func (r *cartRepository) GetByUserID(ctx context.Context, userID string) (*model.Cart, error) {
	return r.load(ctx, r.pool, userID, false)
}

// GetForUpdate takes a transaction-scoped advisory lock on userID, so that
// writers also serialise on carts that do not exist yet, then loads the
// cart row FOR UPDATE.
func (r *cartRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*model.Cart, error) {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to lock cart")
		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}
	return r.load(ctx, tx, userID, true)
}

func (r *cartRepository) load(ctx context.Context, q querier, userID string, forUpdate bool) (*model.Cart, error) {
	cartQuery := `
		SELECT user_id, coupon_code, discount, version, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`
	if forUpdate {
		cartQuery += ` FOR UPDATE`
	}

	var cart model.Cart
	err := q.QueryRow(ctx, cartQuery, userID).Scan(
		&cart.UserID,
		&cart.CouponCode,
		&cart.Discount,
		&cart.Version,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("user_id", userID).Msg("cart not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	itemsQuery := `
		SELECT id, product_id, unit_price, quantity, added_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY position
	`

	rows, err := q.Query(ctx, itemsQuery, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []model.LineItem{}
	for rows.Next() {
		var item model.LineItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.UnitPrice, &item.Quantity, &item.AddedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return &cart, nil
}

// Save writes the cart header under the optimistic version check and
// rewrites its items in insertion order.
func (r *cartRepository) Save(ctx context.Context, tx pgx.Tx, cart *model.Cart) error {
	logger := r.logger.With().Str("user_id", cart.UserID).Int64("version", cart.Version).Logger()

	var (
		tag pgconn.CommandTag
		err error
	)
	if cart.Version == 0 {
		tag, err = tx.Exec(ctx, `
			INSERT INTO carts (user_id, coupon_code, discount, version, created_at, updated_at)
			VALUES ($1, $2, $3, 1, $4, $5)
			ON CONFLICT (user_id) DO NOTHING
		`, cart.UserID, cart.CouponCode, cart.Discount, cart.CreatedAt, cart.UpdatedAt)
	} else {
		tag, err = tx.Exec(ctx, `
			UPDATE carts
			SET coupon_code = $2, discount = $3, version = version + 1, updated_at = $4
			WHERE user_id = $1 AND version = $5
		`, cart.UserID, cart.CouponCode, cart.Discount, cart.UpdatedAt, cart.Version)
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}
	if tag.RowsAffected() == 0 {
		logger.Warn().Msg("cart version conflict")
		return model.ErrCartConflict
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, cart.UserID); err != nil {
		logger.Error().Err(err).Msg("failed to clear cart items")
		return fmt.Errorf("failed to clear cart items: %w", err)
	}

	if len(cart.Items) > 0 {
		query := `
			INSERT INTO cart_items (id, user_id, product_id, unit_price, quantity, position, added_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`

		batch := &pgx.Batch{}
		for i, item := range cart.Items {
			batch.Queue(query, item.ID, cart.UserID, item.ProductID, item.UnitPrice, item.Quantity, i, item.AddedAt)
		}

		results := tx.SendBatch(ctx, batch)
		for i := range cart.Items {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				logger.Error().
					Err(err).
					Str("product_id", cart.Items[i].ProductID).
					Msg("failed to insert cart item")
				return fmt.Errorf("failed to insert cart item: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to close cart item batch: %w", err)
		}
	}

	cart.Version++
	logger.Debug().Int("items", len(cart.Items)).Msg("cart saved")

	return nil
}

// Delete removes the cart; items go with it through the foreign key cascade.
func (r *cartRepository) Delete(ctx context.Context, tx pgx.Tx, userID string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, userID); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to delete cart")
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	r.logger.Debug().Str("user_id", userID).Msg("cart deleted")
	return nil
}

// RecordRequest stores an idempotency key.
func (r *cartRepository) RecordRequest(ctx context.Context, tx pgx.Tx, userID, requestID string) (bool, error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO cart_requests (user_id, request_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, request_id) DO NOTHING
	`, userID, requestID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to record cart request")
		return false, fmt.Errorf("failed to record cart request: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
