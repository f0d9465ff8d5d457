package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront-cart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	uniqueViolation = "23505"
	checkViolation  = "23514"
)

const couponColumns = `id, code, amount_type, discount_amount, min_amount, valid_from, valid_until,
	usage_limit, times_used, category, active, created_at, updated_at`

// couponRepository implements the CouponRepository interface using PostgreSQL.
type couponRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) CouponRepository {
	return &couponRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "coupon").Logger(),
	}
}

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.AmountType,
		&c.DiscountAmount,
		&c.MinAmount,
		&c.ValidFrom,
		&c.ValidUntil,
		&c.UsageLimit,
		&c.TimesUsed,
		&c.Category,
		&c.Active,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// escapeLike escapes the ILIKE wildcards in a user supplied search term.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List returns coupons matching search, newest first.
func (r *couponRepository) List(ctx context.Context, search string) ([]model.Coupon, error) {
	query := `SELECT ` + couponColumns + `
		FROM coupons
		WHERE $1 = ''
			OR code ILIKE '%' || $1 || '%'
			OR category ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC, code
	`

	rows, err := r.pool.Query(ctx, query, escapeLike(strings.TrimSpace(search)))
	if err != nil {
		r.logger.Error().Err(err).Str("search", search).Msg("failed to query coupons")
		return nil, fmt.Errorf("failed to query coupons: %w", err)
	}
	defer rows.Close()

	coupons := []model.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan coupon row")
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, *c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating coupon rows")
		return nil, fmt.Errorf("error iterating coupons: %w", err)
	}

	return coupons, nil
}

// GetByID retrieves a coupon by ID.
func (r *couponRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	c, err := scanCoupon(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("coupon_id", id.String()).Msg("coupon not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}

	return c, nil
}

// GetByCode retrieves a coupon by code.
func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`

	c, err := scanCoupon(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("coupon_code", code).Msg("coupon not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("coupon_code", code).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}

	return c, nil
}

// Create inserts a new coupon.
func (r *couponRepository) Create(ctx context.Context, c *model.Coupon) error {
	query := `
		INSERT INTO coupons (` + couponColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.Code, c.AmountType, c.DiscountAmount, c.MinAmount, c.ValidFrom, c.ValidUntil,
		c.UsageLimit, c.TimesUsed, c.Category, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Warn().Str("coupon_code", c.Code).Msg("duplicate coupon code")
			return model.NewValidationError("coupon code %q already exists", c.Code)
		}
		if isCheckViolation(err) {
			r.logger.Warn().Err(err).Str("coupon_code", c.Code).Msg("coupon rejected by constraint")
			return model.NewValidationError("coupon %q violates a constraint", c.Code)
		}
		r.logger.Error().Err(err).Str("coupon_code", c.Code).Msg("failed to create coupon")
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	r.logger.Debug().Str("coupon_id", c.ID.String()).Str("coupon_code", c.Code).Msg("coupon created")
	return nil
}

// Update overwrites an existing coupon definition. The usage counter and
// creation time are left as stored.
func (r *couponRepository) Update(ctx context.Context, c *model.Coupon) error {
	query := `
		UPDATE coupons
		SET code = $2, amount_type = $3, discount_amount = $4, min_amount = $5,
			valid_from = $6, valid_until = $7, usage_limit = $8, category = $9,
			active = $10, updated_at = $11
		WHERE id = $1
		RETURNING times_used, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		c.ID, c.Code, c.AmountType, c.DiscountAmount, c.MinAmount, c.ValidFrom, c.ValidUntil,
		c.UsageLimit, c.Category, c.Active, c.UpdatedAt,
	).Scan(&c.TimesUsed, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrNotFound
		}
		if isUniqueViolation(err) {
			r.logger.Warn().Str("coupon_code", c.Code).Msg("duplicate coupon code")
			return model.NewValidationError("coupon code %q already exists", c.Code)
		}
		if isCheckViolation(err) {
			r.logger.Warn().Err(err).Str("coupon_code", c.Code).Msg("coupon rejected by constraint")
			return model.NewValidationError("coupon %q violates a constraint", c.Code)
		}
		r.logger.Error().Err(err).Str("coupon_id", c.ID.String()).Msg("failed to update coupon")
		return fmt.Errorf("failed to update coupon: %w", err)
	}

	return nil
}

// Delete permanently removes a coupon.
func (r *couponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to delete coupon")
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	r.logger.Debug().Str("coupon_id", id.String()).Msg("coupon deleted")
	return nil
}

// Upsert inserts or replaces coupons keyed by code in a single transaction.
func (r *couponRepository) Upsert(ctx context.Context, coupons []model.Coupon) (err error) {
	if len(coupons) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	query := `
		INSERT INTO coupons (` + couponColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (code) DO UPDATE SET
			amount_type = EXCLUDED.amount_type,
			discount_amount = EXCLUDED.discount_amount,
			min_amount = EXCLUDED.min_amount,
			valid_from = EXCLUDED.valid_from,
			valid_until = EXCLUDED.valid_until,
			usage_limit = EXCLUDED.usage_limit,
			category = EXCLUDED.category,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at
	`

	batch := &pgx.Batch{}
	for _, c := range coupons {
		batch.Queue(query,
			c.ID, c.Code, c.AmountType, c.DiscountAmount, c.MinAmount, c.ValidFrom, c.ValidUntil,
			c.UsageLimit, c.TimesUsed, c.Category, c.Active, c.CreatedAt, c.UpdatedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range coupons {
		if _, err = results.Exec(); err != nil {
			_ = results.Close()
			r.logger.Error().Err(err).Str("coupon_code", coupons[i].Code).Msg("failed to upsert coupon")
			return fmt.Errorf("failed to upsert coupon %s: %w", coupons[i].Code, err)
		}
	}
	if err = results.Close(); err != nil {
		return fmt.Errorf("failed to close coupon batch: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit coupon upsert")
		return fmt.Errorf("failed to commit coupon upsert: %w", err)
	}

	r.logger.Info().Int("count", len(coupons)).Msg("coupons upserted")
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == checkViolation
}
