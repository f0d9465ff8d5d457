package repository

import (
	"context"

	"storefront-cart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// CartRepository defines the interface for cart persistence.
// Mutations run inside a transaction obtained from BeginTx.
type CartRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// GetByUserID loads a cart with its items outside any transaction.
	// Returns nil when the user has no cart.
	GetByUserID(ctx context.Context, userID string) (*model.Cart, error)

	// GetForUpdate serialises writers for userID and loads the cart row
	// with a FOR UPDATE lock. Returns nil when the user has no cart.
	GetForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*model.Cart, error)

	// Save writes the cart header and replaces its items. A cart with
	// Version 0 is inserted; otherwise the update only succeeds if the
	// stored version still matches. On success cart.Version is bumped.
	Save(ctx context.Context, tx pgx.Tx, cart *model.Cart) error

	// Delete removes the cart and its items.
	Delete(ctx context.Context, tx pgx.Tx, userID string) error

	// RecordRequest stores an idempotency key for userID. It reports false
	// when the key was already recorded.
	RecordRequest(ctx context.Context, tx pgx.Tx, userID, requestID string) (bool, error)
}

// CouponRepository defines the interface for coupon definition storage.
type CouponRepository interface {
	// List returns coupons whose code or category contains search
	// (case-insensitive), newest first. An empty search matches all.
	List(ctx context.Context, search string) ([]model.Coupon, error)

	// GetByID retrieves a coupon by ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)

	// GetByCode retrieves a coupon by its normalised code. Returns nil when absent.
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)

	// Create inserts a new coupon. A duplicate code yields model.ErrValidation.
	Create(ctx context.Context, coupon *model.Coupon) error

	// Update overwrites an existing coupon definition. Returns
	// model.ErrNotFound when no row matches.
	Update(ctx context.Context, coupon *model.Coupon) error

	// Delete permanently removes a coupon. Returns model.ErrNotFound when
	// no row matches.
	Delete(ctx context.Context, id uuid.UUID) error

	// Upsert inserts or replaces coupons keyed by code, keeping usage counters.
	Upsert(ctx context.Context, coupons []model.Coupon) error
}
