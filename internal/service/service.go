package service

import (
	"context"

	"storefront-cart/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for product management.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	CatalogLookup
}

// CatalogLookup resolves the current catalogue entry of a product for the
// cart. A product that does not exist is model.ErrProductUnavailable.
type CatalogLookup interface {
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
}

// CouponRegistry resolves coupon codes while pricing a cart.
type CouponRegistry interface {
	// GetCouponByCode returns nil when the code is unknown.
	GetCouponByCode(ctx context.Context, code string) (*model.Coupon, error)

	// GetRemainingUses returns nil when redemptions are unlimited.
	GetRemainingUses(ctx context.Context, code string) (*int, error)
}

// CartService defines the cart operations. Every mutation runs in its own
// transaction under a per-user lock and returns the resulting snapshot.
type CartService interface {
	// GetCart returns the user's cart; a user without a cart gets an empty one.
	GetCart(ctx context.Context, userID string) (*model.CartSnapshot, error)

	// CountItems returns the number of units in the user's cart.
	CountItems(ctx context.Context, userID string) (int, error)

	// AddItem adds a product or increases the quantity of its existing line.
	AddItem(ctx context.Context, userID string, req *model.AddItemRequest) (*model.CartSnapshot, error)

	// RemoveItem removes a line item. Unknown line items are ignored.
	RemoveItem(ctx context.Context, userID string, lineItemID uuid.UUID) (*model.CartSnapshot, error)

	// ApplyCoupon validates and binds a coupon, replacing any previous one.
	ApplyCoupon(ctx context.Context, userID, code string) (*model.CartSnapshot, error)

	// RemoveCoupon clears the applied coupon.
	RemoveCoupon(ctx context.Context, userID string) (*model.CartSnapshot, error)
}

// CouponService defines coupon administration.
type CouponService interface {
	List(ctx context.Context, filter model.CouponFilter) ([]model.CouponView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.CouponView, error)
	GetByCode(ctx context.Context, code string) (*model.CouponView, error)
	Create(ctx context.Context, req *model.CouponRequest) (*model.CouponView, error)
	Update(ctx context.Context, id uuid.UUID, req *model.CouponRequest) (*model.CouponView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
