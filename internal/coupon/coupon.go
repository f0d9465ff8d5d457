// Package coupon holds the coupon registry used while pricing carts and the
// bulk import of coupon definitions from gzipped JSON-lines files.
package coupon

import (
	"context"

	"storefront-cart/internal/model"
)

// Set is a collection of coupon definitions keyed by normalised code.
type Set interface {
	// Get returns the definition for code, if present.
	Get(code string) (model.Coupon, bool)

	// Contains checks if a coupon code exists in the set.
	Contains(code string) bool

	// Size returns the number of coupons in the set.
	Size() int

	// Coupons returns the definitions in the order their codes were first added.
	Coupons() []model.Coupon
}

// Loader defines the interface for loading coupon files.
type Loader interface {
	// Load reads a gzipped JSON-lines coupon file and returns its definitions.
	Load(ctx context.Context, filePath string) (Set, error)
}

// Store persists imported coupon definitions.
type Store interface {
	Upsert(ctx context.Context, coupons []model.Coupon) error
}
