package coupon

import (
	"context"
	"fmt"

	"storefront-cart/internal/model"

	"github.com/rs/zerolog"
)

// Finder looks coupon definitions up by code.
type Finder interface {
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
}

// Registry resolves coupon codes to definitions and remaining redemptions.
type Registry struct {
	finder Finder
	logger zerolog.Logger
}

// NewRegistry creates a registry backed by finder.
func NewRegistry(finder Finder, logger zerolog.Logger) *Registry {
	return &Registry{
		finder: finder,
		logger: logger.With().Str("component", "coupon-registry").Logger(),
	}
}

// GetCouponByCode returns the definition for code, or nil when unknown.
func (r *Registry) GetCouponByCode(ctx context.Context, code string) (*model.Coupon, error) {
	code = model.NormalizeCouponCode(code)
	if code == "" {
		return nil, nil
	}

	c, err := r.finder.GetByCode(ctx, code)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_code", code).Msg("failed to resolve coupon")
		return nil, fmt.Errorf("failed to resolve coupon %s: %w", code, err)
	}
	return c, nil
}

// GetRemainingUses returns how many redemptions code has left, or nil when
// it is unlimited or unknown.
func (r *Registry) GetRemainingUses(ctx context.Context, code string) (*int, error) {
	c, err := r.GetCouponByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return RemainingUses(c), nil
}

// RemainingUses derives the remaining redemptions of c. Nil means unlimited.
func RemainingUses(c *model.Coupon) *int {
	if c == nil || c.UsageLimit == nil {
		return nil
	}
	remaining := max(*c.UsageLimit-c.TimesUsed, 0)
	return &remaining
}
