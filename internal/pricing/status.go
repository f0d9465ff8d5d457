package pricing

import (
	"time"

	"storefront-cart/internal/model"

	"github.com/shopspring/decimal"
)

// Status derives the display status of a coupon at now.
// Inactive wins over the date window; Scheduled wins over Expired.
func Status(coupon *model.Coupon, now time.Time) model.CouponStatus {
	if !coupon.Active {
		return model.CouponStatusInactive
	}
	if coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom) {
		return model.CouponStatusScheduled
	}
	if coupon.ValidUntil != nil && now.After(*coupon.ValidUntil) {
		return model.CouponStatusExpired
	}
	return model.CouponStatusActive
}

// CheckEligibility reports why coupon cannot be applied to a cart with the
// given subtotal, or nil when it can. remaining is the number of redemptions
// left; nil means unlimited.
func CheckEligibility(coupon *model.Coupon, subtotal decimal.Decimal, remaining *int, now time.Time) error {
	if coupon == nil {
		return model.ErrCouponNotFound
	}
	if Status(coupon, now) != model.CouponStatusActive {
		return model.ErrCouponInactive
	}
	if subtotal.LessThan(coupon.MinAmount) {
		return model.ErrCouponMinimumNotMet
	}
	if remaining != nil && *remaining <= 0 {
		return model.ErrCouponUsageExceeded
	}
	return nil
}
