package pricing

import (
	"storefront-cart/internal/model"

	"github.com/shopspring/decimal"
)

const (
	// MinCouponCodeLength is the shortest accepted coupon code.
	MinCouponCodeLength = 3
	// MaxCouponCodeLength is the longest accepted coupon code.
	MaxCouponCodeLength = 50
)

// MaxFixedDiscount caps the amount of a FIXED coupon.
var MaxFixedDiscount = decimal.NewFromInt(50000)

// ValidateCoupon checks a coupon definition before it is stored.
// The code is expected to be normalised already.
func ValidateCoupon(coupon *model.Coupon) error {
	if coupon == nil {
		return model.NewValidationError("coupon is required")
	}

	if len(coupon.Code) < MinCouponCodeLength || len(coupon.Code) > MaxCouponCodeLength {
		return model.NewValidationError("coupon code must be between %d and %d characters", MinCouponCodeLength, MaxCouponCodeLength)
	}

	if !coupon.DiscountAmount.IsPositive() {
		return model.NewValidationError("discount amount must be greater than zero")
	}

	switch coupon.AmountType {
	case model.AmountTypePercentage:
		if coupon.DiscountAmount.GreaterThan(hundred) {
			return model.NewValidationError("percentage discount cannot exceed 100")
		}
	case model.AmountTypeFixed:
		if coupon.DiscountAmount.GreaterThan(MaxFixedDiscount) {
			return model.NewValidationError("fixed discount cannot exceed %s", MaxFixedDiscount.String())
		}
	default:
		return model.NewValidationError("amount type must be %s or %s", model.AmountTypePercentage, model.AmountTypeFixed)
	}

	if coupon.MinAmount.IsNegative() {
		return model.NewValidationError("minimum amount cannot be negative")
	}

	if !isCurrencyPrecision(coupon.DiscountAmount) {
		return model.NewValidationError("discount amount cannot have more than %d decimal places", CurrencyPlaces)
	}
	if !isCurrencyPrecision(coupon.MinAmount) {
		return model.NewValidationError("minimum amount cannot have more than %d decimal places", CurrencyPlaces)
	}

	if coupon.UsageLimit != nil && *coupon.UsageLimit <= 0 {
		return model.NewValidationError("usage limit must be greater than zero")
	}

	if coupon.ValidFrom != nil && coupon.ValidUntil != nil && !coupon.ValidFrom.Before(*coupon.ValidUntil) {
		return model.NewValidationError("valid from must be before valid until")
	}

	return nil
}

// isCurrencyPrecision reports whether d needs no more than CurrencyPlaces
// decimal places. Trailing zeros are ignored.
func isCurrencyPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(CurrencyPlaces))
}

// ValidateQuantity normalises a requested line item quantity.
// Zero means the default of one.
func ValidateQuantity(quantity int) (int, error) {
	if quantity == 0 {
		return model.MinItemQuantity, nil
	}
	if quantity < model.MinItemQuantity || quantity > model.MaxItemQuantity {
		return 0, model.NewValidationError("quantity must be between %d and %d", model.MinItemQuantity, model.MaxItemQuantity)
	}
	return quantity, nil
}
