// Package pricing implements the cart pricing engine: line item arithmetic,
// coupon eligibility and discount computation. Nothing in this package
// performs I/O; callers resolve products and coupons beforehand.
package pricing

import (
	"storefront-cart/internal/model"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of decimal places money is rounded to.
const CurrencyPlaces = model.CurrencyPlaces

var hundred = decimal.NewFromInt(100)

// Subtotal returns the exact sum of unit price times quantity over items.
// The result is never rounded.
func Subtotal(items []model.LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

// Discount computes the discount a coupon grants on subtotal.
// A nil coupon grants nothing. The result is rounded half-to-even to
// CurrencyPlaces and never exceeds subtotal.
func Discount(subtotal decimal.Decimal, coupon *model.Coupon) decimal.Decimal {
	if coupon == nil || !subtotal.IsPositive() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch coupon.AmountType {
	case model.AmountTypePercentage:
		discount = subtotal.Mul(coupon.DiscountAmount).Div(hundred)
	case model.AmountTypeFixed:
		discount = coupon.DiscountAmount
	default:
		return decimal.Zero
	}

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	return Round(discount)
}

// Total returns subtotal minus discount, rounded and floored at zero.
func Total(subtotal, discount decimal.Decimal) decimal.Decimal {
	total := Round(subtotal.Sub(discount))
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// Round applies the currency rounding policy: half-to-even at two places.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.RoundBank(CurrencyPlaces)
}

// Compute derives the totals of a cart from its items and cached discount.
func Compute(cart *model.Cart) model.Totals {
	subtotal := Subtotal(cart.Items)
	discount := cart.Discount
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	discount = Round(discount)
	return model.Totals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    Total(subtotal, discount),
	}
}

// Snapshot builds the read model of a cart.
func Snapshot(cart *model.Cart) *model.CartSnapshot {
	totals := Compute(cart)
	items := make([]model.LineItem, len(cart.Items))
	copy(items, cart.Items)

	return &model.CartSnapshot{
		UserID:     cart.UserID,
		Items:      items,
		ItemCount:  cart.ItemCount(),
		Subtotal:   totals.Subtotal,
		Discount:   totals.Discount,
		Total:      totals.Total,
		CouponCode: cart.CouponCode,
		Version:    cart.Version,
	}
}
