package pricing

import (
	"time"

	"storefront-cart/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Engine applies cart mutations and keeps the cached discount consistent.
// Every mutation recomputes the discount before returning.
type Engine struct {
	now func() time.Time
}

// NewEngine creates an engine that reads the current time from now.
// A nil clock uses time.Now.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// AddItem adds quantity units of product to cart. An existing line for the
// same product keeps its price snapshot and has its quantity increased,
// clamped to model.MaxItemQuantity. bound is the definition of the coupon
// currently applied to the cart, if any.
func (e *Engine) AddItem(cart *model.Cart, product *model.Product, quantity int, bound *model.Coupon) (*model.LineItem, error) {
	if cart == nil || cart.UserID == "" {
		return nil, model.ErrNotAuthenticated
	}
	if product == nil || !product.Available {
		return nil, model.ErrProductUnavailable
	}
	if product.Price.IsNegative() {
		return nil, model.NewValidationError("product price cannot be negative")
	}

	quantity, err := ValidateQuantity(quantity)
	if err != nil {
		return nil, err
	}

	now := e.now()
	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ProductID == product.ID {
			idx = i
			break
		}
	}

	if idx >= 0 {
		cart.Items[idx].Quantity = min(cart.Items[idx].Quantity+quantity, model.MaxItemQuantity)
	} else {
		cart.Items = append(cart.Items, model.LineItem{
			ID:        uuid.New(),
			ProductID: product.ID,
			UnitPrice: product.Price,
			Quantity:  quantity,
			AddedAt:   now,
		})
		idx = len(cart.Items) - 1
	}

	cart.UpdatedAt = now
	e.Recompute(cart, bound)

	item := cart.Items[idx]
	return &item, nil
}

// RemoveItem removes the line item with the given id. Removing an item
// that is not in the cart is not an error. Emptying the cart clears any
// applied coupon. It reports whether an item was removed.
func (e *Engine) RemoveItem(cart *model.Cart, lineItemID uuid.UUID, bound *model.Coupon) bool {
	removed := false
	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ID == lineItemID {
			removed = true
			continue
		}
		items = append(items, item)
	}
	cart.Items = items

	if cart.IsEmpty() {
		cart.CouponCode = ""
		bound = nil
	}
	if removed {
		cart.UpdatedAt = e.now()
	}

	e.Recompute(cart, bound)
	return removed
}

// ApplyCoupon binds coupon to cart, replacing any previous coupon.
// On error the cart is left untouched.
func (e *Engine) ApplyCoupon(cart *model.Cart, coupon *model.Coupon, remaining *int) error {
	if cart == nil || cart.UserID == "" {
		return model.ErrNotAuthenticated
	}

	if err := CheckEligibility(coupon, Subtotal(cart.Items), remaining, e.now()); err != nil {
		return err
	}

	cart.CouponCode = coupon.Code
	cart.UpdatedAt = e.now()
	e.Recompute(cart, coupon)
	return nil
}

// RemoveCoupon clears the applied coupon and its discount.
func (e *Engine) RemoveCoupon(cart *model.Cart) {
	if cart.CouponCode != "" {
		cart.UpdatedAt = e.now()
	}
	cart.CouponCode = ""
	cart.Discount = decimal.Zero
}

// Recompute refreshes the cached discount from the bound coupon and the
// current subtotal. A bound code whose definition is gone is dropped.
// While the subtotal is below the coupon minimum the discount is zero but
// the code stays bound.
func (e *Engine) Recompute(cart *model.Cart, bound *model.Coupon) {
	if cart.CouponCode == "" {
		cart.Discount = decimal.Zero
		return
	}
	if bound == nil || bound.Code != cart.CouponCode {
		cart.CouponCode = ""
		cart.Discount = decimal.Zero
		return
	}

	subtotal := Subtotal(cart.Items)
	if subtotal.LessThan(bound.MinAmount) {
		cart.Discount = decimal.Zero
		return
	}
	cart.Discount = Discount(subtotal, bound)
}
