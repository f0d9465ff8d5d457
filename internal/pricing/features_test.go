package pricing_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"storefront-cart/internal/model"
	"storefront-cart/internal/pricing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

type pricingTestContext struct {
	engine  *pricing.Engine
	cart    *model.Cart
	coupons map[string]*model.Coupon
	err     error
}

func (c *pricingTestContext) reset() {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	c.engine = pricing.NewEngine(func() time.Time { return now })
	c.cart = nil
	c.coupons = make(map[string]*model.Coupon)
	c.err = nil
}

func (c *pricingTestContext) bound() *model.Coupon {
	return c.coupons[c.cart.CouponCode]
}

func (c *pricingTestContext) anEmptyCartForUser(userID string) error {
	c.cart = model.NewCart(userID, c.engine.Now())
	return nil
}

func (c *pricingTestContext) productPricedIsAddedWithQuantity(productID, price string, quantity int) error {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	product := &model.Product{ID: productID, Price: p, Available: true}
	_, err = c.engine.AddItem(c.cart, product, quantity, c.bound())
	return err
}

func (c *pricingTestContext) aCouponOfWithMinimum(amountType, code, amount, minimum string) error {
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	m, err := decimal.NewFromString(minimum)
	if err != nil {
		return err
	}
	coupon := &model.Coupon{
		Code:           model.NormalizeCouponCode(code),
		AmountType:     model.AmountType(amountType),
		DiscountAmount: a,
		MinAmount:      m,
		Active:         true,
	}
	if err := pricing.ValidateCoupon(coupon); err != nil {
		return err
	}
	c.coupons[coupon.Code] = coupon
	return nil
}

func (c *pricingTestContext) couponHasBeenApplied(code string) error {
	return c.engine.ApplyCoupon(c.cart, c.coupons[model.NormalizeCouponCode(code)], nil)
}

func (c *pricingTestContext) iApplyCoupon(code string) error {
	c.err = c.engine.ApplyCoupon(c.cart, c.coupons[model.NormalizeCouponCode(code)], nil)
	return nil
}

func (c *pricingTestContext) iRemoveTheCoupon() error {
	c.engine.RemoveCoupon(c.cart)
	return nil
}

func (c *pricingTestContext) iRemoveLine(productID string) error {
	for _, item := range c.cart.Items {
		if item.ProductID == productID {
			c.engine.RemoveItem(c.cart, item.ID, c.bound())
			return nil
		}
	}
	return fmt.Errorf("no line for product %s", productID)
}

func expectAmount(label, expected string, actual decimal.Decimal) error {
	want, err := decimal.NewFromString(expected)
	if err != nil {
		return err
	}
	if !want.Equal(actual) {
		return fmt.Errorf("expected %s %s, got %s", label, want, actual)
	}
	return nil
}

func (c *pricingTestContext) theSubtotalIs(expected string) error {
	return expectAmount("subtotal", expected, pricing.Compute(c.cart).Subtotal)
}

func (c *pricingTestContext) theDiscountIs(expected string) error {
	return expectAmount("discount", expected, pricing.Compute(c.cart).Discount)
}

func (c *pricingTestContext) theTotalIs(expected string) error {
	return expectAmount("total", expected, pricing.Compute(c.cart).Total)
}

func (c *pricingTestContext) theAppliedCouponIs(code string) error {
	if c.cart.CouponCode != code {
		return fmt.Errorf("expected coupon %q, got %q", code, c.cart.CouponCode)
	}
	return nil
}

func (c *pricingTestContext) noCouponIsApplied() error {
	return c.theAppliedCouponIs("")
}

func (c *pricingTestContext) theOperationFailsWith(code string) error {
	if c.err == nil {
		return errors.New("expected an error, got none")
	}
	var domainErr *model.DomainError
	if !errors.As(c.err, &domainErr) {
		return fmt.Errorf("expected a domain error, got %v", c.err)
	}
	if domainErr.Code != code {
		return fmt.Errorf("expected error code %s, got %s", code, domainErr.Code)
	}
	return nil
}

func (c *pricingTestContext) theCartHasLineItems(count int) error {
	if len(c.cart.Items) != count {
		return fmt.Errorf("expected %d line items, got %d", count, len(c.cart.Items))
	}
	return nil
}

func (c *pricingTestContext) lineHasQuantity(productID string, quantity int) error {
	for _, item := range c.cart.Items {
		if item.ProductID == productID {
			if item.Quantity != quantity {
				return fmt.Errorf("expected quantity %d, got %d", quantity, item.Quantity)
			}
			return nil
		}
	}
	return fmt.Errorf("no line for product %s", productID)
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &pricingTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty cart for user "([^"]*)"$`, tc.anEmptyCartForUser)
	ctx.Step(`^product "([^"]*)" priced ([\d.]+) is added with quantity (\d+)$`, tc.productPricedIsAddedWithQuantity)
	ctx.Step(`^a (PERCENTAGE|FIXED) coupon "([^"]*)" of ([\d.]+) with minimum ([\d.]+)$`, tc.aCouponOfWithMinimum)
	ctx.Step(`^coupon "([^"]*)" has been applied$`, tc.couponHasBeenApplied)

	// When steps
	ctx.Step(`^I apply coupon "([^"]*)"$`, tc.iApplyCoupon)
	ctx.Step(`^I remove the coupon$`, tc.iRemoveTheCoupon)
	ctx.Step(`^I remove line "([^"]*)"$`, tc.iRemoveLine)

	// Then steps
	ctx.Step(`^the subtotal is ([\d.]+)$`, tc.theSubtotalIs)
	ctx.Step(`^the discount is ([\d.]+)$`, tc.theDiscountIs)
	ctx.Step(`^the total is ([\d.]+)$`, tc.theTotalIs)
	ctx.Step(`^the applied coupon is "([^"]*)"$`, tc.theAppliedCouponIs)
	ctx.Step(`^no coupon is applied$`, tc.noCouponIsApplied)
	ctx.Step(`^the operation fails with "([^"]*)"$`, tc.theOperationFailsWith)
	ctx.Step(`^the cart has (\d+) line items?$`, tc.theCartHasLineItems)
	ctx.Step(`^line "([^"]*)" has quantity (\d+)$`, tc.lineHasQuantity)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
