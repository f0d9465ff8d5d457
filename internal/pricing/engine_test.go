package pricing

import (
	"testing"
	"time"

	"storefront-cart/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewEngine(func() time.Time { return fixedNow })
}

func product(id, price string) *model.Product {
	return &model.Product{ID: id, Name: "Product " + id, Price: dec(price), Available: true}
}

func TestEngine_AddItem_NewLine(t *testing.T) {
	engine := newTestEngine()
	cart := model.NewCart("user-1", fixedNow)

	item, err := engine.AddItem(cart, product("P001", "100.00"), 2, nil)

	require.NoError(t, err)
	require.NotNil(t, item)
	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.Equal(t, "P001", item.ProductID)
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, dec("100.00").Equal(item.UnitPrice))
	assert.Len(t, cart.Items, 1)
}

func TestEngine_AddItem_SameProductTwiceMergesLines(t *testing.T) {
	engine := newTestEngine()
	cart := model.NewCart("user-1", fixedNow)
	p := product("P001", "10.00")

	first, err := engine.AddItem(cart, p, 1, nil)
	require.NoError(t, err)
	second, err := engine.AddItem(cart, p, 1, nil)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, first.ID, second.ID)
}

func TestEngine_AddItem_KeepsPriceSnapshot(t *testing.T) {
	engine := newTestEngine()
	cart := model.NewCart("user-1", fixedNow)

	_, err := engine.AddItem(cart, product("P001", "10.00"), 1, nil)
	require.NoError(t, err)

	// Catalogue price changed since the first add
	_, err = engine.AddItem(cart, product("P001", "12.50"), 1, nil)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.True(t, dec("10.00").Equal(cart.Items[0].UnitPrice))
}

func TestEngine_AddItem_ClampsQuantity(t *testing.T) {
	engine := newTestEngine()
	cart := model.NewCart("user-1", fixedNow)
	p := product("P001", "1.00")

	_, err := engine.AddItem(cart, p, 60, nil)
	require.NoError(t, err)
	_, err = engine.AddItem(cart, p, 60, nil)
	require.NoError(t, err)

	assert.Equal(t, model.MaxItemQuantity, cart.Items[0].Quantity)
}

func TestEngine_AddItem_DefaultQuantity(t *testing.T) {
	engine := newTestEngine()
	cart := model.NewCart("user-1", fixedNow)

	item, err := engine.AddItem(cart, product("P001", "1.00"), 0, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
}

func TestEngine_AddItem_Errors(t *testing.T) {
	tests := []struct {
		name        string
		cart        *model.Cart
		product     *model.Product
		quantity    int
		expectedErr error
	}{
		{
			name:        "No user bound",
			cart:        model.NewCart("", fixedNow),
			product:     product("P001", "1.00"),
			quantity:    1,
			expectedErr: model.ErrNotAuthenticated,
		},
		{
			name:        "Unresolved product",
			cart:        model.NewCart("user-1", fixedNow),
			product:     nil,
			quantity:    1,
			expectedErr: model.ErrProductUnavailable,
		},
		{
			name:        "Unavailable product",
			cart:        model.NewCart("user-1", fixedNow),
			product:     &model.Product{ID: "P001", Price: dec("1.00"), Available: false},
			quantity:    1,
			expectedErr: model.ErrProductUnavailable,
		},
		{
			name:        "Quantity too large",
			cart:        model.NewCart("user-1", fixedNow),
			product:     product("P001", "1.00"),
			quantity:    100,
			expectedErr: model.ErrValidation,
		},
		{
			name:        "Negative price",
			cart:        model.NewCart("user-1", fixedNow),
			product:     product("P001", "-1.00"),
			quantity:    1,
			expectedErr: model.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine()

			item, err := engine.AddItem(tt.cart, tt.product, tt.quantity, nil)

			assert.Nil(t, item)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Empty(t, tt.cart.Items)
		})
	}
}

func TestEngine_AddItem_RecomputesBoundCoupon(t *testing.T) {
	engine := newTestEngine()
	cart := model.NewCart("user-1", fixedNow)
	coupon := percentCoupon("TENOFF", "10", "0")

	_, err := engine.AddItem(cart, product("P001", "100.00"), 1, nil)
	require.NoError(t, err)
	require.NoError(t, engine.ApplyCoupon(cart, coupon, nil))
	assert.True(t, dec("10.00").Equal(cart.Discount))

	_, err = engine.AddItem(cart, product("P002", "50.00"), 1, coupon)
	require.NoError(t, err)

	assert.True(t, dec("15.00").Equal(cart.Discount))
}

func TestEngine_RemoveItem(t *testing.T) {
	engine := newTestEngine()
	cart := model.NewCart("user-1", fixedNow)
	coupon := fixedCoupon("FLAT5", "5", "0")

	first, err := engine.AddItem(cart, product("P001", "10.00"), 1, nil)
	require.NoError(t, err)
	_, err = engine.AddItem(cart, product("P002", "20.00"), 1, nil)
	require.NoError(t, err)
	require.NoError(t, engine.ApplyCoupon(cart, coupon, nil))

	removed := engine.RemoveItem(cart, first.ID, coupon)

	assert.True(t, removed)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "P002", cart.Items[0].ProductID)
	assert.Equal(t, "FLAT5", cart.CouponCode)
	assert.True(t, dec("5").Equal(cart.Discount))
}

func TestEngine_RemoveItem_Idempotent(t *testing.T) {
	engine := newTestEngine()
	cart := model.NewCart("user-1", fixedNow)

	item, err := engine.AddItem(cart, product("P001", "10.00"), 1, nil)
	require.NoError(t, err)
	_, err = engine.AddItem(cart, product("P002", "10.00"), 1, nil)
	require.NoError(t, err)

	assert.True(t, engine.RemoveItem(cart, item.ID, nil))
	assert.False(t, engine.RemoveItem(cart, item.ID, nil))
	assert.False(t, engine.RemoveItem(cart, uuid.New(), nil))
	assert.Len(t, cart.Items, 1)
}

func TestEngine_RemoveItem_EmptyCartClearsCoupon(t *testing.T) {
	engine := newTestEngine()
	cart := model.NewCart("user-1", fixedNow)
	coupon := percentCoupon("TENOFF", "10", "0")

	item, err := engine.AddItem(cart, product("P001", "10.00"), 1, nil)
	require.NoError(t, err)
	require.NoError(t, engine.ApplyCoupon(cart, coupon, nil))

	engine.RemoveItem(cart, item.ID, coupon)

	assert.True(t, cart.IsEmpty())
	assert.Empty(t, cart.CouponCode)
	assert.True(t, cart.Discount.IsZero())
}

func TestEngine_RemoveItem_BelowMinimumKeepsCodeWithoutDiscount(t *testing.T) {
	engine := newTestEngine()
	cart := model.NewCart("user-1", fixedNow)
	coupon := percentCoupon("TENOFF", "10", "50")

	big, err := engine.AddItem(cart, product("P001", "60.00"), 1, nil)
	require.NoError(t, err)
	_, err = engine.AddItem(cart, product("P002", "10.00"), 1, nil)
	require.NoError(t, err)
	require.NoError(t, engine.ApplyCoupon(cart, coupon, nil))
	assert.True(t, dec("7.00").Equal(cart.Discount))

	engine.RemoveItem(cart, big.ID, coupon)

	assert.Equal(t, "TENOFF", cart.CouponCode)
	assert.True(t, cart.Discount.IsZero())
}

func TestEngine_ApplyCoupon_Scenarios(t *testing.T) {
	tests := []struct {
		name             string
		coupon           *model.Coupon
		expectedDiscount string
		expectedTotal    string
	}{
		{
			name:             "Percentage ten on two hundred",
			coupon:           percentCoupon("TENOFF", "10", "50"),
			expectedDiscount: "20.00",
			expectedTotal:    "180.00",
		},
		{
			name:             "Fixed above subtotal is capped",
			coupon:           fixedCoupon("FLAT250", "250", "50"),
			expectedDiscount: "200.00",
			expectedTotal:    "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine()
			cart := model.NewCart("user-1", fixedNow)
			_, err := engine.AddItem(cart, product("P001", "100.00"), 2, nil)
			require.NoError(t, err)

			require.NoError(t, engine.ApplyCoupon(cart, tt.coupon, nil))

			totals := Compute(cart)
			assert.Equal(t, tt.coupon.Code, cart.CouponCode)
			assert.True(t, dec("200.00").Equal(totals.Subtotal))
			assert.True(t, dec(tt.expectedDiscount).Equal(totals.Discount), "discount %s", totals.Discount)
			assert.True(t, dec(tt.expectedTotal).Equal(totals.Total), "total %s", totals.Total)
		})
	}
}

func TestEngine_ApplyCoupon_MinimumNotMetLeavesCartUntouched(t *testing.T) {
	engine := newTestEngine()
	cart := model.NewCart("user-1", fixedNow)
	previous := fixedCoupon("FLAT5", "5", "0")

	_, err := engine.AddItem(cart, product("P001", "30.00"), 1, nil)
	require.NoError(t, err)
	require.NoError(t, engine.ApplyCoupon(cart, previous, nil))
	priorDiscount := cart.Discount

	err = engine.ApplyCoupon(cart, percentCoupon("TENOFF", "10", "50"), nil)

	assert.ErrorIs(t, err, model.ErrCouponMinimumNotMet)
	assert.Equal(t, "FLAT5", cart.CouponCode)
	assert.True(t, priorDiscount.Equal(cart.Discount))
}

func TestEngine_ApplyCoupon_ReplacesPrevious(t *testing.T) {
	engine := newTestEngine()
	cart := model.NewCart("user-1", fixedNow)

	_, err := engine.AddItem(cart, product("P001", "100.00"), 1, nil)
	require.NoError(t, err)
	require.NoError(t, engine.ApplyCoupon(cart, fixedCoupon("FLAT5", "5", "0"), nil))
	require.NoError(t, engine.ApplyCoupon(cart, percentCoupon("TWENTY", "20", "0"), nil))

	assert.Equal(t, "TWENTY", cart.CouponCode)
	assert.True(t, dec("20.00").Equal(cart.Discount))
}

func TestEngine_ApplyCoupon_Errors(t *testing.T) {
	future := fixedNow.Add(24 * time.Hour)
	zero := 0

	tests := []struct {
		name        string
		cart        *model.Cart
		coupon      *model.Coupon
		remaining   *int
		expectedErr error
	}{
		{
			name:        "No user bound",
			cart:        model.NewCart("", fixedNow),
			coupon:      percentCoupon("TENOFF", "10", "0"),
			expectedErr: model.ErrNotAuthenticated,
		},
		{
			name:        "Unknown code",
			cart:        model.NewCart("user-1", fixedNow),
			coupon:      nil,
			expectedErr: model.ErrCouponNotFound,
		},
		{
			name: "Scheduled coupon",
			cart: model.NewCart("user-1", fixedNow),
			coupon: &model.Coupon{
				Code: "LATER", AmountType: model.AmountTypePercentage,
				DiscountAmount: dec("10"), MinAmount: decimal.Zero, Active: true, ValidFrom: &future,
			},
			expectedErr: model.ErrCouponInactive,
		},
		{
			name:        "Usage exhausted",
			cart:        model.NewCart("user-1", fixedNow),
			coupon:      percentCoupon("TENOFF", "10", "0"),
			remaining:   &zero,
			expectedErr: model.ErrCouponUsageExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine()

			err := engine.ApplyCoupon(tt.cart, tt.coupon, tt.remaining)

			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Empty(t, tt.cart.CouponCode)
			assert.True(t, tt.cart.Discount.IsZero())
		})
	}
}

func TestEngine_RemoveCoupon(t *testing.T) {
	engine := newTestEngine()
	cart := model.NewCart("user-1", fixedNow)
	coupon := percentCoupon("TENOFF", "10", "0")

	_, err := engine.AddItem(cart, product("P001", "100.00"), 2, nil)
	require.NoError(t, err)
	require.NoError(t, engine.ApplyCoupon(cart, coupon, nil))
	applied := cart.Discount

	engine.RemoveCoupon(cart)
	assert.Empty(t, cart.CouponCode)
	assert.True(t, cart.Discount.IsZero())

	// Removing twice is harmless
	engine.RemoveCoupon(cart)
	assert.True(t, cart.Discount.IsZero())

	// Re-applying reproduces the same discount
	require.NoError(t, engine.ApplyCoupon(cart, coupon, nil))
	assert.True(t, applied.Equal(cart.Discount))
}

func TestEngine_Recompute_DropsMissingCoupon(t *testing.T) {
	engine := newTestEngine()
	cart := model.NewCart("user-1", fixedNow)
	cart.CouponCode = "GONE"
	cart.Discount = dec("5.00")

	engine.Recompute(cart, nil)

	assert.Empty(t, cart.CouponCode)
	assert.True(t, cart.Discount.IsZero())
}
