package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// MinItemQuantity is the smallest quantity a line item can hold.
	MinItemQuantity = 1
	// MaxItemQuantity is the largest quantity a line item can hold.
	MaxItemQuantity = 99
)

// Cart is the persisted shopping cart of a single user.
type Cart struct {
	UserID     string          `json:"userId" db:"user_id"`
	CouponCode string          `json:"couponCode" db:"coupon_code"`
	Discount   decimal.Decimal `json:"discount" db:"discount"`
	Version    int64           `json:"version" db:"version"`
	Items      []LineItem      `json:"items"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time       `json:"updatedAt" db:"updated_at"`
}

// LineItem is one product entry in a cart.
// UnitPrice is the catalogue price captured when the product was first added.
type LineItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	ProductID string          `json:"productId" db:"product_id"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Quantity  int             `json:"quantity" db:"quantity"`
	AddedAt   time.Time       `json:"addedAt" db:"added_at"`
}

// MarshalJSON renders the unit price as fixed two-place money.
func (li LineItem) MarshalJSON() ([]byte, error) {
	type lineItem LineItem
	return json.Marshal(struct {
		lineItem
		UnitPrice string `json:"unitPrice"`
	}{
		lineItem:  lineItem(li),
		UnitPrice: FormatMoney(li.UnitPrice),
	})
}

// NewCart returns an empty cart owned by userID.
func NewCart(userID string, now time.Time) *Cart {
	return &Cart{
		UserID:    userID,
		Discount:  decimal.Zero,
		Items:     []LineItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsEmpty reports whether the cart holds no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the total number of units across all line items.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Totals holds the derived pricing figures of a cart.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// CartSnapshot is the read model returned to callers.
type CartSnapshot struct {
	UserID     string          `json:"userId"`
	Items      []LineItem      `json:"items"`
	ItemCount  int             `json:"itemCount"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	CouponCode string          `json:"couponCode"`
	Version    int64           `json:"version"`
}

// MarshalJSON renders the money fields as fixed two-place strings, so a
// total of 180 is sent as "180.00".
func (s CartSnapshot) MarshalJSON() ([]byte, error) {
	type snapshot CartSnapshot
	return json.Marshal(struct {
		snapshot
		Subtotal string `json:"subtotal"`
		Discount string `json:"discount"`
		Total    string `json:"total"`
	}{
		snapshot: snapshot(s),
		Subtotal: FormatMoney(s.Subtotal),
		Discount: FormatMoney(s.Discount),
		Total:    FormatMoney(s.Total),
	})
}

// AddItemRequest represents the request payload for adding a product to a cart.
type AddItemRequest struct {
	ProductID      string `json:"productId"`
	Quantity       int    `json:"quantity"`
	IdempotencyKey string `json:"-"`
}

// ApplyCouponRequest represents the request payload for applying a coupon.
type ApplyCouponRequest struct {
	Code string `json:"code"`
}

// CartCountResponse represents the response payload for the cart item count.
type CartCountResponse struct {
	Count int `json:"count"`
}
