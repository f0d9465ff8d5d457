// Package events publishes cart change notifications for downstream
// consumers such as analytics and abandoned-cart mailers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"storefront-cart/internal/model"

	"github.com/shopspring/decimal"
)

// Type identifies the kind of cart change. It doubles as the routing key.
type Type string

const (
	TypeItemAdded     Type = "cart.item_added"
	TypeItemRemoved   Type = "cart.item_removed"
	TypeCouponApplied Type = "cart.coupon_applied"
	TypeCouponRemoved Type = "cart.coupon_removed"
	TypeCartEmptied   Type = "cart.emptied"
)

// CartEvent describes the state of a cart after a committed mutation.
type CartEvent struct {
	Type       Type            `json:"type"`
	UserID     string          `json:"userId"`
	ItemCount  int             `json:"itemCount"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	CouponCode string          `json:"couponCode,omitempty"`
	Version    int64           `json:"version"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// MarshalJSON renders the money fields as fixed two-place strings.
func (e CartEvent) MarshalJSON() ([]byte, error) {
	type cartEvent CartEvent
	return json.Marshal(struct {
		cartEvent
		Subtotal string `json:"subtotal"`
		Discount string `json:"discount"`
		Total    string `json:"total"`
	}{
		cartEvent: cartEvent(e),
		Subtotal:  model.FormatMoney(e.Subtotal),
		Discount:  model.FormatMoney(e.Discount),
		Total:     model.FormatMoney(e.Total),
	})
}

// NewCartEvent builds an event from a cart snapshot.
func NewCartEvent(t Type, snapshot *model.CartSnapshot, at time.Time) CartEvent {
	return CartEvent{
		Type:       t,
		UserID:     snapshot.UserID,
		ItemCount:  snapshot.ItemCount,
		Subtotal:   snapshot.Subtotal,
		Discount:   snapshot.Discount,
		Total:      snapshot.Total,
		CouponCode: snapshot.CouponCode,
		Version:    snapshot.Version,
		OccurredAt: at,
	}
}

// Publisher sends cart events. Publishing is best effort: callers log
// failures and never fail the committed mutation because of them.
type Publisher interface {
	Publish(ctx context.Context, event CartEvent) error
	Close() error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, CartEvent) error { return nil }
func (NopPublisher) Close() error { return nil }
