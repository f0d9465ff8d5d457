package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AmountType selects how a coupon's discount amount is interpreted.
type AmountType string

const (
	AmountTypePercentage AmountType = "PERCENTAGE"
	AmountTypeFixed      AmountType = "FIXED"
)

// CouponStatus is the display status derived from a coupon's flags and window.
type CouponStatus string

const (
	CouponStatusActive    CouponStatus = "ACTIVE"
	CouponStatusInactive  CouponStatus = "INACTIVE"
	CouponStatusScheduled CouponStatus = "SCHEDULED"
	CouponStatusExpired   CouponStatus = "EXPIRED"
)

// ParseCouponStatus parses a status filter value, ignoring case.
func ParseCouponStatus(s string) (CouponStatus, bool) {
	switch CouponStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case CouponStatusActive:
		return CouponStatusActive, true
	case CouponStatusInactive:
		return CouponStatusInactive, true
	case CouponStatusScheduled:
		return CouponStatusScheduled, true
	case CouponStatusExpired:
		return CouponStatusExpired, true
	default:
		return "", false
	}
}

// Coupon is a named discount rule.
type Coupon struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	Code           string          `json:"code" db:"code"`
	AmountType     AmountType      `json:"amountType" db:"amount_type"`
	DiscountAmount decimal.Decimal `json:"discountAmount" db:"discount_amount"`
	MinAmount      decimal.Decimal `json:"minAmount" db:"min_amount"`
	ValidFrom      *time.Time      `json:"validFrom,omitempty" db:"valid_from"`
	ValidUntil     *time.Time      `json:"validUntil,omitempty" db:"valid_until"`
	UsageLimit     *int            `json:"usageLimit,omitempty" db:"usage_limit"`
	TimesUsed      int             `json:"timesUsed" db:"times_used"`
	Category       *string         `json:"category,omitempty" db:"category"`
	Active         bool            `json:"active" db:"active"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}

// NormalizeCouponCode returns the canonical, upper-case form of a coupon code.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CouponRequest represents the payload for creating or updating a coupon.
type CouponRequest struct {
	Code           string          `json:"code"`
	AmountType     AmountType      `json:"amountType"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	MinAmount      decimal.Decimal `json:"minAmount"`
	ValidFrom      *time.Time      `json:"validFrom,omitempty"`
	ValidUntil     *time.Time      `json:"validUntil,omitempty"`
	UsageLimit     *int            `json:"usageLimit,omitempty"`
	Category       *string         `json:"category,omitempty"`
	Active         bool            `json:"active"`
}

// CouponView is a coupon together with its derived status.
type CouponView struct {
	Coupon
	Status CouponStatus `json:"status"`
}

// CouponFilter narrows a coupon listing.
type CouponFilter struct {
	// Search matches the code or category, case-insensitively.
	Search string
	Status CouponStatus
}
