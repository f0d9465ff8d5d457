package coupon

import (
	"storefront-cart/internal/model"
)

// MapSet implements Set using a map for O(1) lookups.
type MapSet struct {
	coupons map[string]model.Coupon
	order   []string
}

// NewMapSet creates a new map-based coupon set.
func NewMapSet(capacity int) *MapSet {
	return &MapSet{
		coupons: make(map[string]model.Coupon, capacity),
		order:   make([]string, 0, capacity),
	}
}

// Get returns the definition for code.
func (s *MapSet) Get(code string) (model.Coupon, bool) {
	c, ok := s.coupons[model.NormalizeCouponCode(code)]
	return c, ok
}

// Contains checks if a coupon code exists in the set.
func (s *MapSet) Contains(code string) bool {
	_, exists := s.coupons[model.NormalizeCouponCode(code)]
	return exists
}

// Size returns the number of coupons in the set.
func (s *MapSet) Size() int {
	return len(s.coupons)
}

// Coupons returns the definitions in first-added order.
func (s *MapSet) Coupons() []model.Coupon {
	out := make([]model.Coupon, 0, len(s.order))
	for _, code := range s.order {
		out = append(out, s.coupons[code])
	}
	return out
}

// Add stores c under its normalised code, replacing any earlier definition.
func (s *MapSet) Add(c model.Coupon) {
	c.Code = model.NormalizeCouponCode(c.Code)
	if _, exists := s.coupons[c.Code]; !exists {
		s.order = append(s.order, c.Code)
	}
	s.coupons[c.Code] = c
}

// Merge adds every coupon from other; definitions in other win.
func (s *MapSet) Merge(other Set) {
	for _, c := range other.Coupons() {
		s.Add(c)
	}
}
