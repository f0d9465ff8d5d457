package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-cart/internal/model"
	"storefront-cart/internal/pricing"
	"storefront-cart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// couponService implements CouponService.
type couponService struct {
	couponRepo repository.CouponRepository
	now        func() time.Time
	logger     zerolog.Logger
}

// NewCouponService creates a new coupon administration service. A nil
// clock uses time.Now.
func NewCouponService(couponRepo repository.CouponRepository, now func() time.Time, logger zerolog.Logger) CouponService {
	if now == nil {
		now = time.Now
	}
	return &couponService{
		couponRepo: couponRepo,
		now:        now,
		logger:     logger.With().Str("service", "coupon").Logger(),
	}
}

func (s *couponService) view(c *model.Coupon, now time.Time) *model.CouponView {
	return &model.CouponView{
		Coupon: *c,
		Status: pricing.Status(c, now),
	}
}

// List returns coupons matching the search text and, when set, the derived status.
func (s *couponService) List(ctx context.Context, filter model.CouponFilter) ([]model.CouponView, error) {
	coupons, err := s.couponRepo.List(ctx, filter.Search)
	if err != nil {
		s.logger.Error().Err(err).Str("search", filter.Search).Msg("failed to list coupons")
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}

	now := s.now()
	views := make([]model.CouponView, 0, len(coupons))
	for i := range coupons {
		v := s.view(&coupons[i], now)
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		views = append(views, *v)
	}

	s.logger.Debug().
		Int("count", len(views)).
		Str("search", filter.Search).
		Str("status", string(filter.Status)).
		Msg("listed coupons")

	return views, nil
}

// GetByID retrieves a coupon by ID.
func (s *couponService) GetByID(ctx context.Context, id uuid.UUID) (*model.CouponView, error) {
	c, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to get coupon")
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if c == nil {
		return nil, model.ErrCouponNotFound
	}
	return s.view(c, s.now()), nil
}

// GetByCode retrieves a coupon by code, ignoring case.
func (s *couponService) GetByCode(ctx context.Context, code string) (*model.CouponView, error) {
	code = model.NormalizeCouponCode(code)
	if code == "" {
		return nil, model.ErrCouponNotFound
	}

	c, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Str("coupon_code", code).Msg("failed to get coupon")
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if c == nil {
		return nil, model.ErrCouponNotFound
	}
	return s.view(c, s.now()), nil
}

func (s *couponService) fromRequest(req *model.CouponRequest) (*model.Coupon, error) {
	if req == nil {
		return nil, model.NewValidationError("coupon is required")
	}

	now := s.now()
	c := &model.Coupon{
		Code:           model.NormalizeCouponCode(req.Code),
		AmountType:     req.AmountType,
		DiscountAmount: req.DiscountAmount,
		MinAmount:      req.MinAmount,
		ValidFrom:      req.ValidFrom,
		ValidUntil:     req.ValidUntil,
		UsageLimit:     req.UsageLimit,
		Category:       req.Category,
		Active:         req.Active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := pricing.ValidateCoupon(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Create validates and stores a new coupon.
func (s *couponService) Create(ctx context.Context, req *model.CouponRequest) (*model.CouponView, error) {
	c, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	c.ID = uuid.New()

	if err := s.couponRepo.Create(ctx, c); err != nil {
		if errors.Is(err, model.ErrValidation) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("coupon_code", c.Code).Msg("failed to create coupon")
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	s.logger.Info().Str("coupon_id", c.ID.String()).Str("coupon_code", c.Code).Msg("coupon created")
	return s.view(c, s.now()), nil
}

// Update replaces the definition of an existing coupon.
func (s *couponService) Update(ctx context.Context, id uuid.UUID, req *model.CouponRequest) (*model.CouponView, error) {
	c, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	c.ID = id

	if err := s.couponRepo.Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			return nil, model.ErrCouponNotFound
		case errors.Is(err, model.ErrValidation):
			return nil, err
		}
		s.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to update coupon")
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}

	s.logger.Info().Str("coupon_id", id.String()).Str("coupon_code", c.Code).Msg("coupon updated")
	return s.view(c, s.now()), nil
}

// Delete permanently removes a coupon. Carts holding its code drop it on
// their next mutation.
func (s *couponService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.couponRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrCouponNotFound
		}
		s.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to delete coupon")
		return fmt.Errorf("failed to delete coupon: %w", err)
	}

	s.logger.Info().Str("coupon_id", id.String()).Msg("coupon deleted")
	return nil
}
