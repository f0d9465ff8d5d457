package service

import (
	"context"
	"errors"
	"time"

	"storefront-cart/internal/events"
	"storefront-cart/internal/metrics"
	"storefront-cart/internal/model"
	"storefront-cart/internal/pricing"
	"storefront-cart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo  repository.CartRepository
	catalog   CatalogLookup
	registry  CouponRegistry
	engine    *pricing.Engine
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewCartService creates a new cart service. A nil publisher discards events.
func NewCartService(
	cartRepo repository.CartRepository,
	catalog CatalogLookup,
	registry CouponRegistry,
	engine *pricing.Engine,
	publisher events.Publisher,
	logger zerolog.Logger,
) CartService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &cartService{
		cartRepo:  cartRepo,
		catalog:   catalog,
		registry:  registry,
		engine:    engine,
		publisher: publisher,
		logger:    logger.With().Str("service", "cart").Logger(),
	}
}

// cartMutation changes cart inside the transaction and reports the event to
// publish. An empty event type means nothing changed.
type cartMutation func(ctx context.Context, tx pgx.Tx, cart *model.Cart) (events.Type, error)

// GetCart returns the user's cart snapshot.
func (s *cartService) GetCart(ctx context.Context, userID string) (snapshot *model.CartSnapshot, err error) {
	start := time.Now()
	defer func() { metrics.RecordCartOperation("get_cart", err, time.Since(start).Seconds()) }()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return pricing.Snapshot(cart), nil
}

// CountItems returns the number of units in the user's cart.
func (s *cartService) CountItems(ctx context.Context, userID string) (count int, err error) {
	start := time.Now()
	defer func() { metrics.RecordCartOperation("count_items", err, time.Since(start).Seconds()) }()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}

func (s *cartService) load(ctx context.Context, userID string) (*model.Cart, error) {
	if userID == "" {
		return nil, model.ErrNotAuthenticated
	}

	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load cart")
		return nil, model.NewCollaboratorError("cart store", err)
	}
	if cart == nil {
		cart = model.NewCart(userID, s.engine.Now())
	}
	return cart, nil
}

// AddItem adds a product to the cart. A repeated idempotency key returns the
// current cart without adding again.
func (s *cartService) AddItem(ctx context.Context, userID string, req *model.AddItemRequest) (*model.CartSnapshot, error) {
	if req == nil || req.ProductID == "" {
		return nil, model.NewValidationError("productId is required")
	}
	if _, err := pricing.ValidateQuantity(req.Quantity); err != nil {
		return nil, err
	}

	return s.mutate(ctx, "add_item", userID, func(ctx context.Context, tx pgx.Tx, cart *model.Cart) (events.Type, error) {
		if req.IdempotencyKey != "" {
			fresh, err := s.cartRepo.RecordRequest(ctx, tx, userID, req.IdempotencyKey)
			if err != nil {
				return "", model.NewCollaboratorError("cart store", err)
			}
			if !fresh {
				s.logger.Info().
					Str("user_id", userID).
					Str("idempotency_key", req.IdempotencyKey).
					Msg("replayed add item request")
				return "", nil
			}
		}

		product, err := s.catalog.GetProduct(ctx, req.ProductID)
		if err != nil {
			return "", err
		}

		bound, err := s.boundCoupon(ctx, cart)
		if err != nil {
			return "", err
		}

		item, err := s.engine.AddItem(cart, product, req.Quantity, bound)
		if err != nil {
			return "", err
		}

		s.logger.Info().
			Str("user_id", userID).
			Str("product_id", item.ProductID).
			Int("quantity", item.Quantity).
			Msg("item added to cart")
		return events.TypeItemAdded, nil
	})
}

// RemoveItem removes a line item from the cart.
func (s *cartService) RemoveItem(ctx context.Context, userID string, lineItemID uuid.UUID) (*model.CartSnapshot, error) {
	return s.mutate(ctx, "remove_item", userID, func(ctx context.Context, tx pgx.Tx, cart *model.Cart) (events.Type, error) {
		bound, err := s.boundCoupon(ctx, cart)
		if err != nil {
			return "", err
		}

		if !s.engine.RemoveItem(cart, lineItemID, bound) {
			s.logger.Debug().
				Str("user_id", userID).
				Str("line_item_id", lineItemID.String()).
				Msg("line item not in cart")
			return "", nil
		}

		if cart.IsEmpty() {
			return events.TypeCartEmptied, nil
		}
		return events.TypeItemRemoved, nil
	})
}

// ApplyCoupon binds a coupon to the cart.
func (s *cartService) ApplyCoupon(ctx context.Context, userID, code string) (*model.CartSnapshot, error) {
	code = model.NormalizeCouponCode(code)

	return s.mutate(ctx, "apply_coupon", userID, func(ctx context.Context, tx pgx.Tx, cart *model.Cart) (_ events.Type, err error) {
		defer func() { metrics.RecordCouponApplication(err) }()

		coupon, err := s.registry.GetCouponByCode(ctx, code)
		if err != nil {
			return "", model.NewCollaboratorError("coupon registry", err)
		}

		var remaining *int
		if coupon != nil {
			remaining, err = s.registry.GetRemainingUses(ctx, code)
			if err != nil {
				return "", model.NewCollaboratorError("coupon registry", err)
			}
		}

		// Eligibility errors take precedence over the empty cart check.
		err = pricing.CheckEligibility(coupon, pricing.Subtotal(cart.Items), remaining, s.engine.Now())
		if err == nil && cart.IsEmpty() {
			err = model.NewValidationError("cannot apply a coupon to an empty cart")
		}
		if err == nil {
			err = s.engine.ApplyCoupon(cart, coupon, remaining)
		}
		if err != nil {
			s.logger.Info().
				Str("user_id", userID).
				Str("coupon_code", code).
				Str("reason", metrics.Result(err)).
				Msg("coupon rejected")
			return "", err
		}

		s.logger.Info().
			Str("user_id", userID).
			Str("coupon_code", code).
			Str("discount", cart.Discount.String()).
			Msg("coupon applied")
		return events.TypeCouponApplied, nil
	})
}

// RemoveCoupon clears the applied coupon.
func (s *cartService) RemoveCoupon(ctx context.Context, userID string) (*model.CartSnapshot, error) {
	return s.mutate(ctx, "remove_coupon", userID, func(ctx context.Context, tx pgx.Tx, cart *model.Cart) (events.Type, error) {
		if cart.CouponCode == "" {
			return "", nil
		}
		s.engine.RemoveCoupon(cart)
		return events.TypeCouponRemoved, nil
	})
}

// boundCoupon resolves the definition of the coupon currently on cart.
func (s *cartService) boundCoupon(ctx context.Context, cart *model.Cart) (*model.Coupon, error) {
	if cart.CouponCode == "" {
		return nil, nil
	}
	coupon, err := s.registry.GetCouponByCode(ctx, cart.CouponCode)
	if err != nil {
		return nil, model.NewCollaboratorError("coupon registry", err)
	}
	return coupon, nil
}

// mutate runs fn against the locked cart of userID and persists the result.
// Any error rolls the transaction back, leaving the stored cart untouched.
func (s *cartService) mutate(ctx context.Context, operation, userID string, fn cartMutation) (snapshot *model.CartSnapshot, err error) {
	start := time.Now()
	logger := s.logger.With().Str("operation", operation).Str("user_id", userID).Logger()
	defer func() { metrics.RecordCartOperation(operation, err, time.Since(start).Seconds()) }()

	if userID == "" {
		return nil, model.ErrNotAuthenticated
	}

	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, model.NewCollaboratorError("cart store", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	cart, err := s.cartRepo.GetForUpdate(ctx, tx, userID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to lock cart")
		return nil, model.NewCollaboratorError("cart store", err)
	}
	if cart == nil {
		cart = model.NewCart(userID, s.engine.Now())
	}

	eventType, err := fn(ctx, tx, cart)
	if err != nil {
		return nil, err
	}

	if eventType != "" {
		if err = s.persist(ctx, tx, cart); err != nil {
			logger.Error().Err(err).Msg("failed to persist cart")
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to commit transaction")
		return nil, model.NewCollaboratorError("cart store", err)
	}

	snapshot = pricing.Snapshot(cart)

	if eventType != "" {
		if pubErr := s.publisher.Publish(ctx, events.NewCartEvent(eventType, snapshot, s.engine.Now())); pubErr != nil {
			logger.Warn().Err(pubErr).Str("event_type", string(eventType)).Msg("failed to publish cart event")
		}
	}

	logger.Debug().
		Int("item_count", snapshot.ItemCount).
		Str("total", snapshot.Total.String()).
		Int64("version", snapshot.Version).
		Msg("cart operation complete")

	return snapshot, nil
}

// persist saves a non-empty cart and deletes an emptied one.
func (s *cartService) persist(ctx context.Context, tx pgx.Tx, cart *model.Cart) error {
	if cart.IsEmpty() {
		if cart.Version == 0 {
			return nil
		}
		if err := s.cartRepo.Delete(ctx, tx, cart.UserID); err != nil {
			return model.NewCollaboratorError("cart store", err)
		}
		cart.Version = 0
		return nil
	}

	if err := s.cartRepo.Save(ctx, tx, cart); err != nil {
		if errors.Is(err, model.ErrCartConflict) {
			return err
		}
		return model.NewCollaboratorError("cart store", err)
	}
	return nil
}
