package handler

import (
	"net/http"
	"strings"

	"storefront-cart/internal/model"
	"storefront-cart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// IdempotencyKeyHeader carries the client-chosen key that makes AddItem retry safe.
const IdempotencyKeyHeader = "Idempotency-Key"

// CartHandler handles cart-related HTTP requests. Callers are expected to
// have checked that the identity may address the cart in the path.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/carts/{userID}.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.GetCart(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, snapshot, h.logger)
}

// Count handles GET /api/carts/{userID}/count.
func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CountItems(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.CartCountResponse{Count: count}, h.logger)
}

// AddItem handles POST /api/carts/{userID}/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req model.AddItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err, h.logger)
		return
	}
	req.IdempotencyKey = strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))

	snapshot, err := h.service.AddItem(r.Context(), chi.URLParam(r, "userID"), &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, snapshot, h.logger)
}

// RemoveItem handles DELETE /api/carts/{userID}/items/{lineItemID}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	lineItemID, err := uuid.Parse(chi.URLParam(r, "lineItemID"))
	if err != nil {
		respondError(w, model.NewValidationError("invalid line item ID format"), h.logger)
		return
	}

	snapshot, err := h.service.RemoveItem(r.Context(), chi.URLParam(r, "userID"), lineItemID)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, snapshot, h.logger)
}

// ApplyCoupon handles POST /api/carts/{userID}/coupon.
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req model.ApplyCouponRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err, h.logger)
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		respondError(w, model.NewValidationError("code is required"), h.logger)
		return
	}

	snapshot, err := h.service.ApplyCoupon(r.Context(), chi.URLParam(r, "userID"), req.Code)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, snapshot, h.logger)
}

// RemoveCoupon handles DELETE /api/carts/{userID}/coupon.
func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.RemoveCoupon(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, snapshot, h.logger)
}
