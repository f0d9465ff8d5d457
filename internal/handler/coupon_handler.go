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

// CouponHandler handles coupon administration requests.
type CouponHandler struct {
	service service.CouponService
	logger  zerolog.Logger
}

// NewCouponHandler creates a new coupon handler.
func NewCouponHandler(service service.CouponService, logger zerolog.Logger) *CouponHandler {
	return &CouponHandler{
		service: service,
		logger:  logger.With().Str("handler", "coupon").Logger(),
	}
}

// List handles GET /api/coupons?search=&status=.
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.CouponFilter{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := model.ParseCouponStatus(raw)
		if !ok {
			respondError(w, model.NewValidationError("invalid status %q", raw), h.logger)
			return
		}
		filter.Status = status
	}

	coupons, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, coupons, h.logger)
}

// GetByID handles GET /api/coupons/{id}.
func (h *CouponHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.couponID(w, r)
	if !ok {
		return
	}

	coupon, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, coupon, h.logger)
}

// GetByCode handles GET /api/coupons/code/{code}.
func (h *CouponHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	coupon, err := h.service.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, coupon, h.logger)
}

// Create handles POST /api/coupons.
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CouponRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err, h.logger)
		return
	}

	coupon, err := h.service.Create(r.Context(), &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, coupon, h.logger)
}

// Update handles PUT /api/coupons/{id}.
func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.couponID(w, r)
	if !ok {
		return
	}

	var req model.CouponRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err, h.logger)
		return
	}

	coupon, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, coupon, h.logger)
}

// Delete handles DELETE /api/coupons/{id}.
func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.couponID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CouponHandler) couponID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, model.NewValidationError("invalid coupon ID format"), h.logger)
		return uuid.Nil, false
	}
	return id, true
}
