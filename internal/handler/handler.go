package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront-cart/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies read by the JSON decoder.
const maxBodyBytes = 1 << 20

// statusByCode maps domain error codes to HTTP status codes.
var statusByCode = map[string]int{
	model.ErrCodeInvalidJSON:             http.StatusBadRequest,
	model.ErrCodeValidation:              http.StatusBadRequest,
	model.ErrCodeNotAuthenticated:        http.StatusUnauthorized,
	model.ErrCodeForbidden:               http.StatusForbidden,
	model.ErrCodeNotFound:                http.StatusNotFound,
	model.ErrCodeCouponNotFound:          http.StatusNotFound,
	model.ErrCodeProductUnavailable:      http.StatusUnprocessableEntity,
	model.ErrCodeCouponInactive:          http.StatusUnprocessableEntity,
	model.ErrCodeCouponMinimumNotMet:     http.StatusUnprocessableEntity,
	model.ErrCodeCouponUsageExceeded:     http.StatusUnprocessableEntity,
	model.ErrCodeCartConflict:            http.StatusConflict,
	model.ErrCodeRateLimited:             http.StatusTooManyRequests,
	model.ErrCodeCollaboratorUnavailable: http.StatusServiceUnavailable,
}

// StatusFor returns the HTTP status and error code for err.
// Errors outside the domain taxonomy are internal errors.
func StatusFor(err error) (int, string) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		if status, ok := statusByCode[domainErr.Code]; ok {
			return status, domainErr.Code
		}
	}
	return http.StatusInternalServerError, model.ErrCodeInternalError
}

// writeJSON writes a JSON response with the given status code. Encoding
// failures are logged; the status line has already been sent.
func writeJSON(w http.ResponseWriter, status int, data any, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Int("status", status).Msg("failed to encode response")
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message}, logger)
}

// respondError maps err onto the error taxonomy and writes it. Internal
// errors are logged in full but reported with a generic message.
func respondError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	status, code := StatusFor(err)
	message := err.Error()

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("internal error")
		message = "internal server error"
	}

	writeError(w, status, code, message, logger)
}

// decodeJSON decodes the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &model.DomainError{
			Code:    model.ErrCodeInvalidJSON,
			Message: "invalid request body",
			Err:     err,
		}
	}
	return nil
}
