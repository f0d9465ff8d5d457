package middleware

import (
	"errors"
	"net/http"

	"storefront-cart/internal/auth"
	"storefront-cart/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// TokenVerifier turns a bearer token into an identity.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// Authenticate requires a valid bearer token and stores the caller's
// identity in the request context.
func Authenticate(verifier TokenVerifier, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("missing bearer token")
				writeError(w, http.StatusUnauthorized, model.ErrCodeNotAuthenticated, model.ErrNotAuthenticated.Message)
				return
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("invalid bearer token")
				message := model.ErrNotAuthenticated.Message
				var domainErr *model.DomainError
				if errors.As(err, &domainErr) {
					message = domainErr.Message
				}
				writeError(w, http.StatusUnauthorized, model.ErrCodeNotAuthenticated, message)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireAdmin rejects callers that do not hold the admin role.
func RequireAdmin(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.FromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, model.ErrCodeNotAuthenticated, model.ErrNotAuthenticated.Message)
				return
			}
			if !identity.IsAdmin() {
				logger.Warn().
					Str("user_id", identity.UserID).
					Str("role", string(identity.Role)).
					Str("path", r.URL.Path).
					Msg("admin role required")
				writeError(w, http.StatusForbidden, model.ErrCodeForbidden, model.ErrForbidden.Message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CartOwner lets a caller address only the cart named by the userParam
// route parameter, unless the caller is an admin.
func CartOwner(userParam string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.FromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, model.ErrCodeNotAuthenticated, model.ErrNotAuthenticated.Message)
				return
			}

			target := chi.URLParam(r, userParam)
			if !identity.CanAccessCart(target) {
				logger.Warn().
					Str("user_id", identity.UserID).
					Str("target_user_id", target).
					Msg("cart access denied")
				writeError(w, http.StatusForbidden, model.ErrCodeForbidden, model.ErrForbidden.Message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
