package auth

import (
	"errors"
	"fmt"
	"time"

	"storefront-cart/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload. The subject is the user ID.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 bearer tokens.
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewVerifier creates a verifier for tokens signed with secret. A non-empty
// issuer is required to match the token's iss claim.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

// Verify parses and validates a token and returns the identity it carries.
// Every failure is a NOT_AUTHENTICATED domain error.
func (v *Verifier) Verify(token string) (Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return Identity{}, unauthenticated(err)
	}

	if claims.Subject == "" {
		return Identity{}, unauthenticated(errors.New("token has no subject"))
	}

	role, err := ParseRole(claims.Role)
	if err != nil {
		return Identity{}, unauthenticated(err)
	}

	return Identity{UserID: claims.Subject, Role: role}, nil
}

// Issue signs a token for identity that expires after ttl.
func (v *Verifier) Issue(identity Identity, ttl time.Duration) (string, error) {
	now := v.now()
	claims := Claims{
		Role: string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func unauthenticated(err error) error {
	return &model.DomainError{
		Code:    model.ErrCodeNotAuthenticated,
		Message: "Invalid bearer token",
		Err:     err,
	}
}
