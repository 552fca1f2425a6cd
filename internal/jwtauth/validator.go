// Package jwtauth verifies bearer tokens for interactive (user) callers.
//
// The validator is a thin wrapper over github.com/golang-jwt/jwt/v5: tokens
// must be signed HS256 with the process-wide key, carry an expiry, and be
// presented as "Bearer <token>" in the authorization header. Tokens signed
// with a different key or with algorithm "none" are rejected.
package jwtauth

import (
	stderrors "errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"auth-gateway/internal/common/errors"
)

// Claims is the verified claim set attached to JWT-authenticated requests.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Validator verifies bearer tokens against a fixed signing key.
// The key is set at construction and safe for concurrent use.
type Validator struct {
	key []byte
}

// NewValidator creates a validator for the given HS256 signing key.
func NewValidator(key string) *Validator {
	return &Validator{key: []byte(key)}
}

// Validate extracts the token from an authorization header value and
// verifies its signature and expiry.
//
// Failure codes:
//   - malformed_header: header is not "Bearer <token>" or the token is empty
//   - token_expired: well-signed token past its expiry
//   - invalid_token: bad signature, wrong algorithm, or undecodable token
func (v *Validator) Validate(authHeader string) (*Claims, error) {
	tokenString, err := extractBearer(authHeader)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.AuthError("token has expired").
				WithCode(errors.CodeTokenExpired)
		}
		return nil, errors.AuthError("token verification failed").
			WithCode(errors.CodeInvalidToken)
	}

	if !token.Valid {
		return nil, errors.AuthError("token is not valid").
			WithCode(errors.CodeInvalidToken)
	}

	return claims, nil
}

// Issue mints an HS256 token for the given subject and role, expiring after
// ttl. Used by the platform's token-issuing endpoint and as a test fixture.
func (v *Validator) Issue(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.key)
	if err != nil {
		return "", errors.InternalError("failed to sign token", err)
	}

	return signed, nil
}

// extractBearer pulls the token out of a "Bearer <token>" header value.
func extractBearer(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.AuthError("missing authorization header").
			WithCode(errors.CodeMalformedHeader)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.AuthError("authorization header must be 'Bearer <token>'").
			WithCode(errors.CodeMalformedHeader)
	}

	return parts[1], nil
}
