package gateway

import (
	"context"
	"time"
)

// AuthType is the classification recorded on an authenticated request.
type AuthType string

const (
	// AuthTypeHMAC marks requests authenticated by request signature.
	AuthTypeHMAC AuthType = "hmac"
	// AuthTypeJWT marks requests authenticated by bearer token.
	AuthTypeJWT AuthType = "jwt"
)

// Principal is the outcome of a successful validation, attached to the
// request context and discarded with it. HMAC callers carry a fixed
// service classification; JWT callers carry their verified claims.
type Principal struct {
	Type      AuthType
	Subject   string
	Role      string
	ExpiresAt time.Time // zero for HMAC principals
}

type contextKey struct{}

var principalKey contextKey

// WithPrincipal returns a context carrying the authenticated principal.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom returns the principal attached by the gateway, if any.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}

// IsHMAC reports whether the request was authenticated via request signature.
func IsHMAC(ctx context.Context) bool {
	p, ok := PrincipalFrom(ctx)
	return ok && p.Type == AuthTypeHMAC
}

// IsJWT reports whether the request was authenticated via bearer token.
func IsJWT(ctx context.Context) bool {
	p, ok := PrincipalFrom(ctx)
	return ok && p.Type == AuthTypeJWT
}

// AuthTypeOf returns the classified authentication type, or empty string for
// an unauthenticated context.
func AuthTypeOf(ctx context.Context) AuthType {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return ""
	}
	return p.Type
}
