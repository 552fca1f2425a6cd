// Package gateway implements the dual-mode authentication gateway.
//
// Per request it classifies the attempted scheme from headers, dispatches to
// the HMAC or JWT validator, and attaches the resulting principal to the
// request context. Classification and validation are pure; logging happens
// through an observe hook after the decision is made.
package gateway

import (
	"encoding/json"
	"net/http"

	"auth-gateway/internal/common/errors"
	"auth-gateway/internal/common/logging"
	"auth-gateway/internal/hmacsig"
	"auth-gateway/internal/jwtauth"
	"auth-gateway/internal/rawbody"
)

// MessageNoCredentials is returned verbatim when a request carries neither
// HMAC headers nor an authorization header.
const MessageNoCredentials = "Authentication required. Provide either JWT token or HMAC signature."

// Generic rejection messages. Validator-specific detail stays in internal
// logs so rejections cannot be used as an oracle.
const (
	messageInvalidSignature = "Invalid HMAC signature"
	messageInvalidToken     = "Invalid or expired token"
	messageBodyTooLarge     = "Request body too large"
)

// ObserveFunc receives the outcome of every authentication decision.
// err is nil on success. It must not write to the response.
type ObserveFunc func(r *http.Request, attempt Attempt, principal *Principal, err error)

// Gateway routes each request to the validator matching its classified
// scheme. Both validators are injected at construction with their immutable
// secrets; the gateway itself holds no mutable state and is safe for
// concurrent use.
type Gateway struct {
	hmac         *hmacsig.Validator
	jwt          *jwtauth.Validator
	maxBodyBytes int64
	logger       logging.Logger
	observe      ObserveFunc
}

// Option configures optional gateway behavior.
type Option func(*Gateway)

// WithObserver installs a hook invoked after every authentication decision.
func WithObserver(fn ObserveFunc) Option {
	return func(g *Gateway) {
		g.observe = fn
	}
}

// WithLogger overrides the gateway's logger.
func WithLogger(logger logging.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// New creates a gateway from its two validators and the body capture limit.
func New(hmac *hmacsig.Validator, jwt *jwtauth.Validator, maxBodyBytes int64, opts ...Option) *Gateway {
	g := &Gateway{
		hmac:         hmac,
		jwt:          jwt,
		maxBodyBytes: maxBodyBytes,
		logger:       logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "gateway"}),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// RequireAuth authenticates the request and either forwards it with the
// principal attached or terminates it with a normalized failure response.
func (g *Gateway) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempt := Classify(r)

		r, principal, err := g.authenticate(r, attempt)

		g.logDecision(r, attempt, principal, err)
		if g.observe != nil {
			g.observe(r, attempt, principal, err)
		}

		if err != nil {
			g.reject(w, attempt, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// authenticate dispatches the classified attempt to its validator. It is
// pure apart from raw body capture, which may consume the request stream.
func (g *Gateway) authenticate(r *http.Request, attempt Attempt) (*http.Request, *Principal, error) {
	switch attempt.Scheme {
	case SchemeHMAC:
		captured, body, err := rawbody.Capture(r, g.maxBodyBytes)
		if err != nil {
			return r, nil, err
		}

		if err := g.hmac.Validate(r.Method, r.URL.Path, attempt.Timestamp, attempt.Signature, body); err != nil {
			return captured, nil, err
		}

		return captured, &Principal{
			Type:    AuthTypeHMAC,
			Subject: "service",
			Role:    "bot",
		}, nil

	case SchemeJWT:
		claims, err := g.jwt.Validate(attempt.Authorization)
		if err != nil {
			return r, nil, err
		}

		principal := &Principal{
			Type:    AuthTypeJWT,
			Subject: claims.Subject,
			Role:    claims.Role,
		}
		if claims.ExpiresAt != nil {
			principal.ExpiresAt = claims.ExpiresAt.Time
		}
		return r, principal, nil

	default:
		return r, nil, errors.AuthError(MessageNoCredentials).
			WithCode(errors.CodeMissingCredentials)
	}
}

// reject writes the normalized failure response. Missing credentials get the
// verbatim either/or message; validator failures get a generic message per
// scheme; oversize bodies are the one distinctly-surfaced failure.
func (g *Gateway) reject(w http.ResponseWriter, attempt Attempt, err error) {
	status := http.StatusUnauthorized
	message := MessageNoCredentials

	switch {
	case errors.HasCode(err, errors.CodePayloadTooLarge):
		status = http.StatusRequestEntityTooLarge
		message = messageBodyTooLarge
	case attempt.Scheme == SchemeHMAC:
		message = messageInvalidSignature
	case attempt.Scheme == SchemeJWT:
		message = messageInvalidToken
	}

	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// logDecision records the outcome with the internal failure kind. Secrets,
// signatures, and tokens never reach the log.
func (g *Gateway) logDecision(r *http.Request, attempt Attempt, principal *Principal, err error) {
	if err != nil {
		g.logger.Warn("Authentication rejected",
			logging.Field{Key: "scheme", Value: attempt.Scheme.String()},
			logging.Field{Key: "code", Value: errors.GetCode(err)},
			logging.Field{Key: "method", Value: r.Method},
			logging.Field{Key: "path", Value: r.URL.Path},
		)
		return
	}

	g.logger.Debug("Authentication succeeded",
		logging.Field{Key: "auth_type", Value: string(principal.Type)},
		logging.Field{Key: "subject", Value: principal.Subject},
		logging.Field{Key: "path", Value: r.URL.Path},
	)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
