// Package rawbody captures the exact byte sequence of an HTTP request body
// before any parsing occurs. HMAC signatures are computed over the literal
// wire bytes, so re-serializing a parsed body would break verification for
// whitespace or key-order differences.
package rawbody

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"auth-gateway/internal/common/errors"
)

type contextKey struct{}

var bodyKey contextKey

// Capture reads the request body exactly once, attaches the bytes to the
// request context, and re-arms r.Body with a fresh reader so downstream
// body parsing still works.
//
// Capture is idempotent: if the body was already captured by an earlier
// middleware, the stored bytes are returned and the stream is not touched
// again. Bodies larger than maxBytes fail with a payload_too_large error
// and nothing is attached to the request.
func Capture(r *http.Request, maxBytes int64) (*http.Request, []byte, error) {
	if body, ok := FromContext(r.Context()); ok {
		return r, body, nil
	}

	if r.Body == nil {
		body := []byte{}
		return attach(r, body), body, nil
	}

	// Read one byte past the limit so oversize bodies are detectable
	// without buffering them in full.
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return r, nil, errors.InternalError("failed to read request body", err)
	}

	if int64(len(body)) > maxBytes {
		return r, nil, errors.ValidationError("request body exceeds capture limit").
			WithCode(errors.CodePayloadTooLarge).
			WithContext("limit_bytes", maxBytes)
	}

	r.Body = io.NopCloser(bytes.NewReader(body))

	return attach(r, body), body, nil
}

// FromContext returns the raw body bytes previously attached by Capture.
func FromContext(ctx context.Context) ([]byte, bool) {
	body, ok := ctx.Value(bodyKey).([]byte)
	return body, ok
}

// Middleware captures the raw body for every request passing through it.
// Oversize bodies are rejected with 413 before reaching the handler.
func Middleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured, _, err := Capture(r, maxBytes)
			if err != nil {
				status := http.StatusInternalServerError
				if errors.HasCode(err, errors.CodePayloadTooLarge) {
					status = http.StatusRequestEntityTooLarge
				}
				http.Error(w, http.StatusText(status), status)
				return
			}
			next.ServeHTTP(w, captured)
		})
	}
}

func attach(r *http.Request, body []byte) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), bodyKey, body))
}
