// Package hmacsig verifies HMAC-SHA256 request signatures for
// service-to-service callers.
//
// The signature is computed over the canonical string
//
//	method + path + timestamp + body
//
// with no delimiters; order and exact field representation matter
// bit-for-bit. The hex digest is carried in the x-signature header with a
// "sha256=" prefix, and the x-timestamp header carries milliseconds since
// epoch as a decimal string.
//
// All digest comparisons use hmac.Equal so that verification time is
// independent of how much of the signature matches.
package hmacsig

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"auth-gateway/internal/common/errors"
)

// SignaturePrefix is the scheme tag expected on the x-signature header value.
const SignaturePrefix = "sha256="

// Validator verifies signed requests against a shared secret.
// The secret and freshness window are fixed at construction and safe for
// concurrent use.
type Validator struct {
	secret []byte
	window time.Duration
}

// NewValidator creates a validator for the given shared secret.
// If window is zero or negative, a 5 minute freshness window is used.
func NewValidator(secret string, window time.Duration) *Validator {
	if window <= 0 {
		window = 5 * time.Minute
	}
	return &Validator{
		secret: []byte(secret),
		window: window,
	}
}

// Validate checks the supplied signature against the expected digest for
// method, path, timestamp, and raw body.
//
// Failure codes, in check order:
//   - missing_credentials: signature or timestamp header absent
//   - invalid_timestamp: timestamp is not a decimal number
//   - stale_signature: |now - timestamp| exceeds the freshness window
//   - signature_mismatch: digest comparison failed
func (v *Validator) Validate(method, path, timestamp, signature string, body []byte) error {
	if signature == "" || timestamp == "" {
		return errors.AuthError("missing signature or timestamp header").
			WithCode(errors.CodeMissingCredentials)
	}

	millis, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return errors.AuthError("timestamp is not a valid number").
			WithCode(errors.CodeInvalidTimestamp)
	}

	signedAt := time.UnixMilli(millis)
	age := time.Since(signedAt)
	if age < 0 {
		age = -age
	}
	if age > v.window {
		return errors.AuthError("signature timestamp outside freshness window").
			WithCode(errors.CodeStaleSignature).
			WithContext("age", age.String())
	}

	provided := strings.TrimPrefix(signature, SignaturePrefix)
	expected := computeDigest(v.secret, method, path, timestamp, body)

	if !hmac.Equal([]byte(provided), []byte(expected)) {
		return errors.AuthError("signature mismatch").
			WithCode(errors.CodeSignatureMismatch)
	}

	return nil
}

// Sign computes the signature header value for a request, including the
// "sha256=" prefix. It is the documented client-side signing procedure and
// doubles as the round-trip fixture for verification tests.
func Sign(secret, method, path, timestamp string, body []byte) string {
	return SignaturePrefix + computeDigest([]byte(secret), method, path, timestamp, body)
}

// computeDigest builds the canonical string and returns its hex HMAC-SHA256.
func computeDigest(secret []byte, method, path, timestamp string, body []byte) string {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write([]byte(timestamp))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
