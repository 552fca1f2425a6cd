package gateway

import "net/http"

// Header names owned by the gateway's HTTP contract.
const (
	HeaderSignature     = "x-signature"
	HeaderTimestamp     = "x-timestamp"
	HeaderAuthorization = "authorization"
)

// Scheme identifies the authentication scheme a request attempts.
type Scheme int

const (
	// SchemeNone means no recognizable credentials were supplied.
	SchemeNone Scheme = iota
	// SchemeHMAC means both signature and timestamp headers are present.
	SchemeHMAC
	// SchemeJWT means an authorization header is present.
	SchemeJWT
)

// String returns the wire name of the scheme.
func (s Scheme) String() string {
	switch s {
	case SchemeHMAC:
		return "hmac"
	case SchemeJWT:
		return "jwt"
	default:
		return "none"
	}
}

// Attempt is the tagged classification of a request's credentials, computed
// once per request. Only the fields belonging to the classified scheme are
// populated.
type Attempt struct {
	Scheme        Scheme
	Signature     string // HMAC path
	Timestamp     string // HMAC path
	Authorization string // JWT path
}

// Classify inspects request headers and decides which authentication scheme
// the caller is attempting. HMAC takes precedence over JWT when both header
// sets are present, so signed service calls are never downgraded to user
// handling by a stale authorization header.
//
// Classify is pure: it never reads the body and has no side effects.
func Classify(r *http.Request) Attempt {
	signature := r.Header.Get(HeaderSignature)
	timestamp := r.Header.Get(HeaderTimestamp)

	if signature != "" && timestamp != "" {
		return Attempt{
			Scheme:    SchemeHMAC,
			Signature: signature,
			Timestamp: timestamp,
		}
	}

	if auth := r.Header.Get(HeaderAuthorization); auth != "" {
		return Attempt{
			Scheme:        SchemeJWT,
			Authorization: auth,
		}
	}

	return Attempt{Scheme: SchemeNone}
}
