package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auth-gateway/internal/config"
	"auth-gateway/internal/gateway"
	"auth-gateway/internal/hmacsig"
	"auth-gateway/internal/jwtauth"
)

const (
	testJWTSecret  = "0123456789abcdef0123456789abcdef"
	testHMACSecret = "shared-secret"
)

func testApp(t *testing.T) (*App, http.Handler) {
	t.Helper()

	cfg := &config.Config{
		Port:             "8080",
		JWTSecret:        testJWTSecret,
		HMACSharedSecret: testHMACSecret,
		FreshnessWindow:  5 * time.Minute,
		MaxBodyBytes:     1 << 20,
		RateLimitEnabled: false,
		RateLimitDefault: "100",
		RateLimitWindow:  "60s",
	}
	require.NoError(t, cfg.Validate())

	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(app.Cleanup)

	router := mux.NewRouter()
	app.SetupRoutes(router)

	return app, router
}

func signedRequest(t *testing.T, method, path, body string) *http.Request {
	t.Helper()

	r := httptest.NewRequest(method, path, strings.NewReader(body))
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	r.Header.Set("x-timestamp", ts)
	r.Header.Set("x-signature", hmacsig.Sign(testHMACSecret, method, r.URL.Path, ts, []byte(body)))
	return r
}

func bearerRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()

	token, err := jwtauth.NewValidator(testJWTSecret).Issue("user-42", "investor", time.Hour)
	require.NoError(t, err)

	r := httptest.NewRequest(method, path, nil)
	r.Header.Set("authorization", "Bearer "+token)
	return r
}

func TestRoutes_HealthIsPublic(t *testing.T) {
	_, router := testApp(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_ProtectedRequireAuth(t *testing.T) {
	_, router := testApp(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, gateway.MessageNoCredentials, payload["message"])
}

func TestRoutes_SignedFundRequest(t *testing.T) {
	_, router := testApp(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(t, http.MethodPost, "/api/v1/fund-request",
		`{"amount": 100, "currency": "USDT"}`))

	assert.Equal(t, http.StatusAccepted, rec.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, "hmac", data["auth_type"])
	assert.Equal(t, "service", data["requested_by"])
}

func TestRoutes_BearerWhoAmI(t *testing.T) {
	_, router := testApp(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, bearerRequest(t, http.MethodGet, "/api/v1/whoami"))

	assert.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, "jwt", data["auth_type"])
	assert.Equal(t, "user-42", data["subject"])
}

func TestRoutes_TamperedSignatureRejected(t *testing.T) {
	_, router := testApp(t)

	r := signedRequest(t, http.MethodPost, "/api/v1/fund-request", `{"amount": 100, "currency": "USDT"}`)
	// Replace the body after signing.
	r.Body = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"amount": 999, "currency": "USDT"}`)).Body

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
