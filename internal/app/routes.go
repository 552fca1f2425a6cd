package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"auth-gateway/internal/handlers"
	"auth-gateway/internal/middleware"
)

// SetupRoutes wires the public surface: an unauthenticated health check and
// the protected API behind the gateway, all rate limited per caller IP.
func (app *App) SetupRoutes(router *mux.Router) {
	h := handlers.New(app.RedisClient)

	router.Use(middleware.LoggingMiddleware)
	router.Use(app.RateLimiter.HTTPMiddleware(ratelimitKey))

	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(app.Gateway.RequireAuth)
	api.HandleFunc("/fund-request", h.CreateFundRequest).Methods(http.MethodPost)
	api.HandleFunc("/whoami", h.WhoAmI).Methods(http.MethodGet)
}

func ratelimitKey(r *http.Request) string {
	// Health probes are not throttled.
	if r.URL.Path == "/health" {
		return ""
	}
	return "ip:" + clientIP(r)
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
