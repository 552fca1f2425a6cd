// Package handlers implements the HTTP endpoints sitting behind the
// authentication gateway.
package handlers

import (
	"encoding/json"
	"net/http"

	"auth-gateway/internal/common/logging"
	"auth-gateway/internal/gateway"
	"auth-gateway/internal/redis"
)

// Handlers holds the dependencies shared by all endpoint handlers.
type Handlers struct {
	redis  *redis.Client
	logger logging.Logger
}

// New creates the handler set. redisClient may be nil.
func New(redisClient *redis.Client) *Handlers {
	return &Handlers{
		redis:  redisClient,
		logger: logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "handlers"}),
	}
}

// response is the JSON envelope shared by every endpoint.
type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// HealthCheck reports process liveness and, when wired, Redis health.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"service": "ok"}

	if h.redis != nil {
		if err := h.redis.Health(); err != nil {
			status["redis"] = "unhealthy"
			writeJSON(w, http.StatusServiceUnavailable, response{
				Success: false,
				Message: "dependency unhealthy",
				Data:    status,
			})
			return
		}
		status["redis"] = "ok"
	}

	writeJSON(w, http.StatusOK, response{Success: true, Data: status})
}

// WhoAmI echoes the authenticated principal attached by the gateway.
func (h *Handlers) WhoAmI(w http.ResponseWriter, r *http.Request) {
	principal, ok := gateway.PrincipalFrom(r.Context())
	if !ok {
		// Only reachable if the route was wired without the gateway.
		writeJSON(w, http.StatusUnauthorized, response{
			Success: false,
			Message: "no authenticated principal",
		})
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data: map[string]interface{}{
			"auth_type": string(principal.Type),
			"subject":   principal.Subject,
			"role":      principal.Role,
			"is_hmac":   gateway.IsHMAC(r.Context()),
			"is_jwt":    gateway.IsJWT(r.Context()),
		},
	})
}

// fundRequest is the payload accepted by CreateFundRequest.
type fundRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	PoolID   string  `json:"pool_id,omitempty"`
}

// CreateFundRequest accepts a fund request from an authenticated caller.
// The body has already been captured by the gateway; decoding here works
// against the re-armed stream.
func (h *Handlers) CreateFundRequest(w http.ResponseWriter, r *http.Request) {
	principal, ok := gateway.PrincipalFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, response{
			Success: false,
			Message: "no authenticated principal",
		})
		return
	}

	var req fundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Success: false,
			Message: "invalid JSON body",
		})
		return
	}

	if req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, response{
			Success: false,
			Message: "amount must be positive",
		})
		return
	}
	if req.Currency == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Success: false,
			Message: "currency is required",
		})
		return
	}

	h.logger.Info("Fund request accepted",
		logging.Field{Key: "auth_type", Value: string(principal.Type)},
		logging.Field{Key: "subject", Value: principal.Subject},
		logging.Field{Key: "amount", Value: req.Amount},
		logging.Field{Key: "currency", Value: req.Currency},
	)

	writeJSON(w, http.StatusAccepted, response{
		Success: true,
		Message: "fund request accepted",
		Data: map[string]interface{}{
			"amount":       req.Amount,
			"currency":     req.Currency,
			"pool_id":      req.PoolID,
			"requested_by": principal.Subject,
			"auth_type":    string(principal.Type),
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
