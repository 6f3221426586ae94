package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	redisinfra "github.com/yourorg/propmanager/internal/infrastructure/redis"
	"github.com/yourorg/propmanager/pkg/database"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	pool        *database.ConnectionPool
	redisClient *redisinfra.Client
	logger      *slog.Logger
}

// NewHealthHandler creates a new health handler. Nil dependencies mean the
// server runs on in-memory stores and are reported as such, not as errors.
func NewHealthHandler(
	pool *database.ConnectionPool,
	redisClient *redisinfra.Client,
	logger *slog.Logger,
) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthHandler{
		pool:        pool,
		redisClient: redisClient,
		logger:      logger,
	}
}

// HealthResponse represents the health status response
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health handles GET /healthz - Simple liveness check
// Returns 200 if the server is running
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// Ready handles GET /readyz - Readiness check for orchestrators
// Returns 200 only if all configured dependencies are healthy
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	// Check Postgres
	if h.pool != nil {
		if err := h.pool.Health(ctx); err != nil {
			checks["postgres"] = "error: " + err.Error()
			allHealthy = false
		} else {
			checks["postgres"] = "ok"
		}
	} else {
		checks["postgres"] = "memory mode"
	}

	// Check Redis
	if h.redisClient != nil {
		if err := h.redisClient.Ping(ctx); err != nil {
			checks["redis"] = "error: " + err.Error()
			allHealthy = false
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "not configured"
	}

	status := "ready"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	response := ReadinessResponse{
		Status: status,
		Checks: checks,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)

	h.logger.Info("readiness check",
		slog.String("status", status),
		slog.String("postgres", checks["postgres"]),
		slog.String("redis", checks["redis"]),
	)
}
