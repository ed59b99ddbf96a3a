// Package handler provides HTTP handlers for the SwiftCab API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/swiftcab/swiftcab/internal/api/models"
	"github.com/swiftcab/swiftcab/internal/api/response"
	"github.com/swiftcab/swiftcab/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry

	// storeCheck pings the booking store. Nil when the deployment uses the
	// in-memory store, which cannot fail.
	storeCheck func(context.Context) error
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry, storeCheck func(context.Context) error) *OpsHandler {
	return &OpsHandler{
		version:    version,
		buildTime:  buildTime,
		registry:   registry,
		storeCheck: storeCheck,
	}
}

// Ping handles GET /ping - liveness check for the browser frontend.
func (h *OpsHandler) Ping(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Ping{
		Status:  "OK",
		Message: "Backend running",
	})
}

// HealthCheck handles GET /ops/health - liveness check with build info.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /ops/status - circuit breaker state of every
// registered provider. Quote building degrades gracefully when weather or
// the approach leg is down, so an open circuit reports DEGRADED overall
// rather than FAIL.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	overall := models.HealthStatusOK

	var providers []models.ProviderStatus
	if h.registry != nil {
		for _, ph := range h.registry.GetAllHealth() {
			status := circuitToHealth(ph.CircuitState)
			if status != models.HealthStatusOK {
				overall = models.HealthStatusDegraded
			}

			p := models.ProviderStatus{
				Provider:      ph.Name,
				Status:        status,
				LastSuccessAt: timestampPtr(ph.LastSuccessAt),
				LastFailureAt: timestampPtr(ph.LastFailureAt),
			}
			if ph.LastError != "" {
				msg := ph.LastError
				p.Message = &msg
			}
			providers = append(providers, p)
		}
	}

	var subsystems []models.SubsystemStatus
	if h.storeCheck != nil {
		store := models.SubsystemStatus{Name: "booking-store", Status: models.HealthStatusOK}
		if err := h.storeCheck(r.Context()); err != nil {
			detail := err.Error()
			store.Status = models.HealthStatusFail
			store.Detail = &detail
			overall = models.HealthStatusDegraded
		}
		subsystems = append(subsystems, store)
	}

	response.JSON(w, r, http.StatusOK, models.SystemStatus{
		Status:     overall,
		Time:       models.Timestamp(time.Now()),
		Subsystems: subsystems,
		Providers:  providers,
	})
}

func circuitToHealth(state gobreaker.State) models.HealthStatus {
	switch state {
	case gobreaker.StateOpen:
		return models.HealthStatusFail
	case gobreaker.StateHalfOpen:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}

func timestampPtr(t *time.Time) *models.Timestamp {
	if t == nil {
		return nil
	}
	ts := models.Timestamp(*t)
	return &ts
}
