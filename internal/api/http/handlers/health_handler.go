package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/team-service/internal/persistence"
	apperrors "github.com/spec-kit/team-service/pkg/util/errorutil"
)

const readinessTimeout = 2 * time.Second

// Backend is an optional dependency that gates readiness once enabled.
type Backend interface {
	Enabled() bool
	Ping(ctx context.Context) error
}

type namedBackend struct {
	name string
	Backend
}

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	serviceName string
	version     string
	backends    []namedBackend
}

// NewHealthHandler checks postgres and redis on readiness.
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return newHealthHandler(serviceName, version,
		namedBackend{name: "postgres", Backend: postgres},
		namedBackend{name: "redis", Backend: redis},
	)
}

func newHealthHandler(serviceName, version string, backends ...namedBackend) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, backends: backends}
}

func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready answers 200 when every enabled backend responds. Disabled backends are
// listed as such and never fail readiness.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	status, healthy := h.check(ctx)
	if !healthy {
		return apperrors.NewDomainError(apperrors.CodeDependencyDown,
			"one or more dependencies unavailable", http.StatusServiceUnavailable, status)
	}
	return c.JSON(fiber.Map{
		"status":       "ready",
		"dependencies": status,
	})
}

func (h *HealthHandler) check(ctx context.Context) (map[string]any, bool) {
	status := make(map[string]any, len(h.backends))
	healthy := true
	for _, b := range h.backends {
		if !b.Enabled() {
			status[b.name] = "disabled"
			continue
		}
		if err := b.Ping(ctx); err != nil {
			status[b.name] = err.Error()
			healthy = false
			continue
		}
		status[b.name] = "ok"
	}
	return status, healthy
}
