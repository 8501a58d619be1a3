package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/intake-service/internal/cache"
	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/store"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	tabular     store.TabularStore
	kv          cache.KeyValueCache
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, tabular store.TabularStore, kv cache.KeyValueCache) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, tabular: tabular, kv: kv}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by probing the backing store. The cache
// is best effort and only degrades the report, never fails it.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	if _, err := h.tabular.RowCount(ctx, domain.SheetTickets); err != nil {
		depStatus["store"] = err.Error()
		ready = false
	} else {
		depStatus["store"] = "ok"
	}

	probe := "ready-probe"
	h.kv.Put(ctx, probe, "1", time.Minute)
	if _, ok := h.kv.Get(ctx, probe); ok {
		depStatus["cache"] = "ok"
	} else {
		depStatus["cache"] = "degraded"
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}
