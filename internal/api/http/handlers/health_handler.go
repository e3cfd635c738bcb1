package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/qasim12343/MarketPlace-sub002/internal/persistence"
)

const (
	backendMemory   = "memory"
	backendPostgres = "postgres"
	backendRedis    = "redis"

	readinessTimeout = 2 * time.Second
)

// Dependency is one backing store reported by the readiness check. A nil Ping
// marks an in-process backend, which is always ready.
type Dependency struct {
	Name    string
	Backend string
	Ping    func(ctx context.Context) error
}

// StoreDependency reports the account and order store: Postgres when a pool is
// configured, otherwise the in-memory repositories.
func StoreDependency(pg *persistence.Postgres) Dependency {
	if !pg.Enabled() {
		return Dependency{Name: "store", Backend: backendMemory}
	}
	return Dependency{Name: "store", Backend: backendPostgres, Ping: pg.Ping}
}

// SessionDependency reports the session store: Redis when connected,
// otherwise the in-memory session store.
func SessionDependency(r *persistence.Redis) Dependency {
	if r == nil {
		return Dependency{Name: "sessions", Backend: backendMemory}
	}
	return Dependency{Name: "sessions", Backend: backendRedis, Ping: r.Ping}
}

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	serviceName  string
	version      string
	dependencies []Dependency
}

func NewHealthHandler(serviceName, version string, deps ...Dependency) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, dependencies: deps}
}

// Live answers as long as the process serves HTTP.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready pings every external dependency within a shared deadline.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	report := make(fiber.Map, len(h.dependencies))
	ready := true
	for _, dep := range h.dependencies {
		state := "ok"
		if dep.Ping != nil {
			if err := dep.Ping(ctx); err != nil {
				state = err.Error()
				ready = false
			}
		}
		report[dep.Name] = fiber.Map{"backend": dep.Backend, "status": state}
	}

	if !ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "one or more dependencies unavailable",
				"details": report,
			},
		})
	}
	return c.JSON(fiber.Map{
		"status":       "ready",
		"service":      h.serviceName,
		"dependencies": report,
	})
}
