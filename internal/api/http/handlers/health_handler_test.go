package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qasim12343/MarketPlace-sub002/internal/persistence"
)

func readiness(t *testing.T, h *HealthHandler) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/health/ready", h.Ready)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health/ready", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestReadyReportsInMemoryBackends(t *testing.T) {
	h := NewHealthHandler("avina", "test",
		StoreDependency(&persistence.Postgres{}),
		SessionDependency(nil),
	)

	status, body := readiness(t, h)
	assert.Equal(t, fiber.StatusOK, status)
	deps := body["dependencies"].(map[string]any)
	assert.Equal(t, map[string]any{"backend": "memory", "status": "ok"}, deps["store"])
	assert.Equal(t, map[string]any{"backend": "memory", "status": "ok"}, deps["sessions"])
}

func TestReadyFailsWhenAPingFails(t *testing.T) {
	h := NewHealthHandler("avina", "test",
		Dependency{Name: "store", Backend: "postgres", Ping: func(context.Context) error { return nil }},
		Dependency{Name: "sessions", Backend: "redis", Ping: func(context.Context) error {
			return errors.New("connection refused")
		}},
	)

	status, body := readiness(t, h)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", errBody["code"])
	details := errBody["details"].(map[string]any)
	assert.Equal(t, map[string]any{"backend": "redis", "status": "connection refused"}, details["sessions"])
	assert.Equal(t, map[string]any{"backend": "postgres", "status": "ok"}, details["store"])
}
