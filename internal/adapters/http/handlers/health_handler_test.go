package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"saccohub/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckUnhealthyWithoutDatabase(t *testing.T) {
	// No database connection and no required env vars set
	config.DB = nil

	app := fiber.New()
	handler := NewHealthHandler()
	app.Get("/health", handler.HealthCheck)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "unhealthy", body["status"])

	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "healthy", checks["api"])
	assert.Equal(t, "unhealthy", checks["database"])
}

func TestRootReportsMode(t *testing.T) {
	config.AppConfig = &config.Config{AppMode: "dev"}

	app := fiber.New()
	handler := NewHealthHandler()
	app.Get("/", handler.Root)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "running", body["status"])
	assert.Equal(t, "dev", body["mode"])
}
