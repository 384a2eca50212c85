package web

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/apitemplate/apitemplate/internal/config"
	"github.com/apitemplate/apitemplate/internal/db/migrate"
	"github.com/apitemplate/apitemplate/internal/logger"
	gormlog "github.com/apitemplate/apitemplate/internal/logger/adapter/gorm"
	"github.com/apitemplate/apitemplate/internal/web/handler/item"
)

func testConfig() *config.Config {
	return &config.Config{
		DevMode: true,
		App:     config.App{Name: "test-api", Version: "1.2.3", SecretKey: "s3cret"},
		JWT:     config.JWT{AccessTokenExpireMinutes: 5, Algorithm: "HS256"},
	}
}

// setupTestService returns a service backed by a fresh schema, dropped again
// when the test ends.
func setupTestService(t *testing.T, cfg *config.Config) *Service {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlog.New(logger.SQL{}),
	})
	require.NoError(t, err, "failed to create test database")
	require.NoError(t, migrate.Up(gdb))

	t.Cleanup(func() {
		assert.NoError(t, migrate.Drop(gdb))

		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return New(cfg, gdb)
}

func get(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]any
	if len(data) > 0 && data[0] == '{' {
		require.NoError(t, json.Unmarshal(data, &payload))
	}

	return resp.StatusCode, payload
}

func TestNewPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { New(nil, &gorm.DB{}) })
	assert.Panics(t, func() { New(testConfig(), nil) })
}

func TestHealthCheck(t *testing.T) {
	s := setupTestService(t, testConfig())
	require.True(t, s.Alive())

	status, body := get(t, s.App, fiber.MethodGet, HealthPath, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.Equal(t, true, body["debug"])

	s.alive.Store(false)

	status, body = get(t, s.App, fiber.MethodGet, HealthPath, "")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "shutting down", body["status"])
}

func TestRoot(t *testing.T) {
	s := setupTestService(t, testConfig())

	status, body := get(t, s.App, fiber.MethodGet, "/", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Welcome to test-api", body["message"])
	assert.Equal(t, HealthPath, body["health"])
}

func TestMetrics(t *testing.T) {
	s := setupTestService(t, testConfig())

	status, _ := get(t, s.App, fiber.MethodGet, HealthPath, "")
	require.Equal(t, fiber.StatusOK, status)

	req := httptest.NewRequest(fiber.MethodGet, MetricsPath, nil)
	resp, err := s.App.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "go_goroutines")
	assert.Contains(t, string(data), `http_requests_total{method="GET",route="/health",status="200"}`)
}

func TestCreateItem(t *testing.T) {
	s := setupTestService(t, testConfig())

	status, body := get(t, s.App, fiber.MethodPost, item.Path+"/", `{"name":"widget","description":"blue"}`)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "widget", body["name"])
	assert.EqualValues(t, 1, body["id"])

	status, body = get(t, s.App, fiber.MethodGet, item.Path+"/1", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "blue", body["description"])
}

func TestUnknownRoute(t *testing.T) {
	s := setupTestService(t, testConfig())

	status, body := get(t, s.App, fiber.MethodGet, "/nope", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, body, "detail")
}

func TestProtectedWrites(t *testing.T) {
	cfg := testConfig()
	cfg.Webserver.ProtectWrites = true

	s := setupTestService(t, cfg)

	status, _ := get(t, s.App, fiber.MethodPost, item.Path+"/", `{"name":"widget"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = get(t, s.App, fiber.MethodGet, item.Path+"/", "")
	assert.Equal(t, fiber.StatusOK, status)
}
