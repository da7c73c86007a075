package services_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/airwuu/appstore/internal/config"
	"github.com/airwuu/appstore/internal/services"
)

func testConfig(apiBaseURL string) *config.Config {
	return &config.Config{
		APIBaseURL: apiBaseURL,
		DBType:     "sqlite",
		DBDatabase: ":memory:",
	}
}

func reachableAPI(t *testing.T) string {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(ts.Close)
	return ts.URL
}

func TestHealthCheckHealthy(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	result := services.HealthCheck(testConfig(reachableAPI(t)), db)

	if result.Status != "healthy" {
		t.Errorf("status = %q, want healthy (%+v)", result.Status, result)
	}
	if result.Database != "ok" || result.API != "ok" {
		t.Errorf("database = %q, api = %q", result.Database, result.API)
	}
}

// TestHealthCheckInMemorySessionIsDegraded: the in-memory-only session mode
// keeps serving, so the probe must report degraded, not unhealthy.
func TestHealthCheckInMemorySessionIsDegraded(t *testing.T) {
	result := services.HealthCheck(testConfig(reachableAPI(t)), nil)

	if result.Status != "degraded" {
		t.Errorf("status = %q, want degraded (%+v)", result.Status, result)
	}
	if result.Database != "in-memory" {
		t.Errorf("database = %q, want in-memory", result.Database)
	}
	if result.API != "ok" {
		t.Errorf("api = %q, want ok", result.API)
	}
}

func TestHealthCheckUnreachableAPI(t *testing.T) {
	// A just-closed listener gives an address that refuses connections.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := ts.URL
	ts.Close()

	result := services.HealthCheck(testConfig(deadURL), nil)

	if result.Status != "unhealthy" {
		t.Errorf("status = %q, want unhealthy (%+v)", result.Status, result)
	}
	if result.API != "unreachable" {
		t.Errorf("api = %q, want unreachable", result.API)
	}
}
