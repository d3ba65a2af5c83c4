//go:build dev_test || staging_test

package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSmokePropertyService checks a deployed property-service: public
// health and metrics respond, and the API refuses anonymous callers.
func TestSmokePropertyService(t *testing.T) {
	appURL := os.Getenv("APP_URL_FROM_COMPOSE_NETWORK")
	require.NotEmpty(t, appURL, "APP_URL_FROM_COMPOSE_NETWORK environment variable must be set")

	require.NoError(t, checkHealth(appURL), "checkHealth")
	t.Log("[INFO] /health responded as expected")

	require.NoError(t, checkMetrics(appURL), "checkMetrics")
	t.Log("[INFO] /metrics exposes property_service series")

	for _, path := range []string{"/api/v1/properties", "/api/v1/leases", "/api/v1/dashboard"} {
		require.NoError(t, checkRequiresAuth(appURL, path), path)
	}
	t.Log("[INFO] secured endpoints reject anonymous requests")
}

func checkHealth(baseURL string) error {
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		return fmt.Errorf("GET /health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expected 200 from /health, got %d", resp.StatusCode)
	}
	var out struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode health: %w", err)
	}
	if out.Status != "OK" {
		return fmt.Errorf("unexpected health status %q", out.Status)
	}
	return nil
}

func checkMetrics(baseURL string) error {
	resp, err := http.Get(baseURL + "/metrics")
	if err != nil {
		return fmt.Errorf("GET /metrics: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expected 200 from /metrics, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "property_service_") {
		return fmt.Errorf("metrics output has no property_service series")
	}
	return nil
}

func checkRequiresAuth(baseURL, path string) error {
	resp, err := http.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("expected 401 from %s, got %d, body=%s", path, resp.StatusCode, string(body))
	}
	return nil
}
