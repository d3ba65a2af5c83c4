package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	t.Run("all healthy", func(t *testing.T) {
		c := newChecker([]string{up.URL, up.URL}, time.Second)
		rec := httptest.NewRecorder()
		c.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var report healthReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.Equal(t, "OK", report.Status)
		assert.Len(t, report.Services, 2)
	})

	t.Run("one unhealthy", func(t *testing.T) {
		c := newChecker([]string{up.URL, down.URL}, time.Second)
		rec := httptest.NewRecorder()
		c.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var report healthReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.Equal(t, "UNHEALTHY", report.Status)
		assert.True(t, report.Services[0].Healthy)
		assert.False(t, report.Services[1].Healthy)
		assert.Equal(t, down.URL, report.Services[1].URL)
	})
}
