package dashboard

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = "Charging Start Time,Charging End Time,State of Charge (Start %),State of Charge (End %)," +
	"Energy Consumed (kWh),Distance Driven (since last charge) (km),Charging Cost (USD)," +
	"Charging Duration (hours),Battery Capacity (kWh),Vehicle Age (years),Vehicle Model,User Type,Temperature (°C)"

func fixtureCSV(t *testing.T) string {
	t.Helper()

	rng := rand.New(rand.NewSource(11))
	models := []string{"BYD Seal", "Nissan Leaf", "Tesla Model 3"}
	users := []string{"Commuter", "Casual Driver", "Long-Distance Traveler"}

	var b strings.Builder
	b.WriteString(csvHeader + "\n")
	for i := 0; i < 60; i++ {
		day := 1 + i%10
		hour := (i * 7) % 24
		startSoC := 15 + rng.Float64()*30
		fmt.Fprintf(&b, "2024-02-%02d %02d:00:00,2024-02-%02d %02d:30:00,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%s,%s,%.2f\n",
			day, hour, day, hour,
			startSoC, startSoC+25+rng.Float64()*30,
			15+rng.Float64()*35, 90+rng.Float64()*200, 6+rng.Float64()*15,
			0.5+rng.Float64()*2.5, 45+float64(i%4)*10, 1+float64(i%7),
			models[i%3], users[i%3], -5+float64(i%5)*10+rng.Float64()*3)
	}

	path := filepath.Join(t.TempDir(), "sessions.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func newTestServer(t *testing.T) *WebServer {
	t.Helper()
	ws, err := NewWebServer(Config{Address: ":0", CSVPath: fixtureCSV(t)})
	require.NoError(t, err)
	return ws
}

func TestNewWebServerBadCSV(t *testing.T) {
	t.Parallel()
	_, err := NewWebServer(Config{Address: ":0", CSVPath: filepath.Join(t.TempDir(), "missing.csv")})
	require.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	ws := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	ws.setupRoutes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"version"`)
}

func TestIndexServesTabs(t *testing.T) {
	t.Parallel()
	ws := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	ws.setupRoutes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Charging Patterns")
	assert.Contains(t, body, "Vehicle Age vs Cost")
	assert.Contains(t, body, "Temperature Impact")
	assert.Contains(t, body, "/charts/patterns")

	req = httptest.NewRequest(http.MethodGet, "/nope", nil)
	w = httptest.NewRecorder()
	ws.setupRoutes().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJSONEndpoints(t *testing.T) {
	t.Parallel()
	ws := newTestServer(t)

	for _, path := range []string{"/api/patterns", "/api/agecost", "/api/temperature"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()
			ws.setupRoutes().ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var payload map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
			assert.Contains(t, payload, "visualizations")
		})
	}
}

func TestTemperatureJSONShape(t *testing.T) {
	t.Parallel()
	ws := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/temperature", nil)
	w := httptest.NewRecorder()
	ws.setupRoutes().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Contains(t, payload, "temperature_analysis")
	assert.Contains(t, payload, "insights")
}

func TestChartEndpoints(t *testing.T) {
	t.Parallel()
	ws := newTestServer(t)

	for _, path := range []string{"/charts/patterns", "/charts/agecost", "/charts/temperature"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()
			ws.setupRoutes().ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "text/html", w.Header().Get("Content-Type"))
			assert.Contains(t, w.Body.String(), "echarts")
		})
	}
}
