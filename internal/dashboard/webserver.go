// Package dashboard serves the tabbed analysis dashboard over HTTP: three
// report tabs backed by JSON endpoints and server-rendered chart pages.
package dashboard

import (
	"context"
	"embed"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/voltaic-data/charge.report/internal/analysis"
	"github.com/voltaic-data/charge.report/internal/charts"
	"github.com/voltaic-data/charge.report/internal/httputil"
	"github.com/voltaic-data/charge.report/internal/version"
)

//go:embed dashboard.html
var dashboardHTML embed.FS

// WebServer handles the HTTP interface for the charging analysis reports.
type WebServer struct {
	address string
	csvPath string
	server  *http.Server

	patterns    *analysis.PatternsResults
	ageCost     *analysis.AgeCostResults
	temperature *analysis.TemperatureResults
}

// Config contains configuration options for the web server.
type Config struct {
	Address string
	CSVPath string
}

// NewWebServer loads the dataset, runs all three analyses, and returns a
// server ready to Start. Loading happens up front so a bad CSV fails fast
// instead of on the first request.
func NewWebServer(config Config) (*WebServer, error) {
	ws := &WebServer{
		address: config.Address,
		csvPath: config.CSVPath,
	}

	var err error
	if ws.patterns, err = analysis.ChargingPatterns(config.CSVPath); err != nil {
		return nil, err
	}
	if ws.ageCost, err = analysis.AgeCostEfficiency(config.CSVPath); err != nil {
		return nil, err
	}
	if ws.temperature, err = analysis.TemperatureImpact(config.CSVPath); err != nil {
		return nil, err
	}
	log.Printf("[Dashboard] analyses ready: %d pattern rows, %d age/cost rows, %d temperature rows",
		len(ws.patterns.Data.Sessions), len(ws.ageCost.Data.Sessions), len(ws.temperature.Data.Sessions))

	ws.server = &http.Server{
		Addr:    ws.address,
		Handler: ws.setupRoutes(),
	}
	return ws, nil
}

// Start begins the HTTP server in a goroutine and handles graceful shutdown.
func (ws *WebServer) Start(ctx context.Context) error {
	go func() {
		log.Printf("[Dashboard] starting HTTP server on %s", ws.address)
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[Dashboard] shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Dashboard] HTTP server shutdown error: %v", err)
		if err := ws.server.Close(); err != nil {
			log.Printf("[Dashboard] HTTP server force close error: %v", err)
		}
	}

	log.Printf("[Dashboard] HTTP server routine stopped")
	return nil
}

// setupRoutes configures the HTTP routes and handlers.
func (ws *WebServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", ws.handleHealth)
	mux.HandleFunc("/", ws.handleIndex)

	mux.HandleFunc("/api/patterns", ws.handlePatternsJSON)
	mux.HandleFunc("/api/agecost", ws.handleAgeCostJSON)
	mux.HandleFunc("/api/temperature", ws.handleTemperatureJSON)

	mux.HandleFunc("/charts/patterns", ws.handlePatternsCharts)
	mux.HandleFunc("/charts/agecost", ws.handleAgeCostCharts)
	mux.HandleFunc("/charts/temperature", ws.handleTemperatureCharts)

	return mux
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]string{
		"status":    "ok",
		"service":   "charge-report",
		"version":   version.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleIndex serves the tabbed dashboard shell. Each tab is an iframe onto
// the corresponding chart page so the echarts pages stay self-contained.
func (ws *WebServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html")

	tmpl, err := template.ParseFS(dashboardHTML, "dashboard.html")
	if err != nil {
		http.Error(w, "Error loading template: "+err.Error(), http.StatusInternalServerError)
		return
	}

	data := struct {
		CSVPath  string
		Sessions int
		Tabs     []struct{ ID, Label, ChartURL, APIURL string }
	}{
		CSVPath:  ws.csvPath,
		Sessions: len(ws.patterns.Data.Sessions),
		Tabs: []struct{ ID, Label, ChartURL, APIURL string }{
			{"patterns", "Charging Patterns", "/charts/patterns", "/api/patterns"},
			{"agecost", "Vehicle Age vs Cost", "/charts/agecost", "/api/agecost"},
			{"temperature", "Temperature Impact", "/charts/temperature", "/api/temperature"},
		},
	}
	if err := tmpl.Execute(w, data); err != nil {
		log.Printf("[Dashboard] template execute error: %v", err)
	}
}

func (ws *WebServer) handlePatternsJSON(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, ws.patterns)
}

func (ws *WebServer) handleAgeCostJSON(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, ws.ageCost)
}

func (ws *WebServer) handleTemperatureJSON(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, ws.temperature)
}

func (ws *WebServer) renderCharts(w http.ResponseWriter, specs ...charts.Spec) {
	w.Header().Set("Content-Type", "text/html")
	if err := charts.RenderHTML(w, specs...); err != nil {
		httputil.InternalServerError(w, "chart render failed: "+err.Error())
	}
}

func (ws *WebServer) handlePatternsCharts(w http.ResponseWriter, r *http.Request) {
	v := ws.patterns.Visualizations
	ws.renderCharts(w, v.DayBox, v.TimeBox, v.Heatmap, v.UserBox)
}

func (ws *WebServer) handleAgeCostCharts(w http.ResponseWriter, r *http.Request) {
	v := ws.ageCost.Visualizations
	ws.renderCharts(w, v.AgeScatter, v.ModelBox, v.Heatmap)
}

func (ws *WebServer) handleTemperatureCharts(w http.ResponseWriter, r *http.Request) {
	v := ws.temperature.Visualizations
	ws.renderCharts(w, v.Scatter, v.Box, v.Line)
}
