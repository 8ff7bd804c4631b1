// Package metrics holds the Prometheus instrumentation for the screener and
// the HTTP server exposing it.
package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the signal screener.
type Metrics struct {
	ScansTotal   prometheus.Counter
	ScanErrors   prometheus.Counter
	SignalsTotal *prometheus.CounterVec // labels: kind, direction
	ScanDuration prometheus.Histogram
}

// New registers and returns the screener metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ScansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_scans_total",
			Help: "Total symbol/interval scans performed",
		}),
		ScanErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_scan_errors_total",
			Help: "Scans that failed (data fetch or otherwise)",
		}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_signals_total",
			Help: "Signal events surfaced within the trailing window (by kind and direction)",
		}, []string{"kind", "direction"}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "screener_scan_duration_seconds",
			Help:    "Wall time per symbol/interval scan including data fetch",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.ScansTotal, m.ScanErrors, m.SignalsTotal, m.ScanDuration)
	return m
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	srv     *http.Server
	started time.Time
}

// NewServer creates the metrics and health server.
func NewServer(addr string) *Server {
	s := &Server{started: time.Now()}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", s.healthz)
	s.srv = &http.Server{Addr: addr, Handler: mux}
	return s
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}{
		Status: "ok",
		Uptime: time.Since(s.started).Round(time.Second).String(),
	})
}

// Start launches the HTTP server in a goroutine. Errors other than a clean
// shutdown are reported through errFn.
func (s *Server) Start(errFn func(error)) {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if errFn != nil {
				errFn(err)
			}
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
