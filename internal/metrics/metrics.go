// Package metrics exposes Prometheus metrics for analysis runs.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"StockPulse/internal/model"
)

// Metrics holds the run collectors on their own registry.
type Metrics struct {
	Registry *prometheus.Registry

	RunsTotal       *prometheus.CounterVec // labels: status=ok|failed
	RunDuration     prometheus.Histogram
	SymbolsAnalyzed prometheus.Counter
	SymbolFailures  prometheus.Counter
	ActionsTotal    *prometheus.CounterVec // labels: action
	WriterErrors    *prometheus.CounterVec // labels: writer
	LastRunUnix     prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockpulse_runs_total",
			Help: "Analysis runs by outcome",
		}, []string{"status"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockpulse_run_duration_seconds",
			Help:    "Wall time of one analysis run, load to record",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		SymbolsAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockpulse_symbols_analyzed_total",
			Help: "Symbols that produced a record",
		}),
		SymbolFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockpulse_symbol_failures_total",
			Help: "Symbols skipped because of invalid input or errors",
		}),
		ActionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockpulse_actions_total",
			Help: "Records produced per action label",
		}, []string{"action"}),
		WriterErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockpulse_writer_errors_total",
			Help: "Failed result writes per writer",
		}, []string{"writer"}),
		LastRunUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockpulse_last_run_timestamp_seconds",
			Help: "Finish time of the last successful run",
		}),
	}
	m.Registry.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.SymbolsAnalyzed,
		m.SymbolFailures,
		m.ActionsTotal,
		m.WriterErrors,
		m.LastRunUnix,
	)
	return m
}

// ObserveRun records a completed run.
func (m *Metrics) ObserveRun(res *model.RunResult, elapsed time.Duration) {
	m.RunsTotal.WithLabelValues("ok").Inc()
	m.RunDuration.Observe(elapsed.Seconds())
	m.SymbolsAnalyzed.Add(float64(len(res.Records)))
	m.SymbolFailures.Add(float64(len(res.Failures)))
	for _, r := range res.Records {
		m.ActionsTotal.WithLabelValues(string(r.Action)).Inc()
	}
	m.LastRunUnix.Set(float64(res.FinishedAt.Unix()))
}

// ObserveFailure records a run that did not complete.
func (m *Metrics) ObserveFailure(elapsed time.Duration) {
	m.RunsTotal.WithLabelValues("failed").Inc()
	m.RunDuration.Observe(elapsed.Seconds())
}

// Server exposes /metrics and /healthz.
type Server struct {
	srv *http.Server
}

// NewServer serves the registry of m on addr.
func NewServer(addr string, m *Metrics) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return &Server{srv: &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}}
}

// Start runs the server in a goroutine.
func (s *Server) Start() {
	go func() {
		slog.Info("metrics server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "err", err)
		}
	}()
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
