// Package metrics exposes prometheus counters for shared
// links, link accesses, audit records and handler errors.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

type Configuration struct {
	// Address on which /metrics is served, disabled when empty.
	Address string `yaml:"Address"`
}

type Metrics struct {
	registry      *prometheus.Registry
	linksCreated  prometheus.Counter
	linksAccessed prometheus.Counter
	auditRecords  *prometheus.CounterVec
	handlerErrors *prometheus.CounterVec
}

// NewMetrics creates the bot's counters and registers
// them in a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		linksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linkbot_links_created_total",
			Help: "Total number of links shared through the link command",
		}),
		linksAccessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linkbot_links_accessed_total",
			Help: "Total number of links revealed to users",
		}),
		auditRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linkbot_audit_records_total",
			Help: "Total audit records by kind and outcome",
		}, []string{"kind", "outcome"}),
		handlerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linkbot_handler_errors_total",
			Help: "Total errors caught by the interaction handlers",
		}, []string{"handler"}),
	}
	m.registry.MustRegister(
		m.linksCreated,
		m.linksAccessed,
		m.auditRecords,
		m.handlerErrors,
	)
	return m
}

func (m *Metrics) LinkCreated() {
	m.linksCreated.Inc()
}

func (m *Metrics) LinkAccessed() {
	m.linksAccessed.Inc()
}

// AuditRecord counts a record of the provided kind, outcome
// is one of "sent", "skipped" or "failed".
func (m *Metrics) AuditRecord(kind string, outcome string) {
	m.auditRecords.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) HandlerError(handler string) {
	m.handlerErrors.WithLabelValues(handler).Inc()
}

// Registry returns the registry holding the bot's counters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Serve serves the metrics on the provided address
// until the context is done.
func (m *Metrics) Serve(ctx context.Context, address string, l *log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()
	l.WithField("Address", address).Info("Serving metrics")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Errorf("Metrics server stopped: %v", err)
	}
}
