// Package metrics exposes Prometheus instrumentation for the HTTP API and the database pool.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"taskapp/config"
	"taskapp/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taskapp"

// Auth failure reasons.
const (
	ReasonNoToken      = "no_token"
	ReasonInvalidToken = "invalid_token"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry
	enabled  bool
	path     string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	AuthFailuresTotal   *prometheus.CounterVec
	TokensIssuedTotal   *prometheus.CounterVec
}

// New creates a private registry with the Go runtime and process collectors and
// registers the application metrics on it.
func New(cfg *config.Config) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		AuthFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_failures_total",
				Help:      "Requests rejected by the bearer token gate",
			},
			[]string{"reason"},
		),
		TokensIssuedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_issued_total",
				Help:      "Session tokens issued",
			},
			[]string{"flow"},
		),
	}

	if cfg != nil && cfg.Metrics != nil {
		m.enabled = cfg.Metrics.Enabled
		m.path = cfg.Metrics.Path
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthFailuresTotal,
		m.TokensIssuedTotal,
	)

	return m
}

// Enabled reports whether the scrape endpoint should be mounted.
func (m *Metrics) Enabled() bool {
	return m.enabled
}

// Path is the route the scrape endpoint is served on.
func (m *Metrics) Path() string {
	return m.path
}

// Registry returns the registry backing the scrape endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDBStats exports database/sql pool statistics under the given db name.
func (m *Metrics) RegisterDBStats(db *sql.DB, dbName string) error {
	if err := m.registry.Register(collectors.NewDBStatsCollector(db, dbName)); err != nil {
		return errors.Wrap(err, "failed to register db stats collector")
	}

	return nil
}

// ObserveAuthFailure counts a rejected protected request.
func (m *Metrics) ObserveAuthFailure(reason string) {
	m.AuthFailuresTotal.WithLabelValues(reason).Inc()
}

// ObserveTokenIssued counts a token handed out by the given flow (register, login).
func (m *Metrics) ObserveTokenIssued(flow string) {
	m.TokensIssuedTotal.WithLabelValues(flow).Inc()
}

// Middleware records request count and latency per matched route. Unmatched
// routes are grouped under a single label to keep cardinality bounded.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var httpErr *echo.HTTPError
				if errors.As(err, &httpErr) {
					status = httpErr.Code
				} else if status < http.StatusBadRequest {
					status = statusFromAppError(err)
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method

			m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

type httpCoder interface {
	HTTPCode() int
}

func statusFromAppError(err error) int {
	var coder httpCoder
	if errors.As(err, &coder) {
		return coder.HTTPCode()
	}

	return http.StatusInternalServerError
}
