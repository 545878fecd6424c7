// Package metrics provides Prometheus collectors for the portal and helpers
// for emitting StatsD events.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector aggregates the Prometheus metrics exposed on /metrics.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	loginsTotal     *prometheus.CounterVec
	documentsTotal  *prometheus.CounterVec
	inquiriesTotal  prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "HTTP requests served, by route and status code.",
		}, []string{"route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds, by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		loginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_logins_total",
			Help: "Completed sign-ins, by provider and result.",
		}, []string{"provider", "result"}),
		documentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_document_operations_total",
			Help: "Document write operations, by operation and result.",
		}, []string{"operation", "result"}),
		inquiriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_contact_inquiries_total",
			Help: "Contact form submissions accepted.",
		}),
	}

	reg.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.loginsTotal,
		c.documentsTotal,
		c.inquiriesTotal,
	)

	return c
}

// RecordRequest records a served HTTP request.
func (c *Collector) RecordRequest(route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordLogin records a sign-in attempt outcome.
func (c *Collector) RecordLogin(provider, result string) {
	if c == nil {
		return
	}
	c.loginsTotal.WithLabelValues(provider, result).Inc()
}

// RecordDocumentOperation records a document write operation outcome.
func (c *Collector) RecordDocumentOperation(operation, result string) {
	if c == nil {
		return
	}
	c.documentsTotal.WithLabelValues(operation, result).Inc()
}

// RecordInquiry records an accepted contact form submission.
func (c *Collector) RecordInquiry() {
	if c == nil {
		return
	}
	c.inquiriesTotal.Inc()
}

// Handler returns the Prometheus scrape handler for the given gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
