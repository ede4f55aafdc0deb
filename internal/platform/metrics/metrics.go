// Copyright (c) 2026 Push-It. All rights reserved.

// Package metrics provides Prometheus metric collection and exposition.
//
// # Architecture
//
// A single [Collector] is registered at startup and injected into the layers
// that need to record events (HTTP chain, auth service, mailer). Services
// depend on the narrow [Recorder] interface so tests can substitute a no-op.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metric recording contract used by services and middleware.
type Recorder interface {
	RecordHTTPRequest(statusCode int, latency time.Duration)
	RecordRegistration()
	RecordLogin(success bool)
	RecordEmailDispatch(kind string, success bool)
	RecordMessagePosted()
}

// Collector implements [Recorder] backed by Prometheus metrics.
type Collector struct {
	httpRequests   *prometheus.CounterVec
	httpLatency    prometheus.Histogram
	registrations  prometheus.Counter
	logins         *prometheus.CounterVec
	emailDispatch  *prometheus.CounterVec
	messagesPosted prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pushit_http_requests_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pushit_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pushit_registrations_total",
			Help: "Successfully created user accounts.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pushit_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		emailDispatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pushit_email_dispatch_total",
			Help: "Outbound notification emails by kind and result.",
		}, []string{"kind", "result"}),
		messagesPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pushit_messages_posted_total",
			Help: "Messages accepted into chats.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.registrations,
		c.logins,
		c.emailDispatch,
		c.messagesPosted,
	)

	return c
}

// RecordHTTPRequest records a finished HTTP request.
func (c *Collector) RecordHTTPRequest(statusCode int, latency time.Duration) {
	c.httpRequests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.httpLatency.Observe(latency.Seconds())
}

// RecordRegistration records a successfully created account.
func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

// RecordLogin records a login attempt.
func (c *Collector) RecordLogin(success bool) {
	c.logins.WithLabelValues(resultLabel(success)).Inc()
}

// RecordEmailDispatch records an outbound email attempt.
func (c *Collector) RecordEmailDispatch(kind string, success bool) {
	c.emailDispatch.WithLabelValues(kind, resultLabel(success)).Inc()
}

// RecordMessagePosted records an accepted chat message.
func (c *Collector) RecordMessagePosted() {
	c.messagesPosted.Inc()
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// Handler returns the HTTP handler serving the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Noop is a [Recorder] that discards all observations. Useful in tests.
type Noop struct{}

func (Noop) RecordHTTPRequest(int, time.Duration)  {}
func (Noop) RecordRegistration()                   {}
func (Noop) RecordLogin(bool)                      {}
func (Noop) RecordEmailDispatch(string, bool)      {}
func (Noop) RecordMessagePosted()                  {}
