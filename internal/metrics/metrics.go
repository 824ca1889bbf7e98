// Package metrics exposes Prometheus counters for the HTTP API and the
// realtime hub.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the middleware and the hub report to.
type Recorder interface {
	RecordRequest(method, route string, status int, latency time.Duration)
	ConnectionOpened()
	ConnectionClosed()
	RecordChatMessage(transport string)
	RecordRateLimited()
}

type Collector struct {
	requests        *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	wsConnections   prometheus.Gauge
	chatMessages    *prometheus.CounterVec
	rateLimitedHits prometheus.Counter
}

// NewCollector creates the collectors and registers them on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodshare_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "foodshare_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "foodshare_ws_connections",
			Help: "Open websocket connections.",
		}),
		chatMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodshare_chat_messages_total",
			Help: "Chat messages stored, by transport.",
		}, []string{"transport"}),
		rateLimitedHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodshare_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.requestLatency,
		c.wsConnections,
		c.chatMessages,
		c.rateLimitedHits,
	)
	return c
}

func (c *Collector) RecordRequest(method, route string, status int, latency time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestLatency.WithLabelValues(method, route).Observe(latency.Seconds())
}

func (c *Collector) ConnectionOpened() {
	c.wsConnections.Inc()
}

func (c *Collector) ConnectionClosed() {
	c.wsConnections.Dec()
}

// RecordChatMessage counts a stored message; transport is "ws" or "http".
func (c *Collector) RecordChatMessage(transport string) {
	c.chatMessages.WithLabelValues(transport).Inc()
}

func (c *Collector) RecordRateLimited() {
	c.rateLimitedHits.Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Used where no registry is wired.
type Nop struct{}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
func (Nop) ConnectionOpened()                               {}
func (Nop) ConnectionClosed()                               {}
func (Nop) RecordChatMessage(string)                        {}
func (Nop) RecordRateLimited()                              {}
