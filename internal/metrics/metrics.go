// Package metrics exposes Prometheus collectors for the upload and
// generation paths.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// UploadsTotal counts upload attempts by outcome.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "architect_uploads_total",
		Help: "Total diagram uploads by outcome.",
	}, []string{"status"})

	// GenerationsTotal counts generation attempts by provider, format
	// and outcome.
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "architect_generations_total",
		Help: "Total IaC generation requests by provider, format and outcome.",
	}, []string{"provider", "format", "status"})

	// ProviderLatency observes end-to-end provider round-trip time.
	// Vision inference is slow, so buckets reach into minutes.
	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "architect_provider_latency_seconds",
		Help:    "Model provider round-trip latency in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	}, []string{"provider"})
)

// Handler wraps the Prometheus HTTP handler for gin.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
