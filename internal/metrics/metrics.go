// Package metrics exposes Prometheus instrumentation for the editor.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "voxcraft"

// Collector owns a private registry so several instances can coexist in tests.
type Collector struct {
	registry *prometheus.Registry

	Placements         *prometheus.CounterVec
	Generations        *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	Frames             prometheus.Counter
	HandDetected       prometheus.Gauge
	Voxels             prometheus.Gauge
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New creates and registers all metrics.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Placements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placements_total",
			Help:      "Placement actions by outcome (built, erased, ignored).",
		}, []string{"outcome"}),
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Structure generation attempts by status.",
		}, []string{"status"}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time spent waiting for the generative model.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Render frames evaluated.",
		}),
		HandDetected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hand_detected",
			Help:      "1 while a hand is tracked.",
		}),
		Voxels: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "voxels",
			Help:      "Voxels currently in the scene.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	c.registry.MustRegister(
		c.Placements,
		c.Generations,
		c.GenerationDuration,
		c.Frames,
		c.HandDetected,
		c.Voxels,
		c.HTTPRequests,
		c.HTTPDuration,
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) Placement(outcome string) {
	c.Placements.WithLabelValues(outcome).Inc()
}

func (c *Collector) Generation(status string, elapsed time.Duration) {
	c.Generations.WithLabelValues(status).Inc()
	c.GenerationDuration.Observe(elapsed.Seconds())
}

// Frame records one evaluated render frame.
func (c *Collector) Frame(handDetected bool, voxels int) {
	c.Frames.Inc()
	if handDetected {
		c.HandDetected.Set(1)
	} else {
		c.HandDetected.Set(0)
	}
	c.Voxels.Set(float64(voxels))
}

func (c *Collector) Request(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, http.StatusText(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
