// Package metrics exports engine tick and stage timings to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"atmos-ca/internal/atmos"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "atmos"

// Observer implements atmos.Observer on a private Prometheus registry.
type Observer struct {
	registry *prometheus.Registry

	ticks        prometheus.Counter
	woken        prometheus.Counter
	slept        prometheus.Counter
	tickDuration prometheus.Histogram
	stageSeconds *prometheus.HistogramVec
	active       prometheus.Gauge
	dormant      prometheus.Gauge
	updated      prometheus.Gauge
}

var _ atmos.Observer = (*Observer)(nil)

// New registers the engine collectors on a fresh registry.
func New() *Observer {
	buckets := prometheus.ExponentialBuckets(0.00005, 2, 14)
	o := &Observer{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "ticks_total",
			Help: "Completed engine ticks.",
		}),
		woken: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "records_woken_total",
			Help: "Records woken by batch flushes.",
		}),
		slept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "records_slept_total",
			Help: "Records put to sleep by batch flushes.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "tick_duration_seconds",
			Help: "Wall time of a full tick.", Buckets: buckets,
		}),
		stageSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "stage_duration_seconds",
			Help: "Wall time of each tick stage.", Buckets: buckets,
		}, []string{"stage"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "records_active",
			Help: "Records on the active list after the last tick.",
		}),
		dormant: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "records_dormant",
			Help: "Records asleep after the last tick.",
		}),
		updated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "phase_tiles_updated",
			Help: "Phase tiles that exchanged gas in the last tick.",
		}),
	}
	o.registry.MustRegister(o.ticks, o.woken, o.slept, o.tickDuration, o.stageSeconds, o.active, o.dormant, o.updated)
	return o
}

// ObserveStage records one stage duration.
func (o *Observer) ObserveStage(stage string, d time.Duration) {
	o.stageSeconds.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveTick records the summary of a completed tick.
func (o *Observer) ObserveTick(stats atmos.TickStats) {
	o.ticks.Inc()
	o.woken.Add(float64(stats.Woken))
	o.slept.Add(float64(stats.Slept))
	o.tickDuration.Observe(stats.Duration.Seconds())
	o.active.Set(float64(stats.Active))
	o.dormant.Set(float64(stats.Dormant))
	o.updated.Set(float64(stats.Updated))
}

// Registry exposes the underlying registry, mainly for tests.
func (o *Observer) Registry() *prometheus.Registry { return o.registry }

// Handler serves the registry in the Prometheus text format.
func (o *Observer) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}
