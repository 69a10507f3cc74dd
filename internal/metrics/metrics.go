package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors groups the synchronization engine's Prometheus instrumentation. A nil
// *Collectors is valid and records nothing.
type Collectors struct {
	registry      *prometheus.Registry
	reloads       *prometheus.CounterVec
	writes        *prometheus.CounterVec
	sweeps        prometheus.Counter
	expired       prometheus.Counter
	notifications *prometheus.CounterVec
}

// New registers all collectors on a private registry.
func New() *Collectors {
	registry := prometheus.NewRegistry()

	reloads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ssf_replica_reloads_total",
		Help: "Full replica reloads by trigger source",
	}, []string{"source"})

	writes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ssf_collection_writes_total",
		Help: "Collection writes issued by this context",
	}, []string{"collection"})

	sweeps := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ssf_sweeps_total",
		Help: "Expiry sweeps run",
	})

	expired := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ssf_listings_expired_total",
		Help: "Listings removed by the expiry sweep",
	})

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ssf_notifications_total",
		Help: "Notification deliveries by sink and outcome",
	}, []string{"sink", "outcome"})

	registry.MustRegister(reloads, writes, sweeps, expired, notifications)

	return &Collectors{
		registry:      registry,
		reloads:       reloads,
		writes:        writes,
		sweeps:        sweeps,
		expired:       expired,
		notifications: notifications,
	}
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collectors) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and custom exporters.
func (c *Collectors) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Collectors) Reload(source string) {
	if c == nil {
		return
	}
	c.reloads.WithLabelValues(source).Inc()
}

func (c *Collectors) Write(collection string) {
	if c == nil {
		return
	}
	c.writes.WithLabelValues(collection).Inc()
}

func (c *Collectors) Sweep(expired int) {
	if c == nil {
		return
	}
	c.sweeps.Inc()
	c.expired.Add(float64(expired))
}

func (c *Collectors) Notification(sink, outcome string) {
	if c == nil {
		return
	}
	c.notifications.WithLabelValues(sink, outcome).Inc()
}
