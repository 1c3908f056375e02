// Package metrics exposes Prometheus metrics for holders, buffers and peers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/wippyai/peer-interop/resource"
)

const namespace = "interop"

// Collector holds the interop metrics. It observes a resource.Holder as an
// Observer, serializer buffers through GrowHook and peer calls through
// ObserveCall.
type Collector struct {
	ResourcesRegistered prometheus.Counter
	ResourcesReleased   prometheus.Counter
	ResourcesEvicted    prometheus.Counter
	ResourcesLive       prometheus.Gauge
	BufferGrows         prometheus.Counter
	PeerCallBytes       *prometheus.HistogramVec
}

// New creates a collector with unregistered metrics.
func New() *Collector {
	return &Collector{
		ResourcesRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resources_registered_total",
			Help:      "Resources registered in a holder.",
		}),
		ResourcesReleased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resources_released_total",
			Help:      "Releases that left the resource alive.",
		}),
		ResourcesEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resources_evicted_total",
			Help:      "Resources removed from a holder.",
		}),
		ResourcesLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resources_live",
			Help:      "Resources currently registered.",
		}),
		BufferGrows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "buffer_grows_total",
			Help:      "Serializer buffer reallocations.",
		}),
		PeerCallBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "peer_call_bytes",
			Help:      "Bytes crossing the peer boundary per call.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		}, []string{"direction"}),
	}
}

// Register registers every metric with reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	var err error
	for _, m := range []prometheus.Collector{
		c.ResourcesRegistered,
		c.ResourcesReleased,
		c.ResourcesEvicted,
		c.ResourcesLive,
		c.BufferGrows,
		c.PeerCallBytes,
	} {
		err = multierr.Append(err, reg.Register(m))
	}
	return err
}

// OnResourceEvent implements resource.Observer.
func (c *Collector) OnResourceEvent(e resource.Event) {
	switch e.Type {
	case resource.EventRegistered:
		c.ResourcesRegistered.Inc()
		c.ResourcesLive.Inc()
	case resource.EventReleased:
		c.ResourcesReleased.Inc()
	case resource.EventEvicted:
		c.ResourcesEvicted.Inc()
		c.ResourcesLive.Dec()
	}
}

// GrowHook counts buffer reallocations. It matches buffer.GrowHook.
func (c *Collector) GrowHook(oldCap, newCap int) {
	c.BufferGrows.Inc()
}

// ObserveCall records the argument and result sizes of one peer call.
func (c *Collector) ObserveCall(argBytes, resultBytes int) {
	c.PeerCallBytes.WithLabelValues("in").Observe(float64(argBytes))
	c.PeerCallBytes.WithLabelValues("out").Observe(float64(resultBytes))
}
