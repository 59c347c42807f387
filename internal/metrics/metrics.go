// Package metrics exposes store activity as Prometheus collectors.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"golist/internal/list"
)

// Collector implements list.Observer.
type Collector struct {
	ops   *prometheus.CounterVec
	items prometheus.Gauge
}

// New creates a Collector and registers it with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "golist",
			Name:      "store_operations_total",
			Help:      "List store operations by operation and result.",
		}, []string{"op", "result"}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "golist",
			Name:      "items",
			Help:      "Items in the published collection.",
		}),
	}
	reg.MustRegister(c.ops, c.items)
	return c
}

// ObserveOp counts op under a result label derived from err.
func (c *Collector) ObserveOp(op string, err error) {
	c.ops.WithLabelValues(op, result(err)).Inc()
}

// ObserveItems records the size of the published collection.
func (c *Collector) ObserveItems(n int) {
	c.items.Set(float64(n))
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, list.ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, list.ErrStorageWrite):
		return "write_failed"
	case errors.Is(err, list.ErrStorageUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
