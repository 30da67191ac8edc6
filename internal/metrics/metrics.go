// Package metrics exposes board activity as Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"udonboard/internal/board"
	"udonboard/internal/models"
)

// Collector owns the registry and all board metrics. It implements
// board.Notifier so the state machine stays free of metrics code.
type Collector struct {
	registry *prometheus.Registry

	potsOccupied      prometheus.Gauge
	oversubscriptions prometheus.Counter
	ordersActive      *prometheus.GaugeVec
	ordersClosed      *prometheus.CounterVec
	cookDuration      *prometheus.HistogramVec
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		potsOccupied: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "udonboard_pots_occupied",
			Help: "Number of cooking vessels currently leased",
		}),
		oversubscriptions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "udonboard_pot_oversubscriptions_total",
			Help: "Lease calls that had to reuse an occupied vessel",
		}),
		ordersActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "udonboard_orders_active",
			Help: "Active orders on the board by status",
		}, []string{"status"}),
		ordersClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "udonboard_orders_closed_total",
			Help: "Orders that left the board",
		}, []string{"status"}),
		cookDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "udonboard_cook_duration_seconds",
			Help:    "Configured cook duration of finished items",
			Buckets: prometheus.LinearBuckets(0, 60, 12),
		}, []string{"firmness", "mode"}),
	}

	c.registry.MustRegister(
		c.potsOccupied,
		c.oversubscriptions,
		c.ordersActive,
		c.ordersClosed,
		c.cookDuration,
	)
	return c
}

// Registry returns the registry for the /metrics handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ItemStarted implements board.Notifier.
func (c *Collector) ItemStarted(_ string, _ *models.OrderItem, oversubscribed bool) {
	if oversubscribed {
		c.oversubscriptions.Inc()
	}
}

// ItemCooked implements board.Notifier.
func (c *Collector) ItemCooked(_ string, item *models.OrderItem) {
	c.cookDuration.WithLabelValues(string(item.Firmness), string(item.Mode)).
		Observe(float64(item.TotalSecs))
}

// OrderStatusChanged implements board.Notifier.
func (c *Collector) OrderStatusChanged(o *models.Order, _ models.OrderStatus) {
	if o.Status.IsTerminal() {
		c.ordersClosed.WithLabelValues(string(o.Status)).Inc()
	}
}

// BoardChanged implements board.Notifier: gauges are recomputed from
// the pushed snapshot so they can never drift from board state.
func (c *Collector) BoardChanged(snap board.Snapshot) {
	occupied := 0
	for _, used := range snap.Pots {
		if used {
			occupied++
		}
	}
	c.potsOccupied.Set(float64(occupied))

	counts := map[models.OrderStatus]int{
		models.OrderStatusNew:     0,
		models.OrderStatusCooking: 0,
		models.OrderStatusReady:   0,
	}
	for _, o := range snap.Orders {
		counts[o.Status]++
	}
	for status, n := range counts {
		c.ordersActive.WithLabelValues(string(status)).Set(float64(n))
	}
}
