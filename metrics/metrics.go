// Package metrics exposes prometheus collectors describing the lock and bank
// activity.
package metrics

import (
	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/x/bank"
	"github.com/iov-one/lockbank/x/timelock"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lockbank"

// Collector groups all lockbank metrics.
type Collector struct {
	// Operations counts executed operations by name and result.
	Operations *prometheus.CounterVec
	// Withdrawals counts lock withdrawals, split into early and ontime.
	Withdrawals *prometheus.CounterVec
	// Penalties is the total value of all early withdrawal penalties.
	Penalties prometheus.Counter
	// Swept is the total value moved out of the bank by its owner.
	Swept prometheus.Counter
}

// New returns a collector with all metrics initialized. Metrics must be
// registered before they are exposed.
func New() *Collector {
	return &Collector{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total number of executed operations",
		}, []string{"op", "result"}),
		Withdrawals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "withdrawals_total",
			Help:      "Total number of lock withdrawals",
		}, []string{"kind"}),
		Penalties: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "penalty_collected_total",
			Help:      "Total value of early withdrawal penalties",
		}),
		Swept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bank_swept_total",
			Help:      "Total value swept from the bank",
		}),
	}
}

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// MustRegister registers all metrics on the provided registry.
func (c *Collector) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(c.Operations, c.Withdrawals, c.Penalties, c.Swept)
}

// ObserveOperation records the result of a single operation.
func (c *Collector) ObserveOperation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.Operations.WithLabelValues(op, result).Inc()
}

// ObserveEvents updates counters from the events of a committed operation.
// Unknown events are ignored.
func (c *Collector) ObserveEvents(events []lockbank.Event) {
	for _, e := range events {
		switch e := e.(type) {
		case *timelock.Withdrawal:
			kind := "ontime"
			if e.Early() {
				kind = "early"
			}
			c.Withdrawals.WithLabelValues(kind).Inc()
			c.Penalties.Add(float64(e.Penalty.Amount))
		case *bank.Sweep:
			c.Swept.Add(float64(e.Amount.Amount))
		}
	}
}
