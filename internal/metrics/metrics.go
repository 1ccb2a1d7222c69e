// Package metrics holds the Prometheus collectors of the commission service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/commissions/internal/calculator"
	"github.com/mmynk/commissions/internal/wallet"
)

const namespace = "commissions"

// Metrics is the set of collectors exported by the service.
type Metrics struct {
	// Distributions recorded, by currency
	DistributionsRecorded *prometheus.CounterVec
	// Record calls that hit an order already in the ledger
	DuplicateOrders prometheus.Counter
	// Rejected calculations, by error kind
	CalculationFailures *prometheus.CounterVec
	// Minor units credited to wallets, by role and currency
	CreditedMinorUnits *prometheus.CounterVec
	// RPC handling time, by procedure and result code
	RPCDuration *prometheus.HistogramVec
}

// New creates the collectors. They are not registered until Register is called.
func New() *Metrics {
	return &Metrics{
		DistributionsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "distributions_recorded_total",
			Help:      "Total distributions written to the ledger",
		}, []string{"currency"}),
		DuplicateOrders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_orders_total",
			Help:      "Total record requests for orders that already had a distribution",
		}),
		CalculationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculation_failures_total",
			Help:      "Total distribution calculations rejected",
		}, []string{"kind"}),
		CreditedMinorUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credited_minor_units_total",
			Help:      "Total minor currency units credited to wallets",
		}, []string{"role", "currency"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}
}

// Register registers all collectors with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.DistributionsRecorded,
		m.DuplicateOrders,
		m.CalculationFailures,
		m.CreditedMinorUnits,
		m.RPCDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordDistribution counts a newly recorded distribution and its credits.
func (m *Metrics) RecordDistribution(currency string, credits []wallet.Credit) {
	m.DistributionsRecorded.WithLabelValues(currency).Inc()
	for _, c := range credits {
		m.CreditedMinorUnits.WithLabelValues(string(c.Role), c.Amount.Currency()).Add(float64(c.Amount.Minor()))
	}
}

// RecordDuplicate counts a retried order.
func (m *Metrics) RecordDuplicate() {
	m.DuplicateOrders.Inc()
}

// RecordFailure counts a calculation rejected with err.
func (m *Metrics) RecordFailure(err error) {
	m.CalculationFailures.WithLabelValues(calculator.Classify(err).String()).Inc()
}

// ObserveRPC records the duration of one RPC.
func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	m.RPCDuration.WithLabelValues(procedure, code).Observe(d.Seconds())
}
