// Package metrics exposes Prometheus instrumentation for the ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/openpool/purseledger/internal/ledger"
)

// Metrics holds the ledger's Prometheus collectors. It subscribes to ledger
// events for the success counters; failures are counted at the HTTP boundary.
type Metrics struct {
	purchasesAdded   prometheus.Counter
	purchasesDeleted prometheus.Counter
	withdrawals      prometheus.Counter
	pooledBalance    prometheus.Gauge
	failures         *prometheus.CounterVec
}

// New registers the ledger collectors with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		purchasesAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "purseledger_purchases_added_total",
			Help: "Number of purchase records appended to the ledger.",
		}),
		purchasesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "purseledger_purchases_deleted_total",
			Help: "Number of admin deletions, including re-deletions of cleared records.",
		}),
		withdrawals: factory.NewCounter(prometheus.CounterOpts{
			Name: "purseledger_withdrawals_total",
			Help: "Number of successful admin withdrawals from the pool.",
		}),
		pooledBalance: factory.NewGauge(prometheus.GaugeOpts{
			Name: "purseledger_pooled_balance_minor_units",
			Help: "Funds currently held in the shared pool, in minor units.",
		}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "purseledger_operation_failures_total",
			Help: "Failed ledger operations by error kind.",
		}, []string{"kind"}),
	}
}

// Notify implements ledger.Subscriber.
func (m *Metrics) Notify(ev ledger.Event) {
	switch e := ev.(type) {
	case ledger.PurchaseAdded:
		m.purchasesAdded.Inc()
		m.pooledBalance.Add(float64(e.Amount))
	case ledger.PurchaseDeleted:
		m.purchasesDeleted.Inc()
	case ledger.FundsWithdrawn:
		m.withdrawals.Inc()
		m.pooledBalance.Sub(float64(e.Amount))
	}
}

// SetPooledBalance seeds the balance gauge, typically once at startup before
// events start adjusting it.
func (m *Metrics) SetPooledBalance(balance int64) {
	m.pooledBalance.Set(float64(balance))
}

// RecordFailure counts a failed operation under the given error kind.
func (m *Metrics) RecordFailure(kind string) {
	m.failures.WithLabelValues(kind).Inc()
}
