package prom

import (
	"os"
	"time"

	xhttp "github.com/nimasrn/loanbook/pkg/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	SystemLedger = "ledger"
	SystemMerge  = "merge"
)

const (
	MetricLoansAppended = "loans_appended_total"
	MetricSettlements   = "settlements_total"
	MetricMergeInserted = "inserted_total"
	MetricMergeSkipped  = "skipped_total"
	MetricMergeDuration = "duration_seconds"
)

// Metrics holds the collectors of one process. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	loansAppended prometheus.Counter
	settlements   prometheus.Counter
	mergeInserted prometheus.Counter
	mergeSkipped  prometheus.Counter
	mergeDuration prometheus.Histogram
}

func Create(namespace string, env string) (*Metrics, error) {
	host, _ := os.Hostname()
	defaultLabels := prometheus.Labels{"env": env, "instance": host}

	m := &Metrics{registry: prometheus.NewRegistry()}
	counter := func(subsystem, name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: defaultLabels,
		})
	}
	m.loansAppended = counter(SystemLedger, MetricLoansAppended, "Loans recorded with add.")
	m.settlements = counter(SystemLedger, MetricSettlements, "Settlement rows appended.")
	m.mergeInserted = counter(SystemMerge, MetricMergeInserted, "Rows copied into the local ledger by merges.")
	m.mergeSkipped = counter(SystemMerge, MetricMergeSkipped, "Incoming rows dropped as duplicates by merges.")
	m.mergeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   SystemMerge,
		Name:        MetricMergeDuration,
		Help:        "Time spent merging two ledgers.",
		ConstLabels: defaultLabels,
		Buckets:     prometheus.DefBuckets,
	})

	for _, c := range []prometheus.Collector{m.loansAppended, m.settlements, m.mergeInserted, m.mergeSkipped, m.mergeDuration} {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) LoanAppended() {
	if m == nil {
		return
	}
	m.loansAppended.Inc()
}

func (m *Metrics) Settled() {
	if m == nil {
		return
	}
	m.settlements.Inc()
}

func (m *Metrics) Merged(inserted, skipped int, took time.Duration) {
	if m == nil {
		return
	}
	m.mergeInserted.Add(float64(inserted))
	m.mergeSkipped.Add(float64(skipped))
	m.mergeDuration.Observe(took.Seconds())
}

// WriteTextfile dumps the registry in the node exporter textfile format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// Handler serves the registry in the exposition format.
func (m *Metrics) Handler() xhttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
