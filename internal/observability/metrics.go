package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tree_forest"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// census load and the view endpoints.
type Metrics struct {
	RecordsParsed  prometheus.Counter
	RecordsSkipped prometheus.Counter
	LoadFailures   prometheus.Counter
	LoadDuration   prometheus.Histogram
	GeneraLoaded   prometheus.Gauge
	DatasetLoaded  prometheus.Gauge

	// Publishing metrics.
	AggregatesPublished prometheus.Counter
	PublishFailures     prometheus.Counter

	// View metrics.
	ViewRequests *prometheus.CounterVec // labels: format={json,svg,html}, sort={population,height,diversity,spread}
	RenderCache  *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)

	prometheus.MustRegister(
		m.RecordsParsed,
		m.RecordsSkipped,
		m.LoadFailures,
		m.LoadDuration,
		m.GeneraLoaded,
		m.DatasetLoaded,
		m.AggregatesPublished,
		m.PublishFailures,
		m.ViewRequests,
		m.RenderCache,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}

	return &Metrics{
		RecordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_parsed_total",
			Help:      help("Tree records parsed from the census CSV."),
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      help("Malformed CSV lines skipped during parsing."),
		}),
		LoadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_failures_total",
			Help:      help("Census loads that failed to fetch or parse."),
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      help("Duration of the fetch-parse-aggregate load."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		GeneraLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "genera",
			Help:      help("Distinct genera in the loaded dataset."),
		}),
		DatasetLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_loaded",
			Help:      help("1 once the census load attempt has completed, 0 before."),
		}),
		AggregatesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregates_published_total",
			Help:      help("Genus aggregates written to the sink topic."),
		}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_failures_total",
			Help:      help("Failed attempts to publish the aggregate set."),
		}),
		ViewRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_requests_total",
			Help:      help("Forest view requests by output format and sort key."),
		}, []string{"format", "sort"}),
		RenderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_cache_total",
			Help:      help("Rendered SVG cache lookups by result."),
		}, []string{"result"}),
	}
}
