package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docnav"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	registry      *prom.Registry
	stageDuration *prom.HistogramVec
	runDuration   *prom.HistogramVec
	pages         *prom.GaugeVec
	links         *prom.GaugeVec
	findings      *prom.GaugeVec
	outcomes      *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the collectors on reg, or on a fresh
// registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"locale", "stage"})
		pr.runDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total duration of a navigation check",
			Buckets:   prom.DefBuckets,
		}, []string{"locale"})
		pr.pages = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "pages",
			Help:      "Pages in the content index of the last run",
		}, []string{"locale"})
		pr.links = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "content_links",
			Help:      "Inter-page links checked in the last run",
		}, []string{"locale"})
		pr.findings = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "findings",
			Help:      "Validation findings of the last run by kind",
		}, []string{"locale", "kind"})
		pr.outcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Runs by final status",
		}, []string{"locale", "outcome"})
		reg.MustRegister(pr.stageDuration, pr.runDuration, pr.pages, pr.links, pr.findings, pr.outcomes)
	})
	return pr
}

// Registry returns the registry the collectors are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

func (p *PrometheusRecorder) ObserveStageDuration(locale, stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(locale, stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(locale string, d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.WithLabelValues(locale).Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetPages(locale string, n int) {
	if p == nil || p.pages == nil {
		return
	}
	p.pages.WithLabelValues(locale).Set(float64(n))
}

func (p *PrometheusRecorder) SetLinks(locale string, n int) {
	if p == nil || p.links == nil {
		return
	}
	p.links.WithLabelValues(locale).Set(float64(n))
}

func (p *PrometheusRecorder) SetFindings(locale, kind string, n int) {
	if p == nil || p.findings == nil {
		return
	}
	p.findings.WithLabelValues(locale, kind).Set(float64(n))
}

func (p *PrometheusRecorder) IncRunOutcome(locale string, outcome Outcome) {
	if p == nil || p.outcomes == nil {
		return
	}
	p.outcomes.WithLabelValues(locale, string(outcome)).Inc()
}

// WriteTextfile writes the current metrics in the node_exporter textfile format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.registry)
}
