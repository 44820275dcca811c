// Package metrics exposes Prometheus counters for roster conversions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bryan-cox/aimsledger/internal/model"
)

// Collector records conversion metrics on a private registry.
type Collector struct {
	registry *prometheus.Registry

	rostersParsed   prometheus.Counter
	rostersRejected prometheus.Counter
	sectors         prometheus.Counter
	unclaimedBlocks prometheus.Counter
	parseDuration   prometheus.Histogram
}

// NewCollector creates a Collector with all metrics registered.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		rostersParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aimsledger_rosters_parsed_total",
			Help: "Total number of rosters parsed successfully",
		}),
		rostersRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aimsledger_rosters_rejected_total",
			Help: "Total number of documents rejected as not being rosters",
		}),
		sectors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aimsledger_sectors_extracted_total",
			Help: "Total number of sectors extracted",
		}),
		unclaimedBlocks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aimsledger_unclaimed_blocks_total",
			Help: "Total number of roster blocks that could not be classified",
		}),
		parseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "aimsledger_parse_duration_seconds",
			Help:    "Roster parse latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	c.registry.MustRegister(
		c.rostersParsed,
		c.rostersRejected,
		c.sectors,
		c.unclaimedBlocks,
		c.parseDuration,
	)
	return c
}

// RecordParsed records a successful parse.
func (c *Collector) RecordParsed(r *model.Roster, elapsed time.Duration) {
	c.rostersParsed.Inc()
	c.parseDuration.Observe(elapsed.Seconds())
	for _, d := range r.Duties {
		c.sectors.Add(float64(len(d.Sectors)))
	}
	c.unclaimedBlocks.Add(float64(len(r.Diagnostics)))
}

// RecordRejected records a document that failed the input file check.
func (c *Collector) RecordRejected() {
	c.rostersRejected.Inc()
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collected metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
