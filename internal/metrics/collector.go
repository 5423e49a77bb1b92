package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PropertySource lists the properties of the current rule set.
type PropertySource interface {
	Properties(values bool) map[string][]string
}

// RuleCollector implements prometheus.Collector for the rule set. It reads
// the properties lazily on each scrape, so a reloaded configuration shows up
// without re-registration.
type RuleCollector struct {
	source PropertySource

	values     *prometheus.Desc
	properties *prometheus.Desc
}

// NewRuleCollector creates a collector that inspects src on demand.
func NewRuleCollector(src PropertySource) *RuleCollector {
	return &RuleCollector{
		source: src,

		values: prometheus.NewDesc(
			"guessit_rules",
			"Number of fixed values known for a property.",
			[]string{"property"}, nil,
		),
		properties: prometheus.NewDesc(
			"guessit_rules_properties",
			"Number of properties the rule set can report.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *RuleCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.values
	ch <- c.properties
}

// Collect implements prometheus.Collector.
func (c *RuleCollector) Collect(ch chan<- prometheus.Metric) {
	props := c.source.Properties(true)

	for name, values := range props {
		ch <- prometheus.MustNewConstMetric(c.values, prometheus.GaugeValue, float64(len(values)), name)
	}
	ch <- prometheus.MustNewConstMetric(c.properties, prometheus.GaugeValue, float64(len(props)))
}
