package llrb

import "github.com/prometheus/client_golang/prometheus"

const metricsNamespace = "rdms_llrb"

var counterstats = []string{
	"n_lookups", "n_ranges", "n_inserts", "n_updates", "n_deletes",
	"n_removes", "n_casfails", "n_nodes", "n_clones", "n_compacts",
	"n_purged", "n_commits",
}

var gaugestats = []string{"n_count", "footprint", "memcapacity", "seqno"}

// Collector export index statistics as prometheus metrics. Every
// metric carry the index name in the `index` label, along with the
// constant labels supplied to NewCollector.
type Collector struct {
	stats func() map[string]interface{}
	descs map[string]*prometheus.Desc
	kinds map[string]prometheus.ValueType
}

type statser interface {
	ID() string
	Stats() map[string]interface{}
}

// NewCollector return a prometheus collector for index, register it
// with a prometheus.Registerer to export index statistics.
func NewCollector(index statser, labels prometheus.Labels) *Collector {
	constlabels := prometheus.Labels{"index": index.ID()}
	for k, v := range labels {
		constlabels[k] = v
	}

	c := &Collector{
		stats: index.Stats,
		descs: make(map[string]*prometheus.Desc),
		kinds: make(map[string]prometheus.ValueType),
	}
	for _, name := range counterstats {
		fqname := prometheus.BuildFQName(metricsNamespace, "", name[2:]+"_total")
		c.descs[name] = prometheus.NewDesc(fqname, "llrb "+name, nil, constlabels)
		c.kinds[name] = prometheus.CounterValue
	}
	for _, name := range gaugestats {
		fqname := prometheus.BuildFQName(metricsNamespace, "", name)
		c.descs[name] = prometheus.NewDesc(fqname, "llrb "+name, nil, constlabels)
		c.kinds[name] = prometheus.GaugeValue
	}
	return c
}

// Describe implement prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range c.descs {
		ch <- desc
	}
}

// Collect implement prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.stats()
	for name, desc := range c.descs {
		var value float64
		switch v := stats[name].(type) {
		case int64:
			value = float64(v)
		case uint64:
			value = float64(v)
		default:
			continue
		}
		ch <- prometheus.MustNewConstMetric(desc, c.kinds[name], value)
	}
}
