package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kolkov/assocstore/assoc"
)

// namespace prefixes every metric this package exports.
const namespace = "assocstore"

// StoreCollector adapts a store's activity counters to prometheus.Collector.
// Each scrape takes one stats snapshot and one table walk; no state is kept
// between scrapes.
type StoreCollector struct {
	store *assoc.Store

	sets          *prometheus.Desc
	removals      *prometheus.Desc
	gets          *prometheus.Desc
	hits          *prometheus.Desc
	removeAlls    *prometheus.Desc
	tablesCreated *prometheus.Desc
	tablesDropped *prometheus.Desc
	objects       *prometheus.Desc
	associations  *prometheus.Desc
}

// NewStoreCollector builds a collector for st. Register it with a
// prometheus.Registerer; one store should be registered at most once per
// registry.
func NewStoreCollector(st *assoc.Store) *StoreCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "store", name),
			help, nil, nil,
		)
	}
	return &StoreCollector{
		store:         st,
		sets:          desc("sets_total", "Set calls that stored a value."),
		removals:      desc("removals_total", "Set calls that requested a removal."),
		gets:          desc("gets_total", "Get calls."),
		hits:          desc("hits_total", "Get calls that found a record."),
		removeAlls:    desc("remove_alls_total", "RemoveAll calls."),
		tablesCreated: desc("tables_created_total", "Per-object tables created."),
		tablesDropped: desc("tables_dropped_total", "Per-object tables deleted."),
		objects:       desc("objects", "Objects currently carrying associations."),
		associations:  desc("associations", "Association records currently live."),
	}
}

// Describe implements prometheus.Collector.
func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.sets
	ch <- c.removals
	ch <- c.gets
	ch <- c.hits
	ch <- c.removeAlls
	ch <- c.tablesCreated
	ch <- c.tablesDropped
	ch <- c.objects
	ch <- c.associations
}

// Collect implements prometheus.Collector.
func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.store.GetStats()
	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	counter(c.sets, s.Sets)
	counter(c.removals, s.Removals)
	counter(c.gets, s.Gets)
	counter(c.hits, s.Hits)
	counter(c.removeAlls, s.RemoveAlls)
	counter(c.tablesCreated, s.TablesCreated)
	counter(c.tablesDropped, s.TablesDropped)

	objects, associations := c.store.Counts()
	ch <- prometheus.MustNewConstMetric(c.objects, prometheus.GaugeValue, float64(objects))
	ch <- prometheus.MustNewConstMetric(c.associations, prometheus.GaugeValue, float64(associations))
}
