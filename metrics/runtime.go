package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kolkov/assocstore/hostkit"
)

// RuntimeCollector adapts a hostkit runtime's counters to
// prometheus.Collector. The over_releases and leaked_returns series are the
// ones worth alerting on; both should stay at zero in a correct program.
type RuntimeCollector struct {
	rt *hostkit.Runtime

	registered        *prometheus.Desc
	destroyed         *prometheus.Desc
	firstAssociations *prometheus.Desc
	cellRetains       *prometheus.Desc
	copies            *prometheus.Desc
	cellReleases      *prometheus.Desc
	cellsFreed        *prometheus.Desc
	overReleases      *prometheus.Desc
	leakedReturns     *prometheus.Desc
	regionsOpened     *prometheus.Desc
	regionsClosed     *prometheus.Desc
}

// NewRuntimeCollector builds a collector for rt.
func NewRuntimeCollector(rt *hostkit.Runtime) *RuntimeCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "runtime", name),
			help, nil, nil,
		)
	}
	return &RuntimeCollector{
		rt:                rt,
		registered:        desc("objects_registered_total", "Objects added to the registry."),
		destroyed:         desc("objects_destroyed_total", "Objects torn down."),
		firstAssociations: desc("first_associations_total", "First-association signals received."),
		cellRetains:       desc("cell_retains_total", "References taken on cells."),
		copies:            desc("copies_total", "Duplicates made for copy policies."),
		cellReleases:      desc("cell_releases_total", "References dropped on cells."),
		cellsFreed:        desc("cells_freed_total", "Cells whose reference count reached zero."),
		overReleases:      desc("over_releases_total", "Releases observed past zero."),
		leakedReturns:     desc("leaked_returns_total", "Deferred releases dropped for lack of an open region."),
		regionsOpened:     desc("regions_opened_total", "Cleanup regions opened."),
		regionsClosed:     desc("regions_closed_total", "Cleanup regions closed."),
	}
}

// Describe implements prometheus.Collector.
func (c *RuntimeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.registered
	ch <- c.destroyed
	ch <- c.firstAssociations
	ch <- c.cellRetains
	ch <- c.copies
	ch <- c.cellReleases
	ch <- c.cellsFreed
	ch <- c.overReleases
	ch <- c.leakedReturns
	ch <- c.regionsOpened
	ch <- c.regionsClosed
}

// Collect implements prometheus.Collector.
func (c *RuntimeCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.rt.GetStats()
	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	counter(c.registered, s.Registered)
	counter(c.destroyed, s.Destroyed)
	counter(c.firstAssociations, s.FirstAssociations)
	counter(c.cellRetains, s.CellsRetained)
	counter(c.copies, s.Copies)
	counter(c.cellReleases, s.CellsReleased)
	counter(c.cellsFreed, s.CellsFreed)
	counter(c.overReleases, s.OverReleases)
	counter(c.leakedReturns, s.LeakedReturns)
	counter(c.regionsOpened, s.RegionsOpened)
	counter(c.regionsClosed, s.RegionsClosed)
}
