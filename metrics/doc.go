// Package metrics exposes associated-value store activity as Prometheus
// metrics.
//
// The store and the hostkit runtime both keep their own counters; this
// package adapts those snapshots to prometheus.Collector, so scrapes always
// see current values without any instrumentation inside the hot paths.
//
// # Example Usage
//
//	st := assoc.New(assoc.Config{})
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(metrics.NewStoreCollector(st))
//
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// # Exported Metrics
//
// Store (subsystem "store"): operation counters (sets, removals, gets,
// hits, remove_alls), table lifecycle counters, and gauges for the objects
// and associations currently live.
//
// Runtime (subsystem "runtime"): registry and teardown counters, cell
// reference-count activity, over-release and leaked-return anomaly
// counters, and cleanup region lifecycles.
package metrics
