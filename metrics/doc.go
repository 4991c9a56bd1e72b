// Package metrics provides the core metric instrument engine: thread-safe
// counters, gauges, bucket histograms, summaries, timers and multi-gauges,
// together with their fluent builders and factory.
//
// # Usage
//
//	factory, _ := metrics.NewFactory(nil)
//
//	hist, err := factory.Histogram("http.latency", "HTTP request latency").
//	    WithUnit("ms").
//	    Linear(0, 10, 10).
//	    Build()
//	if err != nil {
//	    // invalid configuration fails fast at startup
//	}
//
//	hist.Observe(12.5)
//	snapshot := hist.GetValue() // immutable metrics.Value for export
//
// Producers mutate instruments concurrently from arbitrary goroutines; all
// hot-path operations are lock-free or guarded by a short critical section
// and complete without blocking. A collection cycle calls GetValue on each
// instrument to harvest immutable snapshots for export; exporters live
// outside this package and consume only the Value variants.
package metrics
