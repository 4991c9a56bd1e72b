// Package monitor publishes Go runtime self-metrics through the instrument
// engine: goroutine and heap gauges, a GC pause summary, and a multi-gauge
// mirroring runtime/metrics series as siblings.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	runtimemetrics "runtime/metrics"
	"strings"

	"github.com/netmetric/netmetric/metrics"
)

// Config represents monitor configuration
type Config struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// RuntimeSeries enables mirroring of runtime/metrics series into the
	// multi-gauge. Disable to keep harvests small.
	RuntimeSeries bool `json:"runtime_series" yaml:"runtime_series"`
}

// DefaultConfig returns the default monitor configuration
func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		RuntimeSeries: true,
	}
}

// Monitor samples the Go runtime into instruments built from a factory. It
// implements the registry's pre-harvest Updater hook so readings are current
// at collection time.
type Monitor struct {
	config *Config

	goroutines  *metrics.Gauge
	heapAlloc   *metrics.Gauge
	heapObjects *metrics.Gauge
	gcPauses    *metrics.Summary
	gcCycles    *metrics.Counter
	series      *metrics.MultiGauge

	lastNumGC uint32
	samples   []runtimemetrics.Sample
}

// New builds the monitor's instruments from the factory.
func New(factory metrics.Factory, cfg *Config) (*Monitor, error) {
	if factory == nil {
		return nil, errors.New("monitor: factory must not be nil")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	m := &Monitor{config: cfg}

	var err error
	if m.goroutines, err = factory.Gauge("go.goroutines", "Goroutine count").Build(); err != nil {
		return nil, err
	}
	if m.heapAlloc, err = factory.Gauge("go.heap.alloc", "Heap bytes allocated").
		WithUnit("bytes").Build(); err != nil {
		return nil, err
	}
	if m.heapObjects, err = factory.Gauge("go.heap.objects", "Live heap objects").Build(); err != nil {
		return nil, err
	}
	if m.gcPauses, err = factory.Summary("go.gc.pause", "GC pause durations").
		WithUnit("ms").
		WithQuantiles(0.5, 0.9, 0.99).
		Build(); err != nil {
		return nil, err
	}
	if m.gcCycles, err = factory.Counter("go.gc.cycles", "Completed GC cycles").Build(); err != nil {
		return nil, err
	}
	if m.series, err = factory.MultiGauge("go.runtime", "Runtime metric series").
		WithResetOnGet(true).
		WithInitialCapacity(64).
		Build(); err != nil {
		return nil, err
	}

	if cfg.RuntimeSeries {
		descs := runtimemetrics.All()
		m.samples = make([]runtimemetrics.Sample, 0, len(descs))
		for _, d := range descs {
			switch d.Kind {
			case runtimemetrics.KindUint64, runtimemetrics.KindFloat64:
				m.samples = append(m.samples, runtimemetrics.Sample{Name: d.Name})
			}
		}
	}
	return m, nil
}

// Instruments returns the monitor's instruments for registration.
func (m *Monitor) Instruments() []metrics.Instrument {
	return []metrics.Instrument{
		m.goroutines, m.heapAlloc, m.heapObjects, m.gcPauses, m.gcCycles, m.series,
	}
}

// Update refreshes all readings. Called by the registry before each harvest.
func (m *Monitor) Update(_ context.Context) error {
	if !m.config.Enabled {
		return nil
	}

	m.goroutines.Set(float64(runtime.NumGoroutine()))

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.heapAlloc.Set(float64(ms.HeapAlloc))
	m.heapObjects.Set(float64(ms.HeapObjects))
	m.recordGCPauses(&ms)

	if len(m.samples) > 0 {
		return m.updateSeries()
	}
	return nil
}

// recordGCPauses feeds pauses from GC cycles completed since the previous
// update into the pause summary.
func (m *Monitor) recordGCPauses(ms *runtime.MemStats) {
	numGC := ms.NumGC
	if numGC > m.lastNumGC {
		cycles := numGC - m.lastNumGC
		if cycles > uint32(len(ms.PauseNs)) {
			cycles = uint32(len(ms.PauseNs))
		}
		for i := uint32(0); i < cycles; i++ {
			pause := ms.PauseNs[(numGC-i+uint32(len(ms.PauseNs))-1)%uint32(len(ms.PauseNs))]
			_ = m.gcPauses.Observe(float64(pause) / 1e6)
			m.gcCycles.Inc()
		}
	}
	m.lastNumGC = numGC
}

func (m *Monitor) updateSeries() error {
	runtimemetrics.Read(m.samples)

	for _, s := range m.samples {
		var v float64
		switch s.Value.Kind() {
		case runtimemetrics.KindUint64:
			v = float64(s.Value.Uint64())
		case runtimemetrics.KindFloat64:
			v = s.Value.Float64()
		default:
			continue
		}
		id := seriesID(s.Name)
		if err := m.series.AddSibling(id, s.Name, v, nil); err != nil {
			return fmt.Errorf("monitor: publish %s: %w", s.Name, err)
		}
	}
	return nil
}

// seriesID turns a runtime/metrics name like /sched/goroutines:goroutines
// into a dotted sibling id.
func seriesID(name string) string {
	id := strings.TrimPrefix(name, "/")
	if i := strings.IndexByte(id, ':'); i >= 0 {
		id = id[:i]
	}
	return "go.runtime." + strings.ReplaceAll(id, "/", ".")
}
