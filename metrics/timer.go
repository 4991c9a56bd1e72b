package metrics

import (
	"sync/atomic"
	"time"
)

// Timer represents a duration instrument. Elapsed times are recorded in
// milliseconds into an internal summary; the snapshot reports p50/p90/p99.
type Timer struct {
	metricBase
	summary *Summary
	nowFn   func() time.Time
}

// Stopwatch represents one in-flight measurement. Each Start call returns an
// independent stopwatch, so concurrent measurements do not interfere.
type Stopwatch struct {
	timer   *Timer
	start   time.Time
	stopped atomic.Bool
}

// Start begins a new measurement.
func (t *Timer) Start() *Stopwatch {
	return &Stopwatch{timer: t, start: t.nowFn()}
}

// Stop records the elapsed time and returns it. Calling Stop more than once
// records only the first measurement.
func (sw *Stopwatch) Stop() time.Duration {
	elapsed := sw.timer.nowFn().Sub(sw.start)
	if sw.stopped.CompareAndSwap(false, true) {
		sw.timer.Record(elapsed)
	}
	return elapsed
}

// Record records an elapsed duration directly. Negative durations clamp to
// zero.
func (t *Timer) Record(d time.Duration) {
	if d < 0 {
		d = 0
	}
	// The summary rejects only non-finite values, which a duration cannot
	// produce.
	_ = t.summary.Observe(float64(d) / float64(time.Millisecond))
}

// Time measures the execution of fn.
func (t *Timer) Time(fn func()) time.Duration {
	sw := t.Start()
	fn()
	return sw.Stop()
}

// GetValue returns a distribution snapshot in milliseconds.
func (t *Timer) GetValue() Value {
	count, minV, maxV, ranks := t.summary.snapshotRanks(0.5, 0.9, 0.99)
	v := DistributionValue{Count: count, Min: minV, Max: maxV}
	if len(ranks) == 3 {
		v.P50, v.P90, v.P99 = ranks[0], ranks[1], ranks[2]
	}
	return v
}
