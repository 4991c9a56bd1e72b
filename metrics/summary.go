package metrics

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Summary represents a distribution instrument reporting configurable
// quantiles. Count, sum, min and max are exact over the window; quantiles are
// nearest-rank estimates over a fixed-capacity sliding sample window, so once
// the window wraps they describe the most recent observations only.
type Summary struct {
	metricBase
	quantiles []float64

	count atomic.Int64
	sum   atomicFloat64
	min   atomicFloat64
	max   atomicFloat64

	mu      sync.Mutex
	samples []float64
	next    int
	size    int

	window *windowState
	nowFn  func() time.Time
}

func newSummary(base metricBase, quantiles []float64, capacity int, w Window) (*Summary, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("metrics: summary window capacity must be greater than 0, got %d", capacity)
	}
	if len(quantiles) == 0 {
		quantiles = []float64{0.5, 0.9, 0.99}
	}
	owned := make([]float64, len(quantiles))
	copy(owned, quantiles)
	sort.Float64s(owned)
	for _, q := range owned {
		if math.IsNaN(q) || q < 0 || q > 1 {
			return nil, fmt.Errorf("%w: got %v", ErrInvalidQuantile, q)
		}
	}
	if err := w.validate(); err != nil {
		return nil, err
	}
	s := &Summary{
		metricBase: base,
		quantiles:  owned,
		samples:    make([]float64, capacity),
		window:     newWindowState(w),
		nowFn:      time.Now,
	}
	s.resetAggregates()
	return s, nil
}

// Observe records a single observation. Non-finite values are rejected.
func (s *Summary) Observe(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: got %v", ErrNonFiniteValue, v)
	}
	if s.window.shouldReset(s.nowFn()) {
		s.resetAggregates()
	}
	s.count.Add(1)
	s.sum.Add(v)
	s.min.StoreMin(v)
	s.max.StoreMax(v)

	s.mu.Lock()
	s.samples[s.next] = v
	s.next = (s.next + 1) % len(s.samples)
	if s.size < len(s.samples) {
		s.size++
	}
	s.mu.Unlock()
	return nil
}

// TryObserve records a single observation, reporting false instead of an
// error for non-finite input.
func (s *Summary) TryObserve(v float64) bool {
	return s.Observe(v) == nil
}

// GetValue returns a snapshot with nearest-rank quantiles computed over the
// current sample window.
func (s *Summary) GetValue() Value {
	s.mu.Lock()
	window := make([]float64, s.size)
	copy(window, s.samples[:s.size])
	s.mu.Unlock()

	quantiles := make(map[float64]float64, len(s.quantiles))
	if len(window) > 0 {
		sort.Float64s(window)
		for _, q := range s.quantiles {
			quantiles[q] = nearestRank(window, q)
		}
	} else {
		for _, q := range s.quantiles {
			quantiles[q] = 0
		}
	}
	return SummaryValue{
		Count:     s.count.Load(),
		Min:       normalizeSentinel(s.min.Load()),
		Max:       normalizeSentinel(s.max.Load()),
		Quantiles: quantiles,
	}
}

func (s *Summary) resetAggregates() {
	s.count.Store(0)
	s.sum.Store(0)
	s.min.Store(math.Inf(1))
	s.max.Store(math.Inf(-1))

	s.mu.Lock()
	s.next = 0
	s.size = 0
	s.mu.Unlock()
}

// snapshotRanks reads count/min/max plus the requested ranks over the
// current window. Used by the timer snapshot.
func (s *Summary) snapshotRanks(qs ...float64) (int64, float64, float64, []float64) {
	s.mu.Lock()
	window := make([]float64, s.size)
	copy(window, s.samples[:s.size])
	s.mu.Unlock()

	ranks := make([]float64, len(qs))
	if len(window) > 0 {
		sort.Float64s(window)
		for i, q := range qs {
			ranks[i] = nearestRank(window, q)
		}
	}
	return s.count.Load(),
		normalizeSentinel(s.min.Load()),
		normalizeSentinel(s.max.Load()),
		ranks
}

// nearestRank returns the nearest-rank quantile of an ascending-sorted,
// non-empty sample slice.
func nearestRank(sorted []float64, q float64) float64 {
	idx := int(math.Ceil(q*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
