package metrics

import (
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"time"
)

// BucketHistogram represents a bucketed distribution recorder. Each
// observation is classified into the bucket with the smallest upper bound
// greater than or equal to the value, or into the implicit overflow bucket
// beyond the last bound. Bucket counters and the running sum/min/max are
// updated atomically without cross-field coordination, so a snapshot is
// eventually consistent across fields.
type BucketHistogram struct {
	metricBase
	bounds []float64
	counts []atomic.Int64
	sum    atomicFloat64
	min    atomicFloat64
	max    atomicFloat64
	window *windowState
	nowFn  func() time.Time
}

func newBucketHistogram(base metricBase, bounds []float64, w Window) (*BucketHistogram, error) {
	if len(bounds) == 0 {
		return nil, ErrEmptyBounds
	}
	owned := make([]float64, len(bounds))
	copy(owned, bounds)
	for i, b := range owned {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return nil, ErrInvalidBounds
		}
		if i > 0 && b <= owned[i-1] {
			return nil, ErrInvalidBounds
		}
	}
	if err := w.validate(); err != nil {
		return nil, err
	}
	h := &BucketHistogram{
		metricBase: base,
		bounds:     owned,
		counts:     make([]atomic.Int64, len(owned)+1),
		window:     newWindowState(w),
		nowFn:      time.Now,
	}
	h.resetAggregates()
	return h, nil
}

// Bounds returns a copy of the configured upper bounds.
func (h *BucketHistogram) Bounds() []float64 {
	out := make([]float64, len(h.bounds))
	copy(out, h.bounds)
	return out
}

// Observe records a single observation. Non-finite values are rejected.
func (h *BucketHistogram) Observe(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: got %v", ErrNonFiniteValue, v)
	}
	if h.window.shouldReset(h.nowFn()) {
		h.resetAggregates()
	}
	idx := sort.SearchFloat64s(h.bounds, v)
	h.counts[idx].Add(1)
	h.sum.Add(v)
	h.min.StoreMin(v)
	h.max.StoreMax(v)
	return nil
}

// TryObserve records a single observation, reporting false instead of an
// error for non-finite input.
func (h *BucketHistogram) TryObserve(v float64) bool {
	return h.Observe(v) == nil
}

// GetValue returns a snapshot of the histogram. Fields are read individually
// with atomic loads rather than under one lock; totals may lag in-flight
// observations by a field or two, which is acceptable for metrics harvesting.
func (h *BucketHistogram) GetValue() Value {
	counts := make([]int64, len(h.counts))
	var total int64
	for i := range h.counts {
		c := h.counts[i].Load()
		counts[i] = c
		total += c
	}
	bounds := make([]float64, len(h.bounds))
	copy(bounds, h.bounds)
	return BucketHistogramValue{
		Count:  total,
		Min:    normalizeSentinel(h.min.Load()),
		Max:    normalizeSentinel(h.max.Load()),
		Sum:    h.sum.Load(),
		Bounds: bounds,
		Counts: counts,
	}
}

// resetAggregates clears all counters and restores the min/max sentinels.
// Writers racing a window rollover may land an observation on either side of
// the clear; they are never lost or double counted.
func (h *BucketHistogram) resetAggregates() {
	for i := range h.counts {
		h.counts[i].Store(0)
	}
	h.sum.Store(0)
	h.min.Store(math.Inf(1))
	h.max.Store(math.Inf(-1))
}

// LinearBuckets generates count ascending bounds starting at start+width and
// spaced width apart.
func LinearBuckets(start, width float64, count int) ([]float64, error) {
	if count <= 0 || width <= 0 || math.IsNaN(start) || math.IsInf(start, 0) {
		return nil, fmt.Errorf("%w: linear start=%v width=%v count=%d",
			ErrInvalidBucketSpec, start, width, count)
	}
	bounds := make([]float64, count)
	for i := range bounds {
		bounds[i] = start + width*float64(i+1)
	}
	return bounds, nil
}

// ExponentialBuckets generates count ascending bounds beginning at start and
// multiplied by factor for each subsequent bound.
func ExponentialBuckets(start, factor float64, count int) ([]float64, error) {
	if count <= 0 || start <= 0 || factor <= 1 ||
		math.IsNaN(start) || math.IsInf(start, 0) || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("%w: exponential start=%v factor=%v count=%d",
			ErrInvalidBucketSpec, start, factor, count)
	}
	bounds := make([]float64, count)
	next := start
	for i := range bounds {
		bounds[i] = next
		next *= factor
	}
	return bounds, nil
}
