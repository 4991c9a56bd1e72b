package metrics

import (
	"math"
	"sync/atomic"
)

// atomicFloat64 stores a float64 as raw IEEE-754 bits so it can be updated
// with compare-and-swap retry loops. Retries are unbounded under contention;
// the loops never block.
type atomicFloat64 struct {
	bits atomic.Uint64
}

func (f *atomicFloat64) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

func (f *atomicFloat64) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

// Add atomically adds v to the stored value.
func (f *atomicFloat64) Add(v float64) {
	for {
		old := f.bits.Load()
		cur := math.Float64frombits(old)
		if f.bits.CompareAndSwap(old, math.Float64bits(cur+v)) {
			return
		}
	}
}

// StoreMin atomically lowers the stored value to v if v is smaller.
func (f *atomicFloat64) StoreMin(v float64) {
	for {
		old := f.bits.Load()
		cur := math.Float64frombits(old)
		if v >= cur {
			return
		}
		if f.bits.CompareAndSwap(old, math.Float64bits(v)) {
			return
		}
	}
}

// StoreMax atomically raises the stored value to v if v is larger.
func (f *atomicFloat64) StoreMax(v float64) {
	for {
		old := f.bits.Load()
		cur := math.Float64frombits(old)
		if v <= cur {
			return
		}
		if f.bits.CompareAndSwap(old, math.Float64bits(v)) {
			return
		}
	}
}

// normalizeSentinel maps the ±Inf min/max sentinels of an empty aggregate to 0
// for reporting.
func normalizeSentinel(v float64) float64 {
	if math.IsInf(v, 0) {
		return 0
	}
	return v
}
