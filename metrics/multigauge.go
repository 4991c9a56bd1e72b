package metrics

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

// MultiGauge represents an append-only bag of labeled gauge samples published
// under one logical metric. Samples carry either the parent identity (Set) or
// an independent sibling identity (AddSibling). A short critical section
// guards the sample buffer; snapshot-and-reset swaps buffers instead of
// copying so the lock is held O(1) on the hot path.
type MultiGauge struct {
	metricBase
	resetOnGet bool

	mu      sync.Mutex
	active  []multiSample
	scratch []multiSample
}

type multiSample struct {
	id    string
	name  string
	tags  map[string]string
	value float64
}

func newMultiGauge(base metricBase, initialCapacity int, resetOnGet bool) *MultiGauge {
	if initialCapacity < 0 {
		initialCapacity = 0
	}
	return &MultiGauge{
		metricBase: base,
		resetOnGet: resetOnGet,
		active:     make([]multiSample, 0, initialCapacity),
		scratch:    make([]multiSample, 0, initialCapacity),
	}
}

// Set appends a sample under the parent metric's own identity. The tag map is
// frozen at insertion, so later mutation by the caller has no effect.
func (m *MultiGauge) Set(value float64, tags map[string]string) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: got %v", ErrNonFiniteValue, value)
	}
	m.append(multiSample{id: m.id, name: m.name, tags: freezeTags(tags), value: value})
	return nil
}

// AddSibling appends a sample with its own identity, e.g. a per-disk or
// per-endpoint series under one logical metric.
func (m *MultiGauge) AddSibling(id, name string, value float64, tags map[string]string) error {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: sibling id=%q name=%q", ErrEmptyIdentity, id, name)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: got %v", ErrNonFiniteValue, value)
	}
	m.append(multiSample{id: id, name: name, tags: freezeTags(tags), value: value})
	return nil
}

func (m *MultiGauge) append(s multiSample) {
	m.mu.Lock()
	m.active = append(m.active, s)
	m.mu.Unlock()
}

// GetValue returns the accumulated samples. With reset-on-get the active
// buffer is swapped with the reusable scratch buffer under the lock and
// materialized outside it; without reset the live buffer is copied and left
// untouched.
func (m *MultiGauge) GetValue() Value {
	m.mu.Lock()
	if !m.resetOnGet {
		taken := make([]multiSample, len(m.active))
		copy(taken, m.active)
		m.mu.Unlock()
		return MultiSampleValue{Items: materializeSamples(taken)}
	}
	taken := m.active
	m.active = m.scratch[:0]
	m.scratch = nil
	m.mu.Unlock()

	items := materializeSamples(taken)

	// Hand the drained buffer back as the next scratch unless Clear raced us
	// and installed a fresh one.
	m.mu.Lock()
	if m.scratch == nil {
		m.scratch = taken[:0]
	}
	m.mu.Unlock()
	return MultiSampleValue{Items: items}
}

// Clear wipes both buffers. Used for administrative resets independent of the
// collection cycle.
func (m *MultiGauge) Clear() {
	m.mu.Lock()
	m.active = m.active[:0]
	if m.scratch == nil {
		m.scratch = []multiSample{}
	} else {
		m.scratch = m.scratch[:0]
	}
	m.mu.Unlock()
}

// ApproximateCount returns a best-effort count of buffered samples; it may be
// stale immediately after return.
func (m *MultiGauge) ApproximateCount() int {
	m.mu.Lock()
	n := len(m.active)
	m.mu.Unlock()
	return n
}

func materializeSamples(samples []multiSample) []MultiSampleItem {
	items := make([]MultiSampleItem, len(samples))
	for i, s := range samples {
		items[i] = MultiSampleItem{
			ID:    s.id,
			Name:  s.name,
			Tags:  s.tags,
			Value: GaugeValue{Value: s.value},
		}
	}
	return items
}
