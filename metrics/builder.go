package metrics

import (
	"strings"
	"time"
)

// builderCore accumulates the configuration shared by every builder and
// materializes the frozen instrument identity at Build time.
type builderCore struct {
	opts        *Options
	id          string
	name        string
	unit        string
	description string
	tags        map[string]string
	window      Window
}

func newBuilderCore(opts *Options, id, name string) builderCore {
	return builderCore{opts: opts, id: id, name: name}
}

func (c *builderCore) setTag(key, value string) {
	if c.tags == nil {
		c.tags = make(map[string]string)
	}
	c.tags[key] = value
}

func (c *builderCore) applyTags(fn func(tags map[string]string)) {
	if fn == nil {
		return
	}
	if c.tags == nil {
		c.tags = make(map[string]string)
	}
	fn(c.tags)
}

// materialize validates identity and produces the frozen metric base. Local
// tags take precedence over resource tags, which take precedence over global
// tags; the merged set is sanitized against the configured limits.
func (c *builderCore) materialize(kind Kind) (metricBase, error) {
	if strings.TrimSpace(c.id) == "" || strings.TrimSpace(c.name) == "" {
		return metricBase{}, ErrEmptyIdentity
	}
	merged := mergeTags(c.opts.GlobalTags, c.opts.ResourceTags, c.tags)
	return metricBase{
		id:          c.id,
		name:        c.name,
		kind:        kind,
		unit:        c.unit,
		description: c.description,
		tags:        sanitizeTags(merged, c.opts),
	}, nil
}

// CounterBuilder configures and builds a Counter.
type CounterBuilder struct {
	core builderCore
}

// WithUnit sets the unit string.
func (b *CounterBuilder) WithUnit(unit string) *CounterBuilder {
	b.core.unit = unit
	return b
}

// WithDescription sets the description.
func (b *CounterBuilder) WithDescription(desc string) *CounterBuilder {
	b.core.description = desc
	return b
}

// WithTag adds a single local tag.
func (b *CounterBuilder) WithTag(key, value string) *CounterBuilder {
	b.core.setTag(key, value)
	return b
}

// WithTags applies fn to the local tag map.
func (b *CounterBuilder) WithTags(fn func(tags map[string]string)) *CounterBuilder {
	b.core.applyTags(fn)
	return b
}

// Build constructs the counter.
func (b *CounterBuilder) Build() (*Counter, error) {
	base, err := b.core.materialize(KindCounter)
	if err != nil {
		return nil, err
	}
	return &Counter{metricBase: base}, nil
}

// GaugeBuilder configures and builds a Gauge.
type GaugeBuilder struct {
	core builderCore
}

// WithUnit sets the unit string.
func (b *GaugeBuilder) WithUnit(unit string) *GaugeBuilder {
	b.core.unit = unit
	return b
}

// WithDescription sets the description.
func (b *GaugeBuilder) WithDescription(desc string) *GaugeBuilder {
	b.core.description = desc
	return b
}

// WithTag adds a single local tag.
func (b *GaugeBuilder) WithTag(key, value string) *GaugeBuilder {
	b.core.setTag(key, value)
	return b
}

// WithTags applies fn to the local tag map.
func (b *GaugeBuilder) WithTags(fn func(tags map[string]string)) *GaugeBuilder {
	b.core.applyTags(fn)
	return b
}

// Build constructs the gauge.
func (b *GaugeBuilder) Build() (*Gauge, error) {
	base, err := b.core.materialize(KindGauge)
	if err != nil {
		return nil, err
	}
	return &Gauge{metricBase: base}, nil
}

// BucketHistogramBuilder configures and builds a BucketHistogram. Exactly one
// bucket strategy (Linear, Exponential or WithBounds) must be selected before
// Build.
type BucketHistogramBuilder struct {
	core     builderCore
	bounds   []float64
	selected bool
	err      error
}

// WithUnit sets the unit string.
func (b *BucketHistogramBuilder) WithUnit(unit string) *BucketHistogramBuilder {
	b.core.unit = unit
	return b
}

// WithDescription sets the description.
func (b *BucketHistogramBuilder) WithDescription(desc string) *BucketHistogramBuilder {
	b.core.description = desc
	return b
}

// WithTag adds a single local tag.
func (b *BucketHistogramBuilder) WithTag(key, value string) *BucketHistogramBuilder {
	b.core.setTag(key, value)
	return b
}

// WithTags applies fn to the local tag map.
func (b *BucketHistogramBuilder) WithTags(fn func(tags map[string]string)) *BucketHistogramBuilder {
	b.core.applyTags(fn)
	return b
}

// WithWindow sets the window policy.
func (b *BucketHistogramBuilder) WithWindow(w Window) *BucketHistogramBuilder {
	b.core.window = w
	return b
}

// WithTumbling sets a tumbling window policy with the given period.
func (b *BucketHistogramBuilder) WithTumbling(period time.Duration) *BucketHistogramBuilder {
	b.core.window = Tumbling(period)
	return b
}

// Linear selects linearly spaced bounds: start+width, start+2*width, ...
func (b *BucketHistogramBuilder) Linear(start, width float64, count int) *BucketHistogramBuilder {
	b.bounds, b.err = LinearBuckets(start, width, count)
	b.selected = true
	return b
}

// Exponential selects exponentially spaced bounds: start, start*factor, ...
func (b *BucketHistogramBuilder) Exponential(start, factor float64, count int) *BucketHistogramBuilder {
	b.bounds, b.err = ExponentialBuckets(start, factor, count)
	b.selected = true
	return b
}

// WithBounds selects explicit ascending upper bounds.
func (b *BucketHistogramBuilder) WithBounds(bounds ...float64) *BucketHistogramBuilder {
	b.bounds = bounds
	b.selected = true
	b.err = nil
	return b
}

// Build constructs the histogram. Configuration errors surface here so a
// misconfigured histogram fails at startup rather than mid-collection.
func (b *BucketHistogramBuilder) Build() (*BucketHistogram, error) {
	if !b.selected {
		return nil, ErrNoBucketStrategy
	}
	if b.err != nil {
		return nil, b.err
	}
	base, err := b.core.materialize(KindHistogram)
	if err != nil {
		return nil, err
	}
	return newBucketHistogram(base, b.bounds, b.core.window)
}

// SummaryBuilder configures and builds a Summary.
type SummaryBuilder struct {
	core       builderCore
	quantiles  []float64
	maxSamples int
}

// WithUnit sets the unit string.
func (b *SummaryBuilder) WithUnit(unit string) *SummaryBuilder {
	b.core.unit = unit
	return b
}

// WithDescription sets the description.
func (b *SummaryBuilder) WithDescription(desc string) *SummaryBuilder {
	b.core.description = desc
	return b
}

// WithTag adds a single local tag.
func (b *SummaryBuilder) WithTag(key, value string) *SummaryBuilder {
	b.core.setTag(key, value)
	return b
}

// WithTags applies fn to the local tag map.
func (b *SummaryBuilder) WithTags(fn func(tags map[string]string)) *SummaryBuilder {
	b.core.applyTags(fn)
	return b
}

// WithWindow sets the window policy.
func (b *SummaryBuilder) WithWindow(w Window) *SummaryBuilder {
	b.core.window = w
	return b
}

// WithTumbling sets a tumbling window policy with the given period.
func (b *SummaryBuilder) WithTumbling(period time.Duration) *SummaryBuilder {
	b.core.window = Tumbling(period)
	return b
}

// WithQuantiles sets the reported quantiles; each must lie in [0,1].
func (b *SummaryBuilder) WithQuantiles(quantiles ...float64) *SummaryBuilder {
	b.quantiles = quantiles
	return b
}

// WithMaxSamples overrides the sliding sample window capacity.
func (b *SummaryBuilder) WithMaxSamples(n int) *SummaryBuilder {
	b.maxSamples = n
	return b
}

// Build constructs the summary.
func (b *SummaryBuilder) Build() (*Summary, error) {
	base, err := b.core.materialize(KindSummary)
	if err != nil {
		return nil, err
	}
	capacity := b.maxSamples
	if capacity == 0 {
		capacity = b.core.opts.SummaryWindowSize
	}
	return newSummary(base, b.quantiles, capacity, b.core.window)
}

// TimerBuilder configures and builds a Timer.
type TimerBuilder struct {
	core       builderCore
	maxSamples int
}

// WithUnit sets the unit string; defaults to milliseconds.
func (b *TimerBuilder) WithUnit(unit string) *TimerBuilder {
	b.core.unit = unit
	return b
}

// WithDescription sets the description.
func (b *TimerBuilder) WithDescription(desc string) *TimerBuilder {
	b.core.description = desc
	return b
}

// WithTag adds a single local tag.
func (b *TimerBuilder) WithTag(key, value string) *TimerBuilder {
	b.core.setTag(key, value)
	return b
}

// WithTags applies fn to the local tag map.
func (b *TimerBuilder) WithTags(fn func(tags map[string]string)) *TimerBuilder {
	b.core.applyTags(fn)
	return b
}

// WithWindow sets the window policy for the underlying distribution.
func (b *TimerBuilder) WithWindow(w Window) *TimerBuilder {
	b.core.window = w
	return b
}

// WithTumbling sets a tumbling window policy with the given period.
func (b *TimerBuilder) WithTumbling(period time.Duration) *TimerBuilder {
	b.core.window = Tumbling(period)
	return b
}

// WithMaxSamples overrides the sliding sample window capacity.
func (b *TimerBuilder) WithMaxSamples(n int) *TimerBuilder {
	b.maxSamples = n
	return b
}

// Build constructs the timer.
func (b *TimerBuilder) Build() (*Timer, error) {
	if b.core.unit == "" {
		b.core.unit = "ms"
	}
	base, err := b.core.materialize(KindTimer)
	if err != nil {
		return nil, err
	}
	capacity := b.maxSamples
	if capacity == 0 {
		capacity = b.core.opts.SummaryWindowSize
	}
	inner, err := newSummary(metricBase{
		id:   base.id,
		name: base.name,
		kind: KindSummary,
	}, []float64{0.5, 0.9, 0.99}, capacity, b.core.window)
	if err != nil {
		return nil, err
	}
	return &Timer{metricBase: base, summary: inner, nowFn: time.Now}, nil
}

// MultiGaugeBuilder configures and builds a MultiGauge.
type MultiGaugeBuilder struct {
	core            builderCore
	initialCapacity int
	resetOnGet      bool
}

// WithUnit sets the unit string.
func (b *MultiGaugeBuilder) WithUnit(unit string) *MultiGaugeBuilder {
	b.core.unit = unit
	return b
}

// WithDescription sets the description.
func (b *MultiGaugeBuilder) WithDescription(desc string) *MultiGaugeBuilder {
	b.core.description = desc
	return b
}

// WithTag adds a single local tag.
func (b *MultiGaugeBuilder) WithTag(key, value string) *MultiGaugeBuilder {
	b.core.setTag(key, value)
	return b
}

// WithTags applies fn to the local tag map.
func (b *MultiGaugeBuilder) WithTags(fn func(tags map[string]string)) *MultiGaugeBuilder {
	b.core.applyTags(fn)
	return b
}

// WithInitialCapacity pre-sizes the sample buffers.
func (b *MultiGaugeBuilder) WithInitialCapacity(n int) *MultiGaugeBuilder {
	b.initialCapacity = n
	return b
}

// WithResetOnGet makes GetValue drain the buffer via an O(1) swap.
func (b *MultiGaugeBuilder) WithResetOnGet(reset bool) *MultiGaugeBuilder {
	b.resetOnGet = reset
	return b
}

// Build constructs the multi-gauge.
func (b *MultiGaugeBuilder) Build() (*MultiGauge, error) {
	base, err := b.core.materialize(KindMultiSample)
	if err != nil {
		return nil, err
	}
	return newMultiGauge(base, b.initialCapacity, b.resetOnGet), nil
}
