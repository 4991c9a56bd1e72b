package metrics

import "fmt"

// Factory is the entry point for constructing instruments. Each method
// returns a fluent builder; nothing is allocated on the hot path until Build.
type Factory interface {
	Counter(id, name string) *CounterBuilder
	Gauge(id, name string) *GaugeBuilder
	Histogram(id, name string) *BucketHistogramBuilder
	Summary(id, name string) *SummaryBuilder
	Timer(id, name string) *TimerBuilder
	MultiGauge(id, name string) *MultiGaugeBuilder
}

// DefaultFactory is the sole Factory implementation. It is stateless beyond
// holding the options reference; every builder it hands out shares the same
// frozen options.
type DefaultFactory struct {
	opts *Options
}

// NewFactory creates a factory. A nil opts uses DefaultOptions.
func NewFactory(opts *Options) (*DefaultFactory, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid metric options: %w", err)
	}
	return &DefaultFactory{opts: opts}, nil
}

// Options returns the options the factory was built with.
func (f *DefaultFactory) Options() *Options { return f.opts }

// Counter returns a counter builder.
func (f *DefaultFactory) Counter(id, name string) *CounterBuilder {
	return &CounterBuilder{core: newBuilderCore(f.opts, id, name)}
}

// Gauge returns a gauge builder.
func (f *DefaultFactory) Gauge(id, name string) *GaugeBuilder {
	return &GaugeBuilder{core: newBuilderCore(f.opts, id, name)}
}

// Histogram returns a bucket histogram builder.
func (f *DefaultFactory) Histogram(id, name string) *BucketHistogramBuilder {
	return &BucketHistogramBuilder{core: newBuilderCore(f.opts, id, name)}
}

// Summary returns a summary builder.
func (f *DefaultFactory) Summary(id, name string) *SummaryBuilder {
	return &SummaryBuilder{core: newBuilderCore(f.opts, id, name)}
}

// Timer returns a timer builder.
func (f *DefaultFactory) Timer(id, name string) *TimerBuilder {
	return &TimerBuilder{core: newBuilderCore(f.opts, id, name)}
}

// MultiGauge returns a multi-gauge builder.
func (f *DefaultFactory) MultiGauge(id, name string) *MultiGaugeBuilder {
	return &MultiGaugeBuilder{core: newBuilderCore(f.opts, id, name)}
}
