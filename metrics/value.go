package metrics

// Value represents an immutable point-in-time snapshot extracted from an
// instrument. It is a closed set of variants; exporters switch on the
// concrete type.
type Value interface {
	isValue()
}

// GaugeValue represents a single gauge reading.
type GaugeValue struct {
	Value float64 `json:"value"`
}

// CounterValue represents a monotonic counter reading.
type CounterValue struct {
	Value int64 `json:"value"`
}

// DistributionValue represents a distribution summary with fixed percentiles.
type DistributionValue struct {
	Count int64   `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	P50   float64 `json:"p50"`
	P90   float64 `json:"p90"`
	P99   float64 `json:"p99"`
}

// SummaryValue represents a distribution with configurable quantiles.
type SummaryValue struct {
	Count     int64               `json:"count"`
	Min       float64             `json:"min"`
	Max       float64             `json:"max"`
	Quantiles map[float64]float64 `json:"quantiles"`
}

// BucketHistogramValue represents a bucketed distribution. Bounds are the
// configured upper bounds in ascending order; Counts always has exactly
// len(Bounds)+1 entries, the last being the overflow bucket.
type BucketHistogramValue struct {
	Count  int64     `json:"count"`
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	Sum    float64   `json:"sum"`
	Bounds []float64 `json:"bounds"`
	Counts []int64   `json:"counts"`
}

// MultiSampleValue represents a set of related samples published under one
// logical metric.
type MultiSampleValue struct {
	Items []MultiSampleItem `json:"items"`
}

// MultiSampleItem represents one sample inside a MultiSampleValue. Tags are
// frozen at insertion time and must not be mutated.
type MultiSampleItem struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Tags  map[string]string `json:"tags,omitempty"`
	Value Value             `json:"value"`
}

func (GaugeValue) isValue()           {}
func (CounterValue) isValue()         {}
func (DistributionValue) isValue()    {}
func (SummaryValue) isValue()         {}
func (BucketHistogramValue) isValue() {}
func (MultiSampleValue) isValue()     {}
