package metrics

// Gauge represents a last-value instrument. Set replaces the stored value
// atomically; concurrent setters race and the last write wins.
type Gauge struct {
	metricBase
	val atomicFloat64
}

// Set replaces the stored value.
func (g *Gauge) Set(v float64) {
	g.val.Store(v)
}

// GetValue returns the current gauge reading.
func (g *Gauge) GetValue() Value {
	return GaugeValue{Value: g.val.Load()}
}
