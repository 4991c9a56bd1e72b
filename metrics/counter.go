package metrics

import "sync/atomic"

// Counter represents a monotonic counter. All methods are safe for
// concurrent use.
type Counter struct {
	metricBase
	val atomic.Int64
}

// Inc increments the counter by one.
func (c *Counter) Inc() {
	c.val.Add(1)
}

// Add increments the counter by delta. A negative delta is rejected to keep
// the counter monotonic.
func (c *Counter) Add(delta int64) error {
	if delta < 0 {
		return ErrNegativeDelta
	}
	c.val.Add(delta)
	return nil
}

// GetValue returns the current counter reading.
func (c *Counter) GetValue() Value {
	return CounterValue{Value: c.val.Load()}
}
