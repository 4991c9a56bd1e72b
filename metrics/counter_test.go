package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	f := newTestFactory(t)

	c, err := f.Counter("test.counter", "test counter").
		WithUnit("requests").
		WithDescription("total requests").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "test.counter", c.ID())
	assert.Equal(t, "test counter", c.Name())
	assert.Equal(t, KindCounter, c.Kind())
	assert.Equal(t, "requests", c.Unit())
	assert.Equal(t, "total requests", c.Description())

	c.Inc()
	require.NoError(t, c.Add(9))

	v := c.GetValue().(CounterValue)
	assert.Equal(t, int64(10), v.Value)
}

func TestCounterRejectsNegativeDelta(t *testing.T) {
	f := newTestFactory(t)

	c, err := f.Counter("test.counter", "test counter").Build()
	require.NoError(t, err)

	assert.ErrorIs(t, c.Add(-1), ErrNegativeDelta)
	assert.Equal(t, int64(0), c.GetValue().(CounterValue).Value)
}

func TestCounterConcurrentIncrement(t *testing.T) {
	f := newTestFactory(t)

	c, err := f.Counter("test.counter", "test counter").Build()
	require.NoError(t, err)

	const goroutines = 16
	const perGoroutine = 1000

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(goroutines*perGoroutine), c.GetValue().(CounterValue).Value)
}

func TestGauge(t *testing.T) {
	f := newTestFactory(t)

	g, err := f.Gauge("test.gauge", "test gauge").WithUnit("bytes").Build()
	require.NoError(t, err)

	g.Set(42.5)
	assert.Equal(t, 42.5, g.GetValue().(GaugeValue).Value)

	g.Set(-7)
	assert.Equal(t, float64(-7), g.GetValue().(GaugeValue).Value)
}

func BenchmarkCounterInc(b *testing.B) {
	f, _ := NewFactory(nil)
	c, _ := f.Counter("bench.counter", "bench counter").Build()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Inc()
		}
	})
}
