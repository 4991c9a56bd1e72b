package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowValidate(t *testing.T) {
	assert.NoError(t, Cumulative().validate())
	assert.NoError(t, Tumbling(time.Second).validate())
	assert.Error(t, Tumbling(0).validate())
	assert.Error(t, Tumbling(-time.Second).validate())
}

func TestWindowAccessors(t *testing.T) {
	w := Tumbling(time.Minute)
	assert.Equal(t, WindowTumbling, w.Kind())
	assert.Equal(t, time.Minute, w.Period())

	c := Cumulative()
	assert.Equal(t, WindowCumulative, c.Kind())
	assert.Equal(t, time.Duration(0), c.Period())

	var zero Window
	assert.Equal(t, WindowCumulative, zero.Kind(), "zero value is cumulative")
}

func TestWindowStateCumulativeNeverResets(t *testing.T) {
	s := newWindowState(Cumulative())
	now := time.Unix(0, 0)
	for i := 0; i < 100; i++ {
		assert.False(t, s.shouldReset(now))
		now = now.Add(time.Hour)
	}
}

func TestWindowStateRollover(t *testing.T) {
	s := newWindowState(Tumbling(time.Minute))

	t0 := time.Unix(1000, 0)
	assert.False(t, s.shouldReset(t0), "first write schedules, never resets")
	assert.False(t, s.shouldReset(t0.Add(59*time.Second)))
	assert.True(t, s.shouldReset(t0.Add(61*time.Second)))
	assert.False(t, s.shouldReset(t0.Add(90*time.Second)), "reset is idempotent within a window")
}

func TestWindowStateSkipsIdlePeriods(t *testing.T) {
	s := newWindowState(Tumbling(time.Minute))

	t0 := time.Unix(1000, 0)
	s.shouldReset(t0)

	// A write long after many idle periods triggers exactly one reset and
	// schedules the next rollover in the future.
	late := t0.Add(10*time.Minute + 30*time.Second)
	assert.True(t, s.shouldReset(late))
	assert.False(t, s.shouldReset(late.Add(time.Second)))
	assert.True(t, s.shouldReset(late.Add(time.Minute)))
}

func TestWindowStateConcurrentRollover(t *testing.T) {
	s := newWindowState(Tumbling(time.Minute))

	t0 := time.Unix(1000, 0)
	s.shouldReset(t0)

	after := t0.Add(2 * time.Minute)

	const goroutines = 16
	var wg sync.WaitGroup
	var resets int64
	var mu sync.Mutex

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.shouldReset(after) {
				mu.Lock()
				resets++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), resets, "exactly one racing writer wins the rollover")
}
