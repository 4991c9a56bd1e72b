package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryQuantiles(t *testing.T) {
	f := newTestFactory(t)

	s, err := f.Summary("test.summary", "test summary").
		WithQuantiles(0.5, 0.9, 0.99).
		Build()
	require.NoError(t, err)

	for i := 1; i <= 100; i++ {
		require.NoError(t, s.Observe(float64(i)))
	}

	v := s.GetValue().(SummaryValue)
	assert.Equal(t, int64(100), v.Count)
	assert.Equal(t, float64(1), v.Min)
	assert.Equal(t, float64(100), v.Max)
	assert.Equal(t, float64(50), v.Quantiles[0.5])
	assert.Equal(t, float64(90), v.Quantiles[0.9])
	assert.Equal(t, float64(99), v.Quantiles[0.99])
}

func TestSummaryDefaultQuantiles(t *testing.T) {
	f := newTestFactory(t)

	s, err := f.Summary("test.summary", "test summary").Build()
	require.NoError(t, err)

	require.NoError(t, s.Observe(7))

	v := s.GetValue().(SummaryValue)
	assert.Len(t, v.Quantiles, 3)
	assert.Contains(t, v.Quantiles, 0.5)
	assert.Contains(t, v.Quantiles, 0.9)
	assert.Contains(t, v.Quantiles, 0.99)
}

func TestSummaryInvalidQuantiles(t *testing.T) {
	f := newTestFactory(t)

	_, err := f.Summary("test.summary", "test summary").
		WithQuantiles(0.5, 1.5).
		Build()
	assert.ErrorIs(t, err, ErrInvalidQuantile)

	_, err = f.Summary("test.summary", "test summary").
		WithQuantiles(-0.1).
		Build()
	assert.ErrorIs(t, err, ErrInvalidQuantile)
}

func TestSummaryEmptySnapshot(t *testing.T) {
	f := newTestFactory(t)

	s, err := f.Summary("test.summary", "test summary").Build()
	require.NoError(t, err)

	v := s.GetValue().(SummaryValue)
	assert.Equal(t, int64(0), v.Count)
	assert.Equal(t, float64(0), v.Min)
	assert.Equal(t, float64(0), v.Max)
	assert.Equal(t, float64(0), v.Quantiles[0.5])
}

func TestSummaryRejectsNonFinite(t *testing.T) {
	f := newTestFactory(t)

	s, err := f.Summary("test.summary", "test summary").Build()
	require.NoError(t, err)

	assert.ErrorIs(t, s.Observe(math.NaN()), ErrNonFiniteValue)
	assert.False(t, s.TryObserve(math.Inf(1)))
	assert.True(t, s.TryObserve(1))
}

func TestSummarySlidingWindowWrap(t *testing.T) {
	f := newTestFactory(t)

	s, err := f.Summary("test.summary", "test summary").
		WithQuantiles(0.5).
		WithMaxSamples(10).
		Build()
	require.NoError(t, err)

	// First fill the window with low values, then overwrite with high ones.
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Observe(1))
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Observe(100))
	}

	v := s.GetValue().(SummaryValue)
	assert.Equal(t, int64(20), v.Count, "count is exact across the wrap")
	assert.Equal(t, float64(100), v.Quantiles[0.5], "quantiles describe the most recent window")
}

func TestSummaryTumblingWindow(t *testing.T) {
	f := newTestFactory(t)

	s, err := f.Summary("test.summary", "test summary").
		WithQuantiles(0.5).
		WithTumbling(time.Minute).
		Build()
	require.NoError(t, err)

	now := time.Unix(5000, 0)
	s.nowFn = func() time.Time { return now }

	require.NoError(t, s.Observe(10))
	require.NoError(t, s.Observe(20))

	now = now.Add(90 * time.Second)
	require.NoError(t, s.Observe(30))

	v := s.GetValue().(SummaryValue)
	assert.Equal(t, int64(1), v.Count)
	assert.Equal(t, float64(30), v.Min)
	assert.Equal(t, float64(30), v.Max)
	assert.Equal(t, float64(30), v.Quantiles[0.5])
}
