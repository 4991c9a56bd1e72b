package registry

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netmetric/netmetric/metrics"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := New(DefaultConfig(), quietLogger())
	require.NoError(t, err)
	return r
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, (&Config{FlushInterval: 0}).Validate())
	assert.Error(t, (&Config{FlushInterval: -time.Second}).Validate())
}

func TestRegisterAndDuplicate(t *testing.T) {
	r := newTestRegistry(t)
	f, err := metrics.NewFactory(nil)
	require.NoError(t, err)

	c, err := f.Counter("app.requests", "requests").Build()
	require.NoError(t, err)

	require.NoError(t, r.Register(c))
	assert.ErrorIs(t, r.Register(c), ErrDuplicateID)
	assert.ErrorIs(t, r.Register(nil), ErrNilInstrument)

	got, ok := r.Get("app.requests")
	assert.True(t, ok)
	assert.Equal(t, metrics.Instrument(c), got)

	r.Deregister("app.requests")
	_, ok = r.Get("app.requests")
	assert.False(t, ok)
}

func TestHarvestOrderAndContent(t *testing.T) {
	r := newTestRegistry(t)
	f, err := metrics.NewFactory(nil)
	require.NoError(t, err)

	c, _ := f.Counter("b.counter", "counter").Build()
	g, _ := f.Gauge("a.gauge", "gauge").WithUnit("bytes").Build()
	r.MustRegister(c, g)

	c.Inc()
	g.Set(12)

	batch := r.Harvest(context.Background())
	require.Len(t, batch.Snapshots, 2)
	assert.NotEmpty(t, batch.ID)
	assert.Equal(t, r.ID(), batch.RegistryID)

	assert.Equal(t, "a.gauge", batch.Snapshots[0].ID, "snapshots ordered by id")
	assert.Equal(t, "gauge", batch.Snapshots[0].Kind)
	assert.Equal(t, "bytes", batch.Snapshots[0].Unit)
	assert.Equal(t, metrics.GaugeValue{Value: 12}, batch.Snapshots[0].Value)

	assert.Equal(t, "b.counter", batch.Snapshots[1].ID)
	assert.Equal(t, metrics.CounterValue{Value: 1}, batch.Snapshots[1].Value)
}

type countingUpdater struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (u *countingUpdater) Update(context.Context) error {
	u.mu.Lock()
	u.calls++
	u.mu.Unlock()
	return u.err
}

func (u *countingUpdater) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}

type captureSink struct {
	mu      sync.Mutex
	batches []Batch
}

func (s *captureSink) Export(_ context.Context, b Batch) error {
	s.mu.Lock()
	s.batches = append(s.batches, b)
	s.mu.Unlock()
	return nil
}

func (s *captureSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func TestUpdaterRunsBeforeHarvest(t *testing.T) {
	r := newTestRegistry(t)
	u := &countingUpdater{}
	r.AddUpdater(u)

	r.Harvest(context.Background())
	r.Harvest(context.Background())

	assert.Equal(t, 2, u.count())
}

func TestUpdaterFailureDoesNotAbortHarvest(t *testing.T) {
	r := newTestRegistry(t)
	f, _ := metrics.NewFactory(nil)
	c, _ := f.Counter("c", "c").Build()
	r.MustRegister(c)

	r.AddUpdater(&countingUpdater{err: assert.AnError})

	batch := r.Harvest(context.Background())
	assert.Len(t, batch.Snapshots, 1)
}

func TestFlushLoopDeliversBatches(t *testing.T) {
	cfg := &Config{Enabled: true, FlushInterval: 10 * time.Millisecond}
	r, err := New(cfg, quietLogger())
	require.NoError(t, err)

	f, _ := metrics.NewFactory(nil)
	c, _ := f.Counter("c", "c").Build()
	r.MustRegister(c)

	sink := &captureSink{}
	r.AddSink(sink)

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	assert.Eventually(t, func() bool { return sink.len() >= 2 },
		time.Second, 5*time.Millisecond)
}

func TestDisabledRegistryDoesNotFlush(t *testing.T) {
	cfg := &Config{Enabled: false, FlushInterval: 5 * time.Millisecond}
	r, err := New(cfg, quietLogger())
	require.NoError(t, err)

	sink := &captureSink{}
	r.AddSink(sink)

	require.NoError(t, r.Start(context.Background()))
	time.Sleep(30 * time.Millisecond)
	r.Stop()

	assert.Zero(t, sink.len())
}

func TestJSONSink(t *testing.T) {
	var buf testBuffer
	sink := NewJSONSink(&buf)

	err := sink.Export(context.Background(), Batch{ID: "abc", Snapshots: []Snapshot{}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"id":"abc"`)
}

type testBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *testBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	b.buf = append(b.buf, p...)
	b.mu.Unlock()
	return len(p), nil
}

func (b *testBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
