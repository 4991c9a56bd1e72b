// Package registry keeps track of live instruments and periodically harvests
// immutable snapshots from them for delivery to export sinks.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/netmetric/netmetric/metrics"
	"github.com/netmetric/netmetric/nanoid"
)

var (
	ErrDuplicateID   = errors.New("registry: instrument id already registered")
	ErrNilInstrument = errors.New("registry: instrument must not be nil")
)

// Config represents registry configuration
type Config struct {
	Enabled       bool          `json:"enabled" yaml:"enabled"`
	FlushInterval time.Duration `json:"flush_interval" yaml:"flush_interval"`
}

// DefaultConfig returns the default registry configuration
func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		FlushInterval: 10 * time.Second,
	}
}

// Validate validates the registry configuration
func (c *Config) Validate() error {
	if c.FlushInterval <= 0 {
		return fmt.Errorf("flush interval must be greater than 0, got %v", c.FlushInterval)
	}
	return nil
}

// Snapshot is one harvested instrument value.
type Snapshot struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Kind  string            `json:"kind"`
	Unit  string            `json:"unit,omitempty"`
	Tags  map[string]string `json:"tags,omitempty"`
	Value metrics.Value     `json:"value"`
}

// Batch is one harvest cycle's worth of snapshots.
type Batch struct {
	ID         string     `json:"id"`
	RegistryID string     `json:"registry_id"`
	At         time.Time  `json:"at"`
	Snapshots  []Snapshot `json:"snapshots"`
}

// Sink receives harvested batches. Implementations own their wire format;
// the registry only guarantees the Batch contract.
type Sink interface {
	Export(ctx context.Context, batch Batch) error
}

// Updater refreshes instrument state immediately before a harvest. Pull-style
// collectors (for example the runtime monitor) implement it so their gauges
// are current at collection time.
type Updater interface {
	Update(ctx context.Context) error
}

// Registry represents the instrument registry and harvest loop.
type Registry struct {
	id     string
	config *Config
	logger *logrus.Logger

	mu          sync.RWMutex
	instruments map[string]metrics.Instrument
	updaters    []Updater
	sinks       []Sink

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a registry. A nil cfg uses DefaultConfig; a nil logger uses the
// logrus standard logger.
func New(cfg *Config, logger *logrus.Logger) (*Registry, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid registry config: %w", err)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Registry{
		id:          uuid.NewString(),
		config:      cfg,
		logger:      logger,
		instruments: make(map[string]metrics.Instrument),
	}, nil
}

// ID returns the registry instance id.
func (r *Registry) ID() string { return r.id }

// Register adds an instrument under its id. Registering a second instrument
// with the same id is an error.
func (r *Registry) Register(inst metrics.Instrument) error {
	if inst == nil {
		return ErrNilInstrument
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.instruments[inst.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, inst.ID())
	}
	r.instruments[inst.ID()] = inst
	return nil
}

// MustRegister registers instruments and panics on error. Intended for
// startup wiring where a duplicate id is a programming mistake.
func (r *Registry) MustRegister(insts ...metrics.Instrument) {
	for _, inst := range insts {
		if err := r.Register(inst); err != nil {
			panic(err)
		}
	}
}

// Deregister removes an instrument by id.
func (r *Registry) Deregister(id string) {
	r.mu.Lock()
	delete(r.instruments, id)
	r.mu.Unlock()
}

// Get returns a registered instrument by id.
func (r *Registry) Get(id string) (metrics.Instrument, bool) {
	r.mu.RLock()
	inst, ok := r.instruments[id]
	r.mu.RUnlock()
	return inst, ok
}

// Each calls fn for every registered instrument in id order.
func (r *Registry) Each(fn func(inst metrics.Instrument)) {
	for _, inst := range r.sorted() {
		fn(inst)
	}
}

// AddSink attaches an export sink.
func (r *Registry) AddSink(s Sink) {
	r.mu.Lock()
	r.sinks = append(r.sinks, s)
	r.mu.Unlock()
}

// AddUpdater attaches a pre-harvest updater.
func (r *Registry) AddUpdater(u Updater) {
	r.mu.Lock()
	r.updaters = append(r.updaters, u)
	r.mu.Unlock()
}

// Harvest runs the updaters and snapshots every instrument. Updater failures
// are logged and skipped; a harvest always produces a batch.
func (r *Registry) Harvest(ctx context.Context) Batch {
	r.mu.RLock()
	updaters := make([]Updater, len(r.updaters))
	copy(updaters, r.updaters)
	r.mu.RUnlock()

	for _, u := range updaters {
		if err := u.Update(ctx); err != nil {
			r.logger.WithError(err).Warn("metrics updater failed")
		}
	}

	insts := r.sorted()
	snapshots := make([]Snapshot, 0, len(insts))
	for _, inst := range insts {
		snapshots = append(snapshots, Snapshot{
			ID:    inst.ID(),
			Name:  inst.Name(),
			Kind:  inst.Kind().String(),
			Unit:  inst.Unit(),
			Tags:  inst.Tags(),
			Value: inst.GetValue(),
		})
	}
	return Batch{
		ID:         nanoid.Must(),
		RegistryID: r.id,
		At:         time.Now(),
		Snapshots:  snapshots,
	}
}

// Start starts the periodic harvest loop. It is a no-op when the registry is
// disabled.
func (r *Registry) Start(ctx context.Context) error {
	if !r.config.Enabled {
		return nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.flushLoop(loopCtx)
	}()
	return nil
}

// Stop stops the harvest loop and waits for it to exit.
func (r *Registry) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

func (r *Registry) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(r.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.flush(ctx)
		}
	}
}

func (r *Registry) flush(ctx context.Context) {
	batch := r.Harvest(ctx)

	r.mu.RLock()
	sinks := make([]Sink, len(r.sinks))
	copy(sinks, r.sinks)
	r.mu.RUnlock()

	for _, s := range sinks {
		if err := s.Export(ctx, batch); err != nil {
			r.logger.WithError(err).WithField("batch", batch.ID).Warn("metrics sink export failed")
		}
	}
}

func (r *Registry) sorted() []metrics.Instrument {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.instruments))
	for id := range r.instruments {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	insts := make([]metrics.Instrument, 0, len(ids))
	for _, id := range ids {
		insts = append(insts, r.instruments[id])
	}
	return insts
}
