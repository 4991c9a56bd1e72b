package metrics

// Kind represents the type of an instrument.
type Kind int

// Instrument kinds
const (
	KindGauge Kind = iota
	KindCounter
	KindHistogram
	KindSummary
	KindMultiSample
	KindTimer
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindGauge:
		return "gauge"
	case KindCounter:
		return "counter"
	case KindHistogram:
		return "histogram"
	case KindSummary:
		return "summary"
	case KindMultiSample:
		return "multisample"
	case KindTimer:
		return "timer"
	default:
		return "unknown"
	}
}

// Instrument is the common surface shared by all concrete instruments.
// Implementations are safe for concurrent use; GetValue returns an immutable
// snapshot that holds no reference back to the live instrument.
type Instrument interface {
	ID() string
	Name() string
	Kind() Kind
	Unit() string
	Description() string
	Tags() map[string]string
	GetValue() Value
}

// metricBase carries instrument identity and the frozen tag set shared by
// all concrete instruments.
type metricBase struct {
	id          string
	name        string
	kind        Kind
	unit        string
	description string
	tags        map[string]string
}

// ID returns the stable registry/export key.
func (m *metricBase) ID() string { return m.id }

// Name returns the display name.
func (m *metricBase) Name() string { return m.name }

// Kind returns the instrument kind.
func (m *metricBase) Kind() Kind { return m.kind }

// Unit returns the optional unit string.
func (m *metricBase) Unit() string { return m.unit }

// Description returns the optional description.
func (m *metricBase) Description() string { return m.description }

// Tags returns the frozen tag set. Callers must not mutate the returned map.
func (m *metricBase) Tags() map[string]string { return m.tags }
