package metrics

import (
	"errors"
	"sync/atomic"
	"time"
)

// WindowKind represents a windowing policy kind.
type WindowKind int

// Window kinds
const (
	// WindowCumulative never resets instrument state.
	WindowCumulative WindowKind = iota
	// WindowTumbling resets all instrument state at fixed period boundaries.
	WindowTumbling
)

// Window represents the reset policy applied to a windowed instrument.
// The zero value is cumulative.
type Window struct {
	kind   WindowKind
	period time.Duration
}

// Cumulative returns a window policy that never resets.
func Cumulative() Window {
	return Window{kind: WindowCumulative}
}

// Tumbling returns a window policy that resets all instrument state every
// period. The period is validated at Build time.
func Tumbling(period time.Duration) Window {
	return Window{kind: WindowTumbling, period: period}
}

// Kind returns the window kind.
func (w Window) Kind() WindowKind { return w.kind }

// Period returns the tumbling period; zero for cumulative windows.
func (w Window) Period() time.Duration { return w.period }

// validate validates the window policy at instrument construction time.
func (w Window) validate() error {
	if w.kind == WindowTumbling && w.period <= 0 {
		return errors.New("tumbling window period must be greater than 0")
	}
	return nil
}

// windowState tracks the lazily scheduled next reset tick of a tumbling
// window. A zero period disables rollover entirely.
type windowState struct {
	period    int64 // nanoseconds; 0 for cumulative
	nextReset atomic.Int64
}

func newWindowState(w Window) *windowState {
	s := &windowState{}
	if w.kind == WindowTumbling {
		s.period = int64(w.period)
	}
	return s
}

// shouldReset reports whether the calling writer must reset instrument state
// before applying its observation. The first write schedules the initial
// rollover; after that, exactly one of the writers racing a rollover boundary
// wins the CAS and performs the reset. Losers retry the check at most once
// more and then apply their observation to the fresh window.
func (s *windowState) shouldReset(now time.Time) bool {
	if s.period == 0 {
		return false
	}
	nowNs := now.UnixNano()
	for {
		next := s.nextReset.Load()
		if next == 0 {
			if s.nextReset.CompareAndSwap(0, nowNs+s.period) {
				return false
			}
			continue
		}
		if nowNs < next {
			return false
		}
		// Skip whole periods if no write arrived for a while.
		target := next + s.period*((nowNs-next)/s.period+1)
		if s.nextReset.CompareAndSwap(next, target) {
			return true
		}
	}
}
