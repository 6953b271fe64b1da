// Package overlay holds the panel positioning state machine: a small
// deterministic core deciding where the board's sliding foredrop panel
// rests, independent of any rendering toolkit.
package overlay

import (
	"log"
	"sync"
)

// State is the resting position of the foredrop panel.
type State int

const (
	StateDefault State = iota
	StateCalendarRevealed
	StateChartsRevealed
)

func (s State) String() string {
	switch s {
	case StateCalendarRevealed:
		return "calendar-revealed"
	case StateChartsRevealed:
		return "charts-revealed"
	default:
		return "default"
	}
}

// Metrics supplies the target offset for a state. Layout is opaque to
// the machine; callers measure, the machine decides.
type Metrics func(State) float64

// Machine serializes foredrop transitions. It is UI-thread-affine by
// nature but guards its state anyway so a misplaced call can not
// interleave a transition already in flight.
type Machine struct {
	mu       sync.Mutex
	state    State
	offset   float64
	inFlight bool

	metrics      Metrics
	onVisibility func(forCharts bool)
}

// New returns a machine resting at StateDefault. onVisibility may be
// nil; it fires exactly once per settled state change, with forCharts
// reporting whether the charts panel is the one revealed.
func New(metrics Metrics, onVisibility func(forCharts bool)) *Machine {
	m := &Machine{metrics: metrics, onVisibility: onVisibility}
	if metrics != nil {
		m.offset = metrics(StateDefault)
	}
	return m
}

// CurrentState returns the settled state.
func (m *Machine) CurrentState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Offset returns the panel offset of the settled state.
func (m *Machine) Offset() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.offset
}

// Transition moves the panel to the target state. A transition to the
// current state is a no-op that still invokes completion. A request
// made while another transition is settling is rejected as a no-op
// (logged, no completion), never interleaved.
func (m *Machine) Transition(to State, completion func()) {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		log.Printf("[warn] foredrop: transition to %s rejected, another transition in flight", to)
		return
	}
	if to == m.state {
		m.mu.Unlock()
		if completion != nil {
			completion()
		}
		return
	}
	m.inFlight = true
	m.settle(to)
	notify := m.onVisibility
	m.mu.Unlock()

	// Callbacks run outside the lock but still count as part of the
	// transition: a request made from inside them is rejected.
	if notify != nil {
		notify(to == StateChartsRevealed)
	}
	if completion != nil {
		completion()
	}
	m.land()
}

// ToggleCalendar flips the calendar panel. From StateChartsRevealed it
// runs the compound path through StateDefault, emitting the visibility
// event only for the settled end state.
func (m *Machine) ToggleCalendar(completion func()) {
	m.toggle(StateCalendarRevealed, completion)
}

// ToggleCharts flips the charts panel, with the same compound rule.
func (m *Machine) ToggleCharts(completion func()) {
	m.toggle(StateChartsRevealed, completion)
}

func (m *Machine) toggle(target State, completion func()) {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		log.Printf("[warn] foredrop: toggle to %s rejected, another transition in flight", target)
		return
	}
	m.inFlight = true

	switch m.state {
	case target:
		m.settle(StateDefault)
		target = StateDefault
	case StateDefault:
		m.settle(target)
	default:
		// Compound path: retract the other panel first, then
		// reveal the requested one. One settled state, one event.
		m.settle(StateDefault)
		m.settle(target)
	}
	notify := m.onVisibility
	m.mu.Unlock()

	if notify != nil {
		notify(target == StateChartsRevealed)
	}
	if completion != nil {
		completion()
	}
	m.land()
}

// settle records the new resting state and its offset. Callers hold mu.
func (m *Machine) settle(to State) {
	m.state = to
	if m.metrics != nil {
		m.offset = m.metrics(to)
	}
}

// land marks the transition, callbacks included, as finished.
func (m *Machine) land() {
	m.mu.Lock()
	m.inFlight = false
	m.mu.Unlock()
}
