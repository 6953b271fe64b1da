package overlay

import (
	"reflect"
	"testing"
)

func testMetrics(s State) float64 {
	switch s {
	case StateCalendarRevealed:
		return 320
	case StateChartsRevealed:
		return 480
	default:
		return 0
	}
}

func newTestMachine() (*Machine, *[]bool) {
	events := &[]bool{}
	m := New(testMetrics, func(forCharts bool) {
		*events = append(*events, forCharts)
	})
	return m, events
}

func TestToggleChartsFromDefault(t *testing.T) {
	m, events := newTestMachine()

	completions := 0
	m.ToggleCharts(func() { completions++ })

	if got := m.CurrentState(); got != StateChartsRevealed {
		t.Fatalf("state = %v, want charts revealed", got)
	}
	if got := m.Offset(); got != 480 {
		t.Fatalf("offset = %v, want 480", got)
	}
	if !reflect.DeepEqual(*events, []bool{true}) {
		t.Fatalf("events = %v, want exactly one charts-visible event", *events)
	}
	if completions != 1 {
		t.Fatalf("completions = %d, want 1", completions)
	}
}

func TestCompoundToggleEmitsOneEvent(t *testing.T) {
	m, events := newTestMachine()
	m.ToggleCharts(nil)

	// Charts -> calendar passes through default but settles once:
	// exactly one event for the end state, not two.
	m.ToggleCalendar(nil)

	if got := m.CurrentState(); got != StateCalendarRevealed {
		t.Fatalf("state = %v, want calendar revealed", got)
	}
	if !reflect.DeepEqual(*events, []bool{true, false}) {
		t.Fatalf("events = %v, want [true false]", *events)
	}
	if got := m.Offset(); got != 320 {
		t.Fatalf("offset = %v, want 320", got)
	}
}

func TestToggleRetractsToDefault(t *testing.T) {
	m, _ := newTestMachine()
	m.ToggleCalendar(nil)
	m.ToggleCalendar(nil)

	if got := m.CurrentState(); got != StateDefault {
		t.Fatalf("state = %v, want default after double toggle", got)
	}
	if got := m.Offset(); got != 0 {
		t.Fatalf("offset = %v, want 0", got)
	}
}

func TestReentrantTransitionIsNoOpButCompletes(t *testing.T) {
	m, events := newTestMachine()

	completions := 0
	m.Transition(StateDefault, func() { completions++ })

	if got := m.CurrentState(); got != StateDefault {
		t.Fatalf("state = %v, want default", got)
	}
	if completions != 1 {
		t.Fatalf("completions = %d, want 1 even for a no-op", completions)
	}
	if len(*events) != 0 {
		t.Fatalf("events = %v, want none for a no-op", *events)
	}
}

func TestExplicitTransitionEmitsVisibility(t *testing.T) {
	m, events := newTestMachine()

	m.Transition(StateCalendarRevealed, nil)
	m.Transition(StateChartsRevealed, nil)

	if !reflect.DeepEqual(*events, []bool{false, true}) {
		t.Fatalf("events = %v, want [false true]", *events)
	}
	if got := m.CurrentState(); got != StateChartsRevealed {
		t.Fatalf("state = %v, want charts revealed", got)
	}
}

func TestTransitionsSerializeAcrossGoroutines(t *testing.T) {
	m, _ := newTestMachine()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			m.ToggleCharts(nil)
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	// Eight toggles from eight goroutines: some may be rejected
	// mid-flight, but the machine must settle in a known state.
	if got := m.CurrentState(); got != StateDefault && got != StateChartsRevealed {
		t.Fatalf("state = %v, want default or charts revealed", got)
	}
}
