package cascade

import (
	"slices"

	"github.com/GoCodeAlone/cascade/registry"
)

// eventSet is the adjacency/payload index value used across the engine.
type eventSet map[Event]struct{}

// side maps an edge color (the state a predecessor must hold) to the index
// used by the prev/next tables.
func side(color bool) int {
	if color {
		return 1
	}
	return 0
}

// Engine is the propagation core: the event graph, state deduction, handler
// registration, and the per-event feature stores (priority, one-shot, data,
// write-protect). It is strictly owned by one goroutine; none of its methods
// are safe for concurrent use. Background goroutines reach it through the
// inqueue/workers/wakeup subpackages only.
type Engine struct {
	logger     Logger
	dispatcher *Dispatcher

	states []bool
	byName map[string]Event
	names  map[Event]string

	// prev[side(c)][e] holds the predecessors of e that must have state c
	// for e to become true; next is the reverse index.
	prev [2]map[Event]eventSet
	next [2]map[Event]eventSet

	handlers   map[Event]*Handler
	multi      map[Event]map[string]*Handler
	priorities map[Event]Priority
	oneShot    eventSet

	data   map[Event]any
	wrCtrl eventSet

	removed eventSet

	observerIDs []string
	observers   map[string]ObserverFunc
}

// NewEngine creates an engine that schedules handler invocations on d. A nil
// dispatcher falls back to the process registry (service name
// DispatcherService) and finally to a fresh dispatcher without a loop-request
// hook, which the host must then drain explicitly (see Loop).
func NewEngine(d *Dispatcher, logger Logger) *Engine {
	logger = orNoop(logger)
	if d == nil {
		if rd, ok := registry.Get[*Dispatcher](registry.Default(), DispatcherService); ok {
			d = rd
		} else {
			d = NewDispatcher(nil, logger)
		}
	}
	e := &Engine{
		logger:     logger,
		dispatcher: d,
		byName:     make(map[string]Event),
		names:      make(map[Event]string),
		handlers:   make(map[Event]*Handler),
		multi:      make(map[Event]map[string]*Handler),
		priorities: make(map[Event]Priority),
		oneShot:    make(eventSet),
		data:       make(map[Event]any),
		wrCtrl:     make(eventSet),
		removed:    make(eventSet),
		observers:  make(map[string]ObserverFunc),
	}
	for c := 0; c < 2; c++ {
		e.prev[c] = make(map[Event]eventSet)
		e.next[c] = make(map[Event]eventSet)
	}
	return e
}

// DispatcherService is the registry name NewEngine resolves a default
// dispatcher under.
const DispatcherService = "cascade.dispatcher"

// Dispatcher returns the dispatcher handler invocations are scheduled on.
func (e *Engine) Dispatcher() *Dispatcher { return e.dispatcher }

// NewEvent resolves name to its identity, creating the event (state false)
// if the name is unknown. Tombstoned identities are recycled before the
// dense range is extended. Idempotent; fails only on an empty name.
func (e *Engine) NewEvent(name string) Event {
	if name == "" {
		e.logger.Warn("rejected event", "error", ErrEmptyEventName)
		return NoEvent
	}
	if ev, ok := e.byName[name]; ok {
		return ev
	}
	ev := e.recycleEvent()
	if ev == NoEvent {
		ev = Event(len(e.states))
		e.states = append(e.states, false)
	}
	e.byName[name] = ev
	e.names[ev] = name
	e.logger.Debug("event created", "event", name, "id", uint64(ev))
	e.emit(EventTypeEventCreated, name, map[string]any{"id": uint64(ev)})
	return ev
}

// GetEvent is lookup only: it returns NoEvent for unknown names.
func (e *Engine) GetEvent(name string) Event {
	if ev, ok := e.byName[name]; ok {
		return ev
	}
	return NoEvent
}

// EventName returns the external name for a live identity, or ReservedName.
func (e *Engine) EventName(ev Event) string {
	if n, ok := e.names[ev]; ok {
		return n
	}
	return ReservedName
}

// EventNames returns a snapshot of all live identities and their names.
// Callers may use it for partial-name searches; mutating the returned map
// has no effect on the engine.
func (e *Engine) EventNames() map[Event]string {
	out := make(map[Event]string, len(e.names))
	for ev, n := range e.names {
		out[ev] = n
	}
	return out
}

// State reports the state of the named event; unknown names are false.
func (e *Engine) State(name string) bool { return e.StateOf(e.GetEvent(name)) }

// StateOf reports the state for an identity; out-of-range or removed
// identities are false.
func (e *Engine) StateOf(ev Event) bool {
	if !e.live(ev) {
		return false
	}
	return e.states[ev]
}

// SetState applies a batch of simultaneous facts to source events, then
// re-deduces every reachable successor to a fixed point before returning.
// Facts on non-source events are ignored with a warning. The return value is
// the number of events whose state actually changed, deduced flips included.
func (e *Engine) SetState(facts StateFacts) int {
	changed := 0
	seeds := make([]Event, 0, len(facts))
	for _, name := range sortedKeys(facts) {
		ev := e.NewEvent(name)
		if ev == NoEvent {
			continue
		}
		if !e.isSource(ev) {
			e.logger.Warn("fact ignored on non-source event", "event", name)
			continue
		}
		if e.states[ev] != facts[name] {
			e.setState(ev, facts[name])
			changed++
		}
		seeds = append(seeds, e.successors(ev)...)
	}
	changed += e.deduceFrom(seeds)
	if changed == 0 {
		e.logger.Debug("nothing changed", "facts", len(facts))
	}
	return changed
}

// setState flips one event's stored state and fires the rising-edge effect.
// Callers are responsible for propagation.
func (e *Engine) setState(ev Event, state bool) {
	e.states[ev] = state
	e.logger.Debug("state changed", "event", e.names[ev], "state", state)
	e.emit(EventTypeStateChanged, e.names[ev], map[string]any{"state": state})
	if state {
		e.effect(ev)
	}
}

// deduceFrom recomputes states breadth-first from the seed events until the
// graph reaches a fixed point, returning the number of flips. Iterative on a
// worklist: adversarially deep graphs must not grow the call stack.
func (e *Engine) deduceFrom(seeds []Event) int {
	changed := 0
	work := slices.Clone(seeds)
	for len(work) > 0 {
		ev := work[0]
		work = work[1:]
		if !e.live(ev) || e.isSource(ev) {
			continue
		}
		state := e.deduceSelf(ev)
		if e.states[ev] == state {
			continue
		}
		e.setState(ev, state)
		changed++
		work = append(work, e.successors(ev)...)
	}
	return changed
}

// deduceSelf evaluates one non-source event against its predecessors: true
// iff every prev[true] predecessor is true and every prev[false] predecessor
// is false.
func (e *Engine) deduceSelf(ev Event) bool {
	for p := range e.prev[side(true)][ev] {
		if !e.states[p] {
			return false
		}
	}
	for p := range e.prev[side(false)][ev] {
		if e.states[p] {
			return false
		}
	}
	return true
}

// successors returns the events downstream of ev in either color, ordered
// for deterministic propagation.
func (e *Engine) successors(ev Event) []Event {
	var out []Event
	for c := 0; c < 2; c++ {
		for n := range e.next[c][ev] {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// isSource reports whether ev has no predecessors in either color. Sources
// are driven only by explicit SetState and are never deduced.
func (e *Engine) isSource(ev Event) bool {
	return len(e.prev[0][ev]) == 0 && len(e.prev[1][ev]) == 0
}

// live reports whether ev currently names an event.
func (e *Engine) live(ev Event) bool {
	_, ok := e.names[ev]
	return ok
}

// recycleEvent pops a tombstoned identity, or NoEvent when none exist. The
// pop order is unspecified.
func (e *Engine) recycleEvent() Event {
	for ev := range e.removed {
		delete(e.removed, ev)
		e.states[ev] = false
		return ev
	}
	return NoEvent
}

// sortedKeys returns map keys in ascending order so batch operations walk
// their input deterministically.
func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// sortedEvents returns set members in ascending identity order.
func sortedEvents(s eventSet) []Event {
	out := make([]Event, 0, len(s))
	for ev := range s {
		out = append(out, ev)
	}
	slices.Sort(out)
	return out
}
