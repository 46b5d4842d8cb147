package cascade

// SetPrev declares dependency edges into name: for each (prevName, color)
// entry, name can only become true while prevName's state equals color. All
// named events are created as needed. The call fails, returning NoEvent and
// leaving the edge set unchanged, when any predecessor equals name itself
// or when installing any edge would close a directed cycle through the
// combined two-color graph. On success the target is re-deduced to a fixed
// point before returning.
func (e *Engine) SetPrev(name string, prevs map[string]bool) Event {
	target := e.NewEvent(name)
	if target == NoEvent {
		return NoEvent
	}
	for _, prevName := range sortedKeys(prevs) {
		if prevName == name {
			e.logger.Warn("rejected dependency", "event", name, "error", ErrSelfLoop)
			return NoEvent
		}
	}

	// Create every predecessor first, then verify no edge closes a loop
	// before installing any of them.
	prevEvs := make(map[string]Event, len(prevs))
	for _, prevName := range sortedKeys(prevs) {
		pv := e.NewEvent(prevName)
		if pv == NoEvent {
			return NoEvent
		}
		prevEvs[prevName] = pv
	}
	for prevName, pv := range prevEvs {
		if e.reaches(target, pv) {
			e.logger.Warn("rejected dependency", "event", name, "prev", prevName, "error", ErrCycleDetected)
			return NoEvent
		}
	}

	for _, prevName := range sortedKeys(prevs) {
		pv := prevEvs[prevName]
		c := side(prevs[prevName])
		if e.prev[c][target] == nil {
			e.prev[c][target] = make(eventSet)
		}
		if e.next[c][pv] == nil {
			e.next[c][pv] = make(eventSet)
		}
		e.prev[c][target][pv] = struct{}{}
		e.next[c][pv][target] = struct{}{}
		e.logger.Debug("dependency installed", "event", name, "prev", prevName, "prevState", prevs[prevName])
	}
	e.deduceFrom([]Event{target})
	return target
}

// reaches reports whether to is reachable from from across successor edges
// of either color. Adding an edge to→from would then close a cycle.
// Iterative breadth-first walk; no recursion.
func (e *Engine) reaches(from, to Event) bool {
	if from == to {
		return true
	}
	seen := eventSet{from: {}}
	work := []Event{from}
	for len(work) > 0 {
		cur := work[0]
		work = work[1:]
		for c := 0; c < 2; c++ {
			for n := range e.next[c][cur] {
				if n == to {
					return true
				}
				if _, ok := seen[n]; ok {
					continue
				}
				seen[n] = struct{}{}
				work = append(work, n)
			}
		}
	}
	return false
}

// WhyFalse explains why the named event is false: it walks to the nearest
// predecessor whose mis-state blocks the event, recursing into that
// predecessor's own cause, and returns the deepest root label reached, in
// the form "name==false" or "name==true". It returns ReservedName when the
// event is unknown or currently true.
func (e *Engine) WhyFalse(name string) string {
	ev := e.GetEvent(name)
	if !e.live(ev) || e.states[ev] {
		return ReservedName
	}

	// Two walk modes: explaining why an event is false (a required-true
	// predecessor is false, or a required-false one is true) and, once a
	// blocking required-false predecessor is met, why an event is true.
	// Iterative so adversarial depth cannot grow the stack.
	cur, whyTrue := ev, false
	for {
		next, flip, done := e.whyStep(cur, whyTrue)
		if done {
			if whyTrue {
				return e.names[cur] + "==true"
			}
			return e.names[cur] + "==false"
		}
		cur = next
		if flip {
			whyTrue = !whyTrue
		}
	}
}

// whyStep picks the predecessor to descend into for one step of the
// WhyFalse walk. done is set when cur itself is the root cause.
//
// Explaining a false event, the blocking predecessor is a required-true one
// that is false, or a required-false one that is true. Explaining a true
// event, every predecessor supports it; the walk follows a required-true
// (true) one first, else a required-false (false) one. Following a
// required-false edge inverts the question.
func (e *Engine) whyStep(cur Event, whyTrue bool) (next Event, flip, done bool) {
	for _, p := range sortedEvents(e.prev[side(true)][cur]) {
		if e.states[p] == whyTrue {
			return p, false, false
		}
	}
	for _, p := range sortedEvents(e.prev[side(false)][cur]) {
		if e.states[p] == !whyTrue {
			return p, true, false
		}
	}
	return NoEvent, false, true
}
