package cascade

// RemoveEvent tombstones the named event: links, handlers (including entries
// already queued on the dispatcher), data, priority, one-shot, and the
// write-protect flag are all cleared, successors are re-deduced, and the
// identity becomes available for recycling by a later NewEvent. Returns
// false for unknown names.
func (e *Engine) RemoveEvent(name string) bool {
	ev := e.GetEvent(name)
	if !e.live(ev) {
		return false
	}

	if h, ok := e.handlers[ev]; ok {
		h.invalid = true
		delete(e.handlers, ev)
	}
	for _, h := range e.multi[ev] {
		h.invalid = true
	}
	delete(e.multi, ev)
	delete(e.data, ev)
	delete(e.wrCtrl, ev)
	delete(e.priorities, ev)
	delete(e.oneShot, ev)

	var succ []Event
	for c := 0; c < 2; c++ {
		for p := range e.prev[c][ev] {
			delete(e.next[c][p], ev)
			if len(e.next[c][p]) == 0 {
				delete(e.next[c], p)
			}
		}
		delete(e.prev[c], ev)
		for n := range e.next[c][ev] {
			delete(e.prev[c][n], ev)
			if len(e.prev[c][n]) == 0 {
				delete(e.prev[c], n)
			}
			succ = append(succ, n)
		}
		delete(e.next[c], ev)
	}

	e.states[ev] = false
	delete(e.byName, name)
	delete(e.names, ev)
	e.removed[ev] = struct{}{}
	e.logger.Debug("event removed", "event", name, "id", uint64(ev))
	e.emit(EventTypeEventRemoved, name, map[string]any{"id": uint64(ev)})

	// Orphaned successors may change state now that a gate is gone. One left
	// without any predecessor is deduced once more (vacuously true) before
	// it continues as a plain source.
	var seeds []Event
	for _, n := range succ {
		if !e.isSource(n) {
			seeds = append(seeds, n)
			continue
		}
		if st := e.deduceSelf(n); e.states[n] != st {
			e.setState(n, st)
			seeds = append(seeds, e.successors(n)...)
		}
	}
	e.deduceFrom(seeds)
	return true
}

// IsRemoved reports whether ev is currently tombstoned and awaiting
// recycling.
func (e *Engine) IsRemoved(ev Event) bool {
	_, ok := e.removed[ev]
	return ok
}
