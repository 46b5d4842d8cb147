package cascade

// Handler is the engine-side record of an attached callback. Dispatcher
// entries reference the record rather than the function, so removing a
// handler also invalidates entries already queued for it.
type Handler struct {
	fn      func()
	invalid bool
}

// SetHandler attaches the single handler of name, creating the event if
// needed. It fails on a nil fn (without creating the event) and when a
// single handler is already attached. If the event is already true the new
// handler is enqueued immediately at the event's priority, behind any
// entries already queued at that priority.
func (e *Engine) SetHandler(name string, fn func()) Event {
	if fn == nil {
		e.logger.Warn("rejected handler", "event", name, "error", ErrNilHandler)
		return NoEvent
	}
	ev := e.NewEvent(name)
	if ev == NoEvent {
		return NoEvent
	}
	if _, ok := e.handlers[ev]; ok {
		e.logger.Warn("rejected handler", "event", name, "error", ErrHandlerExists)
		return NoEvent
	}
	h := &Handler{fn: fn}
	e.handlers[ev] = h
	e.emit(EventTypeHandlerAttached, name, nil)
	if e.states[ev] {
		e.logger.Debug("trigger new handler on already-true event", "event", name)
		e.enqueue(ev, h)
	}
	return ev
}

// MultiHandlerByAlias creates a fresh event alias whose only predecessor is
// host@true and attaches fn to it. The alias state follows host through
// ordinary deduction, within the same SetState call; its handler runs later
// through the dispatcher, and its one-shot/priority flags are its own. The call
// fails when alias already names an event.
func (e *Engine) MultiHandlerByAlias(alias string, fn func(), host string) Event {
	if fn == nil {
		e.logger.Warn("rejected handler", "event", alias, "error", ErrNilHandler)
		return NoEvent
	}
	if e.GetEvent(alias) != NoEvent {
		e.logger.Warn("rejected alias handler", "alias", alias, "error", ErrAliasEventExists)
		return NoEvent
	}
	if e.SetHandler(alias, fn) == NoEvent {
		return NoEvent
	}
	return e.SetPrev(alias, map[string]bool{host: true})
}

// MultiHandlerOnSame adds a named handler to the bag attached to name. All
// bag handlers share the event's state, priority, and one-shot flag.
// Duplicate handler names on one event are rejected.
func (e *Engine) MultiHandlerOnSame(name string, fn func(), handlerName string) Event {
	if fn == nil {
		e.logger.Warn("rejected handler", "event", name, "handler", handlerName, "error", ErrNilHandler)
		return NoEvent
	}
	ev := e.NewEvent(name)
	if ev == NoEvent {
		return NoEvent
	}
	bag := e.multi[ev]
	if bag == nil {
		bag = make(map[string]*Handler)
		e.multi[ev] = bag
	}
	if _, ok := bag[handlerName]; ok {
		e.logger.Warn("rejected handler", "event", name, "handler", handlerName, "error", ErrHandlerNameTaken)
		return NoEvent
	}
	h := &Handler{fn: fn}
	bag[handlerName] = h
	e.emit(EventTypeHandlerAttached, name, map[string]any{"handler": handlerName})
	if e.states[ev] {
		e.logger.Debug("trigger new handler on already-true event", "event", name, "handler", handlerName)
		e.enqueue(ev, h)
	}
	return ev
}

// RemoveHandler removes the single handler of name. Entries already queued
// on the dispatcher for it become no-ops. Returns false when name or the
// handler does not exist.
func (e *Engine) RemoveHandler(name string) bool {
	ev := e.GetEvent(name)
	h, ok := e.handlers[ev]
	if !ok {
		return false
	}
	h.invalid = true
	delete(e.handlers, ev)
	e.emit(EventTypeHandlerRemoved, name, nil)
	return true
}

// RemoveNamedHandler removes one handler from the multi bag of name,
// invalidating in-flight dispatcher entries for it.
func (e *Engine) RemoveNamedHandler(name, handlerName string) bool {
	ev := e.GetEvent(name)
	h, ok := e.multi[ev][handlerName]
	if !ok {
		return false
	}
	h.invalid = true
	delete(e.multi[ev], handlerName)
	if len(e.multi[ev]) == 0 {
		delete(e.multi, ev)
	}
	e.emit(EventTypeHandlerRemoved, name, map[string]any{"handler": handlerName})
	return true
}

// ForceAll enqueues every handler of name, single and bag, regardless of
// the event's state. Unknown events and events without handlers are no-ops.
func (e *Engine) ForceAll(name string) {
	ev := e.GetEvent(name)
	if !e.live(ev) {
		return
	}
	e.effect(ev)
}

// HandlerCount reports the number of handlers attached to name across the
// single slot and the bag.
func (e *Engine) HandlerCount(name string) int {
	ev := e.GetEvent(name)
	n := len(e.multi[ev])
	if _, ok := e.handlers[ev]; ok {
		n++
	}
	return n
}

// SetPriority records the dispatch priority for name's handlers. Norm is
// stored as absence.
func (e *Engine) SetPriority(name string, pri Priority) Event {
	if pri >= numPriorities {
		e.logger.Warn("rejected priority", "event", name, "priority", uint8(pri))
		return NoEvent
	}
	ev := e.NewEvent(name)
	if ev == NoEvent {
		return NoEvent
	}
	if pri == PriorityNorm {
		delete(e.priorities, ev)
	} else {
		e.priorities[ev] = pri
	}
	return ev
}

// PriorityOf reports the dispatch priority for name (Norm by default).
func (e *Engine) PriorityOf(name string) Priority { return e.priorityOf(e.GetEvent(name)) }

func (e *Engine) priorityOf(ev Event) Priority {
	if pri, ok := e.priorities[ev]; ok {
		return pri
	}
	return PriorityNorm
}

// FlagOneShot marks name's handlers as one-shot: each handler is removed
// right after its next successful invocation through the dispatcher.
func (e *Engine) FlagOneShot(name string) Event {
	ev := e.NewEvent(name)
	if ev == NoEvent {
		return NoEvent
	}
	e.oneShot[ev] = struct{}{}
	return ev
}

// IsOneShot reports whether name's handlers are one-shot.
func (e *Engine) IsOneShot(name string) bool {
	_, ok := e.oneShot[e.GetEvent(name)]
	return ok
}

// effect fires the rising-edge consequence of ev: the single handler, then
// the bag handlers in name order, each submitted to the dispatcher at the
// event's priority.
func (e *Engine) effect(ev Event) {
	if h, ok := e.handlers[ev]; ok {
		e.logger.Debug("trigger handler", "event", e.names[ev])
		e.enqueue(ev, h)
	}
	if bag := e.multi[ev]; len(bag) > 0 {
		for _, hn := range sortedKeys(bag) {
			e.logger.Debug("trigger handler", "event", e.names[ev], "handler", hn)
			e.enqueue(ev, bag[hn])
		}
	}
}

// enqueue submits one handler to the dispatcher. One-shot events get a
// wrapper that removes the handler after it has actually run; removal before
// the wrapper runs still cancels the invocation.
func (e *Engine) enqueue(ev Event, h *Handler) {
	pri := e.priorityOf(ev)
	if _, one := e.oneShot[ev]; !one {
		e.dispatcher.Post(h, pri)
		return
	}
	e.dispatcher.PostFunc(func() {
		if h.invalid {
			return
		}
		h.fn()
		e.dropHandlerRef(ev, h)
	}, pri)
}

// dropHandlerRef removes whichever slot of ev still holds h; used by the
// one-shot wrapper after the handler ran.
func (e *Engine) dropHandlerRef(ev Event, h *Handler) {
	h.invalid = true
	if e.handlers[ev] == h {
		delete(e.handlers, ev)
		e.emit(EventTypeHandlerRemoved, e.EventName(ev), nil)
		return
	}
	for hn, cand := range e.multi[ev] {
		if cand == h {
			delete(e.multi[ev], hn)
			if len(e.multi[ev]) == 0 {
				delete(e.multi, ev)
			}
			e.emit(EventTypeHandlerRemoved, e.EventName(ev), map[string]any{"handler": hn})
			return
		}
	}
}
