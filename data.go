package cascade

// The data store attaches an arbitrary payload to an event. Two accessor
// pairs exist: the plain GetData/ReplaceData and the write-protected
// WPGetData/WPReplaceData. Cross-use (plain accessors on a protected event
// or protected accessors on a plain one) fails with a warning so read-only
// parameters cannot be clobbered by accident.

// GetData returns the payload attached to name, creating the event if the
// name is unknown. Returns nil when no payload is attached or when the event
// is write-protected.
func (e *Engine) GetData(name string) any {
	ev := e.NewEvent(name)
	if ev == NoEvent {
		return nil
	}
	if e.isWrCtrl(ev) {
		e.logger.Warn("rejected data access", "event", name, "error", ErrWriteProtected)
		return nil
	}
	return e.data[ev]
}

// ReplaceData attaches or replaces the payload of name, creating the event
// if needed. A nil payload detaches. Rejected with a warning when the event
// is write-protected.
func (e *Engine) ReplaceData(name string, payload any) {
	ev := e.NewEvent(name)
	if ev == NoEvent {
		return
	}
	if e.isWrCtrl(ev) {
		e.logger.Warn("rejected data write", "event", name, "error", ErrWriteProtected)
		return
	}
	e.storeData(ev, payload)
}

// WPGetData is the write-protected counterpart of GetData; it only serves
// events whose write-protect flag is set.
func (e *Engine) WPGetData(name string) any {
	ev := e.NewEvent(name)
	if ev == NoEvent {
		return nil
	}
	if !e.isWrCtrl(ev) {
		e.logger.Warn("rejected data access", "event", name, "error", ErrNotWriteProtected)
		return nil
	}
	return e.data[ev]
}

// WPReplaceData is the write-protected counterpart of ReplaceData.
func (e *Engine) WPReplaceData(name string, payload any) {
	ev := e.NewEvent(name)
	if ev == NoEvent {
		return
	}
	if !e.isWrCtrl(ev) {
		e.logger.Warn("rejected data write", "event", name, "error", ErrNotWriteProtected)
		return
	}
	e.storeData(ev, payload)
}

// MarkWriteProtected sets or clears the write-protect flag of name, creating
// the event if needed. The flag cannot flip in either direction while a
// payload is attached; the flag and the payload store are otherwise
// independent.
func (e *Engine) MarkWriteProtected(name string, on bool) bool {
	ev := e.NewEvent(name)
	if ev == NoEvent {
		return false
	}
	if _, ok := e.data[ev]; ok {
		e.logger.Warn("rejected write-protect flip", "event", name, "error", ErrDataAttached)
		return false
	}
	if on {
		e.wrCtrl[ev] = struct{}{}
	} else {
		delete(e.wrCtrl, ev)
	}
	e.logger.Debug("write-protect", "event", name, "on", on)
	return true
}

// IsWriteProtected reports the write-protect flag of name.
func (e *Engine) IsWriteProtected(name string) bool { return e.isWrCtrl(e.GetEvent(name)) }

// HasData reports whether a payload is attached to name.
func (e *Engine) HasData(name string) bool {
	_, ok := e.data[e.GetEvent(name)]
	return ok
}

func (e *Engine) isWrCtrl(ev Event) bool {
	_, ok := e.wrCtrl[ev]
	return ok
}

func (e *Engine) storeData(ev Event, payload any) {
	if payload == nil {
		delete(e.data, ev)
		return
	}
	e.data[ev] = payload
}
