package cascade

// ObserverFunc receives engine lifecycle events as CloudEvents. Observers
// run synchronously on the owning goroutine in registration order; a
// panicking observer is contained and logged.
type ObserverFunc func(event CloudEvent)

// RegisterObserver attaches an observer under id. Lifecycle events (event
// created/removed, state changed, handler attached/removed) are delivered to
// it until UnregisterObserver.
func (e *Engine) RegisterObserver(id string, fn ObserverFunc) error {
	if fn == nil {
		return ErrNilObserver
	}
	if _, ok := e.observers[id]; ok {
		return ErrObserverExists
	}
	e.observers[id] = fn
	e.observerIDs = append(e.observerIDs, id)
	return nil
}

// UnregisterObserver detaches the observer registered under id.
func (e *Engine) UnregisterObserver(id string) error {
	if _, ok := e.observers[id]; !ok {
		return ErrObserverNotFound
	}
	delete(e.observers, id)
	for i, known := range e.observerIDs {
		if known == id {
			e.observerIDs = append(e.observerIDs[:i], e.observerIDs[i+1:]...)
			break
		}
	}
	return nil
}

// emit builds and delivers one lifecycle event. Building is skipped entirely
// when nobody is listening, keeping the propagation hot path cheap.
func (e *Engine) emit(eventType, eventName string, data map[string]any) {
	if len(e.observerIDs) == 0 {
		return
	}
	if data == nil {
		data = make(map[string]any, 1)
	}
	data["event"] = eventName
	ce := NewCloudEvent(eventType, EngineSource, data)
	for _, id := range e.observerIDs {
		e.deliver(id, ce)
	}
}

func (e *Engine) deliver(id string, ce CloudEvent) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug("observer panicked", "observer", id, "panic", r)
		}
	}()
	e.observers[id](ce)
}
