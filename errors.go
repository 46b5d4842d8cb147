package cascade

import "errors"

// Engine errors. Public operations report recoverable failures through their
// sentinel return values (NoEvent, nil, false, 0); these errors surface
// where an error return exists (observer registration) and in log output.
var (
	// Graph errors
	ErrEmptyEventName = errors.New("event name must not be empty")
	ErrSelfLoop       = errors.New("event cannot depend on itself")
	ErrCycleDetected  = errors.New("dependency would create a cycle")

	// Handler errors
	ErrNilHandler       = errors.New("handler function is nil")
	ErrHandlerExists    = errors.New("event already has a handler")
	ErrHandlerNameTaken = errors.New("handler name already used on event")
	ErrAliasEventExists = errors.New("alias name already names an event")

	// Data errors
	ErrWriteProtected    = errors.New("data is write-protected; use the protected accessors")
	ErrNotWriteProtected = errors.New("data is not write-protected; use the plain accessors")
	ErrDataAttached      = errors.New("write-protect flag cannot flip while data is attached")

	// Observer errors
	ErrNilObserver      = errors.New("observer function is nil")
	ErrObserverExists   = errors.New("observer id already registered")
	ErrObserverNotFound = errors.New("observer id not registered")
)
