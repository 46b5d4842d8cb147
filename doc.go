// Package cascade is an in-process reactive state-propagation engine.
//
// Clients declare named boolean events, wire dependencies between them, and
// assert facts on source events. The engine deduces the consequences across
// the dependency graph and schedules handler callbacks through a
// single-threaded priority dispatcher, so effects always run after the
// assertion that caused them has fully propagated.
//
// The engine and the dispatcher are strictly owned by one goroutine (the
// "owning" goroutine). Background goroutines interact with them only through
// the bounded surfaces in the subpackages: the inqueue MPSC queue, the
// workers completion tracker, and the wakeup semaphore.
package cascade
