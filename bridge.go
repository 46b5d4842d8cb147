package cascade

// ViaDispatcher wraps a task completion callback so that, when the worker
// tracker runs it on the owning goroutine, the real callback is deferred
// through d at pri instead of running inline. Background completions thereby
// join the same priority FIFO as handler invocations, so the engine's
// ordering guarantees hold for asynchronous results too.
//
// The wrapped callback is compatible with workers.TaskBack.
func ViaDispatcher(back func(bool), d *Dispatcher, pri Priority) func(bool) {
	return func(ok bool) {
		d.PostFunc(func() { back(ok) }, pri)
	}
}
