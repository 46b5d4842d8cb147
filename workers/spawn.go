package workers

import (
	"sync"

	"github.com/GoCodeAlone/cascade/wakeup"
)

// SpawnRunner starts one goroutine per task. Simple and unbounded; prefer
// PoolRunner when task volume is high or bursty.
type SpawnRunner struct {
	tracker
	wg     sync.WaitGroup
	closed bool
}

// NewSpawnRunner creates a runner that notifies sem as each task finishes.
func NewSpawnRunner(sem *wakeup.Semaphore, logger Logger) *SpawnRunner {
	if logger == nil {
		logger = noopLogger{}
	}
	return &SpawnRunner{tracker: tracker{sem: sem, logger: logger}}
}

// NewTask runs entry on a fresh goroutine.
func (r *SpawnRunner) NewTask(entry TaskEntry, back TaskBack) bool {
	if r.closed {
		r.logger.Warn("rejected task on closed runner")
		return false
	}
	if !r.validate(entry, back) {
		return false
	}
	t := r.add(back)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		t.finish(runEntry(entry, r.logger))
		r.sem.Notify()
	}()
	return true
}

// HandleFinished drains completed tasks; owning goroutine only.
func (r *SpawnRunner) HandleFinished() int { return r.handleFinished() }

// Pending reports tasks whose callback has not run yet.
func (r *SpawnRunner) Pending() int { return r.pending() }

// Close blocks until every outstanding task goroutine has returned. Their
// callbacks still require a final HandleFinished.
func (r *SpawnRunner) Close() {
	r.closed = true
	r.wg.Wait()
}
