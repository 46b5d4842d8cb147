package workers

import (
	"sync"

	"github.com/GoCodeAlone/cascade/wakeup"
)

// PoolRunner runs tasks on a fixed set of worker goroutines. Submissions
// queue on an internal list guarded by a mutex and condition variable; the
// stop flag is observed under the same mutex, so a broadcast issued during
// Close cannot be lost between the queue check and the wait.
type PoolRunner struct {
	tracker

	mu    sync.Mutex
	cond  *sync.Cond
	queue []poolJob
	stop  bool

	wg     sync.WaitGroup
	closed bool
}

type poolJob struct {
	entry TaskEntry
	t     *task
}

// NewPoolRunner starts size workers. A request for zero workers is coerced
// to one so the pool stays workable.
func NewPoolRunner(size int, sem *wakeup.Semaphore, logger Logger) *PoolRunner {
	if logger == nil {
		logger = noopLogger{}
	}
	if size <= 0 {
		logger.Warn("coercing worker pool size to 1", "requested", size)
		size = 1
	}
	r := &PoolRunner{tracker: tracker{sem: sem, logger: logger}}
	r.cond = sync.NewCond(&r.mu)
	r.wg.Add(size)
	for i := 0; i < size; i++ {
		go r.worker()
	}
	return r
}

func (r *PoolRunner) worker() {
	defer r.wg.Done()
	for {
		r.mu.Lock()
		for !r.stop && len(r.queue) == 0 {
			r.cond.Wait()
		}
		if r.stop {
			r.mu.Unlock()
			return
		}
		job := r.queue[0]
		r.queue[0] = poolJob{}
		r.queue = r.queue[1:]
		r.mu.Unlock()

		job.t.finish(runEntry(job.entry, r.logger))
		r.sem.Notify()
	}
}

// NewTask queues entry for the next free worker.
func (r *PoolRunner) NewTask(entry TaskEntry, back TaskBack) bool {
	if r.closed {
		r.logger.Warn("rejected task on closed runner")
		return false
	}
	if !r.validate(entry, back) {
		return false
	}
	t := r.add(back)
	r.mu.Lock()
	r.queue = append(r.queue, poolJob{entry: entry, t: t})
	r.mu.Unlock()
	r.cond.Signal()
	return true
}

// HandleFinished drains completed tasks; owning goroutine only.
func (r *PoolRunner) HandleFinished() int { return r.handleFinished() }

// Pending reports tasks whose callback has not run yet.
func (r *PoolRunner) Pending() int { return r.pending() }

// Close sets the stop flag, wakes every worker, and joins them. Tasks still
// queued are discarded with a warning; their callbacks never run.
func (r *PoolRunner) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.mu.Lock()
	r.stop = true
	discarded := len(r.queue)
	r.queue = nil
	r.mu.Unlock()
	r.cond.Broadcast()
	r.wg.Wait()
	if discarded > 0 {
		r.logger.Warn("discarded queued tasks", "count", discarded)
	}
}
