// Package workers runs background tasks and routes their completions back
// to the owning goroutine. A task is an entry function executed on a worker
// goroutine plus a completion callback executed on the owning goroutine the
// next time it drains the tracker. Two runners satisfy the contract: Spawn
// (one goroutine per task) and Pool (a fixed worker pool).
package workers

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/GoCodeAlone/cascade/wakeup"
)

// TaskEntry runs on a worker goroutine; the returned bool is the task
// result handed to the completion callback.
type TaskEntry func() bool

// TaskBack runs on the owning goroutine with the task result. A task whose
// entry panicked reports false.
type TaskBack func(ok bool)

// Logger is the structural logging interface the runners report through.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}

// Runner schedules background tasks and delivers their completions.
// NewTask is owning-goroutine-only, as are HandleFinished and Pending;
// Close may block until workers drain.
type Runner interface {
	// NewTask schedules entry on a worker and back for the owning
	// goroutine. Both must be non-nil.
	NewTask(entry TaskEntry, back TaskBack) bool
	// HandleFinished polls every outstanding task without blocking and
	// invokes the callbacks of the finished ones, returning how many ran.
	HandleFinished() int
	// Pending reports the number of tasks whose callback has not run yet.
	Pending() int
	// Close stops accepting tasks and waits for workers to finish.
	Close()
}

// task is one scheduled entry/back pair. Workers write result before the
// done flag; the owning goroutine reads them only after observing done, so
// the atomic store/load pair orders the accesses.
type task struct {
	id     string
	back   TaskBack
	result bool
	done   atomic.Bool
}

func (t *task) finish(ok bool) {
	t.result = ok
	t.done.Store(true)
}

// tracker is the runner-independent bookkeeping: the outstanding task list
// and the non-blocking completion poll. Owning-goroutine-only.
type tracker struct {
	tasks  []*task
	sem    *wakeup.Semaphore
	logger Logger
}

// add registers a new outstanding task and returns it.
func (tr *tracker) add(back TaskBack) *task {
	t := &task{id: uuid.NewString(), back: back}
	tr.tasks = append(tr.tasks, t)
	return t
}

// validate applies the shared argument contract: nil entry or back is a
// programming mistake, reported as an error.
func (tr *tracker) validate(entry TaskEntry, back TaskBack) bool {
	if back == nil {
		tr.logger.Error("rejected task with nil completion callback")
		return false
	}
	if entry == nil {
		tr.logger.Error("rejected task with nil entry")
		return false
	}
	return true
}

// handleFinished walks the outstanding list once, invoking callbacks of
// finished tasks and compacting the list in place.
func (tr *tracker) handleFinished() int {
	n := 0
	kept := tr.tasks[:0]
	for _, t := range tr.tasks {
		if !t.done.Load() {
			kept = append(kept, t)
			continue
		}
		tr.invoke(t)
		n++
	}
	for i := len(kept); i < len(tr.tasks); i++ {
		tr.tasks[i] = nil
	}
	tr.tasks = kept
	return n
}

func (tr *tracker) invoke(t *task) {
	defer func() {
		if r := recover(); r != nil {
			tr.logger.Debug("completion callback panicked", "task", t.id, "panic", r)
		}
	}()
	t.back(t.result)
}

func (tr *tracker) pending() int { return len(tr.tasks) }

// runEntry executes one entry with panic containment; a panicking entry
// yields a false result and the worker survives.
func runEntry(entry TaskEntry, logger Logger) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("task entry panicked", "panic", r)
			ok = false
		}
	}()
	return entry()
}

// mainGoroutine captures the id of the goroutine that first asks; see
// InMainThread.
var (
	mainGoroutineOnce sync.Once
	mainGoroutineID   uint64
)

// InMainThread reports whether the caller is the goroutine that made the
// first InMainThread call. It is a cheap defensive assertion for hosts that
// want to verify their drain calls stay on the owning goroutine; the
// library does not consult it on hot paths.
func InMainThread() bool {
	id := goroutineID()
	mainGoroutineOnce.Do(func() { mainGoroutineID = id })
	return id == mainGoroutineID
}

// goroutineID parses the current goroutine id out of the runtime stack
// header ("goroutine N [running]:").
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for _, c := range buf[len("goroutine "):n] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}
