package cascade

import (
	"context"

	"github.com/GoCodeAlone/cascade/inqueue"
	"github.com/GoCodeAlone/cascade/wakeup"
	"github.com/GoCodeAlone/cascade/workers"
)

// Loop is the cooperative main loop of a cascade host: each pass drains the
// worker tracker, the inbound queue, and the dispatcher, republishes the
// introspection snapshot, then sleeps on the wakeup semaphore until work
// arrives or the wait elapses. All fields except Sem are optional.
type Loop struct {
	Engine     *Engine
	Dispatcher *Dispatcher
	Queue      *inqueue.Queue
	Runner     workers.Runner
	Sem        *wakeup.Semaphore
	Snapshots  *SnapshotCache

	// WaitSec/WaitNsec bound each sleep; zero-zero uses wakeup.DefaultWait.
	WaitSec  int64
	WaitNsec int64

	// QueueWarnDepth warns through Logger when the inbound queue is still
	// deeper than this after a drain pass; zero disables the check.
	QueueWarnDepth int
	Logger         Logger
}

// Step runs one drain pass without sleeping and reports whether it did any
// work. Owning goroutine only.
func (l *Loop) Step() bool {
	worked := false
	if l.Runner != nil && l.Runner.HandleFinished() > 0 {
		worked = true
	}
	if l.Queue != nil {
		if l.Queue.HandleAll() > 0 {
			worked = true
		}
		if l.QueueWarnDepth > 0 && l.Logger != nil {
			if depth := l.Queue.Size(false); depth > l.QueueWarnDepth {
				l.Logger.Warn("inbound queue backed up", "depth", depth, "warnDepth", l.QueueWarnDepth)
			}
		}
	}
	if l.Dispatcher != nil {
		if l.Dispatcher.HasMessages() {
			worked = true
		}
		l.Dispatcher.RunAll()
	}
	if l.Snapshots != nil && l.Engine != nil {
		s := l.Engine.Snapshot()
		if l.Queue != nil {
			s.Queues.Inbound = l.Queue.Size(false)
		}
		if l.Runner != nil {
			s.Queues.PendingTasks = l.Runner.Pending()
		}
		l.Snapshots.Publish(s)
	}
	return worked
}

// Run drives Step and the timed wait until ctx is done. The semaphore wait
// is the loop's only suspension point, so cancellation latency is bounded
// by the configured wait.
func (l *Loop) Run(ctx context.Context) {
	for ctx.Err() == nil {
		l.Step()
		l.Sem.TimedWait(l.WaitSec, l.WaitNsec)
	}
}
