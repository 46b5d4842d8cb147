package cascade

import "github.com/GoCodeAlone/cascade/inqueue"

// BindQueue registers the engine's fact handler on q: StateFacts payloads
// pushed by background goroutines (directly or via schedule.Pulser) are
// applied with SetState when the owning goroutine drains the queue.
func BindQueue(e *Engine, q *inqueue.Queue) bool {
	return inqueue.SetHandler(q, func(facts StateFacts) {
		e.SetState(facts)
	})
}
