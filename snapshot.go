package cascade

import (
	"sync/atomic"
	"time"
)

// EventView is the read-model of one event inside a Snapshot.
type EventView struct {
	Name           string `json:"name"`
	State          bool   `json:"state"`
	Handlers       int    `json:"handlers"`
	Source         bool   `json:"source"`
	OneShot        bool   `json:"oneShot,omitempty"`
	WriteProtected bool   `json:"writeProtected,omitempty"`
	HasData        bool   `json:"hasData,omitempty"`
	WhyFalse       string `json:"whyFalse,omitempty"`
}

// QueueView carries the depth counters of the moving parts around the
// engine at snapshot time.
type QueueView struct {
	DispatcherHigh int `json:"dispatcherHigh"`
	DispatcherNorm int `json:"dispatcherNorm"`
	DispatcherLow  int `json:"dispatcherLow"`
	Inbound        int `json:"inbound"`
	PendingTasks   int `json:"pendingTasks"`
}

// Snapshot is an immutable read-model of the engine, produced on the owning
// goroutine and published for concurrent readers (see SnapshotCache and the
// introspect package).
type Snapshot struct {
	Taken  time.Time   `json:"taken"`
	Events []EventView `json:"events"`
	Queues QueueView   `json:"queues"`
}

// Snapshot builds the read-model for the current engine state. Owning
// goroutine only; the result is safe to hand to other goroutines.
func (e *Engine) Snapshot() *Snapshot {
	s := &Snapshot{Taken: time.Now()}
	for _, name := range sortedKeys(e.byName) {
		ev := e.byName[name]
		view := EventView{
			Name:           name,
			State:          e.states[ev],
			Handlers:       e.HandlerCount(name),
			Source:         e.isSource(ev),
			OneShot:        e.IsOneShot(name),
			WriteProtected: e.isWrCtrl(ev),
			HasData:        e.HasData(name),
		}
		if !view.State {
			view.WhyFalse = e.WhyFalse(name)
		}
		s.Events = append(s.Events, view)
	}
	s.Queues.DispatcherHigh = e.dispatcher.Len(PriorityHigh)
	s.Queues.DispatcherNorm = e.dispatcher.Len(PriorityNorm)
	s.Queues.DispatcherLow = e.dispatcher.Len(PriorityLow)
	return s
}

// Event looks up one event view by name.
func (s *Snapshot) Event(name string) (EventView, bool) {
	for _, ev := range s.Events {
		if ev.Name == name {
			return ev, true
		}
	}
	return EventView{}, false
}

// SnapshotCache publishes snapshots from the owning goroutine to any number
// of concurrent readers, replacing the whole snapshot atomically.
type SnapshotCache struct {
	p atomic.Pointer[Snapshot]
}

// Publish stores s for readers.
func (c *SnapshotCache) Publish(s *Snapshot) { c.p.Store(s) }

// Load returns the most recently published snapshot, or nil before the
// first Publish.
func (c *SnapshotCache) Load() *Snapshot { return c.p.Load() }
