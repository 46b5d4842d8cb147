// Package schedule feeds time-driven facts into a cascade engine. Cron
// entries fire on the cron goroutine and must not touch the engine, so each
// firing pushes a StateFacts batch into the inbound queue; the owning
// goroutine applies it on its next drain (see cascade.BindQueue).
package schedule

import (
	"errors"
	"maps"

	"github.com/robfig/cron/v3"

	"github.com/GoCodeAlone/cascade"
	"github.com/GoCodeAlone/cascade/inqueue"
)

// ErrNoFacts rejects schedule entries that would assert nothing.
var ErrNoFacts = errors.New("schedule entry needs at least one fact")

// Logger is the structural logging interface the pulser reports through.
type Logger interface {
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Pulser owns a cron scheduler whose entries assert facts on source events.
type Pulser struct {
	c      *cron.Cron
	q      *inqueue.Queue
	logger Logger
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Debug(string, ...any) {}

// NewPulser creates a pulser that pushes into q. Standard 5-field cron
// expressions and the @every / @hourly descriptors apply.
func NewPulser(q *inqueue.Queue, logger Logger) *Pulser {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Pulser{c: cron.New(), q: q, logger: logger}
}

// Add schedules facts to be asserted on every firing of spec. The facts map
// is cloned per firing so the consumer never shares state with the
// scheduler goroutine.
func (p *Pulser) Add(spec string, facts cascade.StateFacts) (cron.EntryID, error) {
	if len(facts) == 0 {
		return 0, ErrNoFacts
	}
	template := maps.Clone(facts)
	return p.c.AddFunc(spec, func() {
		if !p.q.TryPush(maps.Clone(template)) {
			p.logger.Warn("dropped scheduled facts", "spec", spec)
			return
		}
		p.logger.Debug("scheduled facts pushed", "spec", spec, "facts", len(template))
	})
}

// Remove cancels one entry.
func (p *Pulser) Remove(id cron.EntryID) { p.c.Remove(id) }

// Start launches the cron goroutine.
func (p *Pulser) Start() { p.c.Start() }

// Stop halts scheduling; entries already pushed remain in the queue.
func (p *Pulser) Stop() { p.c.Stop() }
