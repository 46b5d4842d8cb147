package cascade

// LoopRequest is the host hook the dispatcher calls when its queues go from
// empty to non-empty: the host must arrange for run to execute on the owning
// goroutine soon (for example by invoking it after draining its other
// queues). The closure is safe to run after the dispatcher is closed; it
// observes the liveness token and no-ops.
type LoopRequest func(run func())

// message is one queued dispatcher entry: either a handler reference (which
// no-ops once the handler is removed) or a plain function.
type message struct {
	h  *Handler
	fn func()
}

// Dispatcher is the deferred-dispatch core: a single-goroutine priority FIFO
// that turns "fire handler" decisions into cooperatively scheduled
// invocations. High drains fully before Norm; within one priority order is
// strict FIFO; Low is throttled to one message per drain slot so unrelated
// host work is never starved.
//
// All methods must be called on the owning goroutine.
type Dispatcher struct {
	queues  [numPriorities][]message
	pending int
	alive   *bool
	loopReq LoopRequest
	logger  Logger
}

// NewDispatcher creates a dispatcher. loopReq may be nil when the host
// drains with RunAll on its own cadence (see Loop).
func NewDispatcher(loopReq LoopRequest, logger Logger) *Dispatcher {
	alive := true
	return &Dispatcher{
		alive:   &alive,
		loopReq: loopReq,
		logger:  orNoop(logger),
	}
}

// Post enqueues a handler reference at pri. The entry no-ops at run time if
// the handler has been removed by then.
func (d *Dispatcher) Post(h *Handler, pri Priority) {
	if h == nil {
		d.logger.Warn("dropped nil handler message")
		return
	}
	d.post(message{h: h}, pri)
}

// PostFunc enqueues a plain function at pri.
func (d *Dispatcher) PostFunc(fn func(), pri Priority) {
	if fn == nil {
		d.logger.Warn("dropped nil message")
		return
	}
	d.post(message{fn: fn}, pri)
}

func (d *Dispatcher) post(m message, pri Priority) {
	if !*d.alive {
		d.logger.Warn("dropped message on closed dispatcher")
		return
	}
	if pri >= numPriorities {
		pri = PriorityNorm
	}
	d.queues[pri] = append(d.queues[pri], m)
	d.pending++
	if d.pending == 1 {
		d.requestLoop()
	}
}

// requestLoop asks the host to call RunAll soon. The closure captures the
// liveness token, not the dispatcher's validity at call time, so hooks
// outliving Close stay safe.
func (d *Dispatcher) requestLoop() {
	if d.loopReq == nil {
		return
	}
	alive := d.alive
	d.loopReq(func() {
		if !*alive {
			return
		}
		d.RunAll()
	})
}

// RunAll drains the queues: all High, all Norm, then at most one Low per
// invocation. If messages remain after a Low message ran, the loop-request
// hook is re-armed and RunAll returns, yielding the slot to the host.
func (d *Dispatcher) RunAll() {
	if !*d.alive {
		return
	}
	for d.handleOne() {
	}
}

// handleOne runs the highest-priority front message. It returns false when
// nothing ran or when a Low message consumed this slot.
func (d *Dispatcher) handleOne() bool {
	for pri := int(numPriorities) - 1; pri >= 0; pri-- {
		q := d.queues[pri]
		if len(q) == 0 {
			continue
		}
		m := q[0]
		q[0] = message{}
		d.queues[pri] = q[1:]
		if len(q) == 1 {
			d.queues[pri] = nil
		}
		d.pending--
		d.invoke(m)
		if Priority(pri) != PriorityLow {
			return true
		}
		if d.pending > 0 {
			d.requestLoop()
		}
		return false
	}
	return false
}

// invoke runs one message, containing panics so a misbehaving handler cannot
// take down the drain loop.
func (d *Dispatcher) invoke(m message) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Debug("message panicked", "panic", r)
		}
	}()
	switch {
	case m.h != nil:
		if m.h.invalid {
			return
		}
		m.h.fn()
	case m.fn != nil:
		m.fn()
	}
}

// Len reports the number of queued messages at pri.
func (d *Dispatcher) Len(pri Priority) int {
	if pri >= numPriorities {
		return 0
	}
	return len(d.queues[pri])
}

// HasMessages reports whether anything is queued at any priority.
func (d *Dispatcher) HasMessages() bool { return d.pending > 0 }

// Alive reports whether Close has not yet been called.
func (d *Dispatcher) Alive() bool { return *d.alive }

// Close marks the dispatcher dead. Queued messages are discarded; hooks and
// entries referencing the dispatcher observe the liveness token and no-op.
func (d *Dispatcher) Close() {
	if !*d.alive {
		return
	}
	*d.alive = false
	if d.pending > 0 {
		d.logger.Debug("discarding queued messages", "count", d.pending)
	}
}
