package cascade

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCodeAlone/cascade/inqueue"
	"github.com/GoCodeAlone/cascade/wakeup"
	"github.com/GoCodeAlone/cascade/workers"
)

// TestBackgroundToMainBridge drives the full path: a background task pushes
// a payload into the inbound queue and reports success; its completion
// callback reaches application code through the dispatcher; the payload
// reaches its per-type queue handler. Each side must be observed exactly
// once.
func TestBackgroundToMainBridge(t *testing.T) {
	sem := wakeup.New()
	d := NewDispatcher(nil, nil)
	e := NewEngine(d, nil)
	q := inqueue.New(sem, nil)
	runner := workers.NewSpawnRunner(sem, nil)
	defer runner.Close()

	popped := 0
	require.True(t, inqueue.SetHandler(q, func(s string) {
		if s == "a" {
			popped++
		}
	}))

	backed := 0
	var backOK bool
	back := ViaDispatcher(func(ok bool) {
		backed++
		backOK = ok
	}, d, PriorityNorm)

	require.True(t, runner.NewTask(func() bool {
		return q.TryPush("a")
	}, back))

	loop := Loop{
		Engine:     e,
		Dispatcher: d,
		Queue:      q,
		Runner:     runner,
		Sem:        sem,
		WaitSec:    1,
	}

	deadline := time.Now().Add(5 * time.Second)
	for (popped == 0 || backed == 0) && time.Now().Before(deadline) {
		sem.TimedWait(0, int64(10*time.Millisecond))
		loop.Step()
	}

	assert.Equal(t, 1, popped, "queue handler observed the payload once")
	assert.Equal(t, 1, backed, "completion callback ran once")
	assert.True(t, backOK)
}

func TestBindQueueAppliesFacts(t *testing.T) {
	sem := wakeup.New()
	d := NewDispatcher(nil, nil)
	e := NewEngine(d, nil)
	q := inqueue.New(sem, nil)

	require.True(t, BindQueue(e, q))
	assert.False(t, BindQueue(e, q), "the facts handler registers once")

	e.SetPrev("derived", map[string]bool{"raw": true})
	require.True(t, q.TryPush(StateFacts{"raw": true}))
	q.HandleAll()

	assert.True(t, e.State("raw"))
	assert.True(t, e.State("derived"))
}

func TestLoopStepReportsWork(t *testing.T) {
	sem := wakeup.New()
	d := NewDispatcher(nil, nil)
	e := NewEngine(d, nil)
	q := inqueue.New(sem, nil)
	var cache SnapshotCache

	loop := Loop{Engine: e, Dispatcher: d, Queue: q, Sem: sem, Snapshots: &cache}

	assert.False(t, loop.Step())
	require.NotNil(t, cache.Load(), "every pass republishes the snapshot")

	BindQueue(e, q)
	q.TryPush(StateFacts{"x": true})
	assert.True(t, loop.Step())
	assert.True(t, e.State("x"))

	view, ok := cache.Load().Event("x")
	require.True(t, ok)
	assert.True(t, view.State)
}

func TestLoopRunStopsOnContext(t *testing.T) {
	sem := wakeup.New()
	loop := Loop{Sem: sem, WaitNsec: int64(5 * time.Millisecond)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	cancel()
	sem.Notify()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
}
