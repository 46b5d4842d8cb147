package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveEventClearsEverything(t *testing.T) {
	e, d := newTestEngine(t)

	e.SetPrev("e", map[string]bool{"src": true})
	e.SetHandler("e", func() {})
	e.MultiHandlerOnSame("e", func() {}, "named")
	e.SetPriority("e", PriorityHigh)
	e.FlagOneShot("e")
	e.ReplaceData("e", &testPayload{})
	ev := e.GetEvent("e")

	require.True(t, e.RemoveEvent("e"))
	assert.False(t, e.RemoveEvent("e"), "second removal is a lookup miss")

	assert.True(t, e.IsRemoved(ev))
	assert.Equal(t, NoEvent, e.GetEvent("e"))
	assert.False(t, e.StateOf(ev))
	assert.Zero(t, e.HandlerCount("e"))
	d.RunAll()

	// the predecessor lost its successor link entirely
	assert.Empty(t, e.successors(e.GetEvent("src")))
}

func TestRemoveEventCancelsInFlightHandlers(t *testing.T) {
	e, d := newTestEngine(t)

	calls := 0
	e.SetHandler("e", func() { calls++ })
	e.MultiHandlerOnSame("e", func() { calls++ }, "named")
	e.SetState(StateFacts{"e": true})
	require.True(t, d.HasMessages())

	require.True(t, e.RemoveEvent("e"))
	d.RunAll()
	assert.Zero(t, calls)
}

func TestRemoveEventReDeducesSuccessors(t *testing.T) {
	e, _ := newTestEngine(t)

	// down requires mid false; mid requires src true
	e.SetPrev("mid", map[string]bool{"src": true})
	e.SetPrev("down", map[string]bool{"mid": false})
	e.SetState(StateFacts{"src": true})
	require.True(t, e.State("mid"))
	require.False(t, e.State("down"))

	require.True(t, e.RemoveEvent("mid"))
	assert.True(t, e.State("down"), "gate vanished; successor re-deduced")
}

func TestRemovedIdentityIsRecycled(t *testing.T) {
	e, _ := newTestEngine(t)

	old := e.NewEvent("short-lived")
	e.NewEvent("keeper")
	require.True(t, e.RemoveEvent("short-lived"))

	reborn := e.NewEvent("newcomer")
	assert.Equal(t, old, reborn, "tombstoned identity is reissued first")
	assert.False(t, e.IsRemoved(reborn))
	assert.False(t, e.State("newcomer"), "recycled identity starts false")

	next := e.NewEvent("another")
	assert.NotEqual(t, reborn, next, "dense range extends once tombstones are gone")
}

func TestRecycledIdentityCarriesNoResidue(t *testing.T) {
	e, d := newTestEngine(t)

	e.SetHandler("ghost", func() {})
	e.SetPriority("ghost", PriorityHigh)
	e.FlagOneShot("ghost")
	e.MarkWriteProtected("ghost", true)
	require.True(t, e.RemoveEvent("ghost"))

	e.NewEvent("fresh")
	assert.Zero(t, e.HandlerCount("fresh"))
	assert.Equal(t, PriorityNorm, e.PriorityOf("fresh"))
	assert.False(t, e.IsOneShot("fresh"))
	assert.False(t, e.IsWriteProtected("fresh"))
	assert.False(t, e.HasData("fresh"))
	d.RunAll()
}
