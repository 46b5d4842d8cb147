package wakeup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotifyThenWaitReturnsImmediately(t *testing.T) {
	s := New()
	s.Notify()

	start := time.Now()
	woken := s.TimedWait(5, 0)
	assert.True(t, woken)
	assert.Less(t, time.Since(start), time.Second)
}

func TestManyNotifiesCollapseToOneWake(t *testing.T) {
	s := New()
	for i := 0; i < 100; i++ {
		s.Notify()
	}

	assert.True(t, s.TimedWait(1, 0), "first wait consumes the collapsed notify")
	assert.False(t, s.TimedWait(0, int64(20*time.Millisecond)), "second wait must time out")
}

func TestTimedWaitTimesOut(t *testing.T) {
	s := New()

	start := time.Now()
	woken := s.TimedWait(0, int64(30*time.Millisecond))
	assert.False(t, woken)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestZeroWaitUsesDefault(t *testing.T) {
	s := New()

	start := time.Now()
	s.TimedWait(0, 0)
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, DefaultWait)
	assert.Less(t, elapsed, 10*DefaultWait, "zero interval must not sleep forever")
}

func TestNotifyFromOtherGoroutineWakes(t *testing.T) {
	s := New()
	go func() {
		time.Sleep(20 * time.Millisecond)
		s.Notify()
	}()

	start := time.Now()
	assert.True(t, s.TimedWait(5, 0))
	assert.Less(t, time.Since(start), time.Second)
}

func TestNotifyAfterWakeWorksAgain(t *testing.T) {
	s := New()

	s.Notify()
	assert.True(t, s.TimedWait(1, 0))

	s.Notify()
	assert.True(t, s.TimedWait(1, 0), "the collapse flag clears on each wake")
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		sec  int64
		nsec int64
		want time.Duration
	}{
		{"plain", 1, 0, time.Second},
		{"subsecond", 0, 250_000_000, 250 * time.Millisecond},
		{"nsec overflow folds into seconds", 1, 2_500_000_000, 3500 * time.Millisecond},
		{"negative seconds clamp", -5, 100, 100},
		{"negative nsec clamp", 2, -1, 2 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.sec, tt.nsec))
		})
	}
}
