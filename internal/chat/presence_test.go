package chat

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *fakeTimer) C() <-chan time.Time { return t.ch }

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := t.stopped
	t.stopped = true
	return !was
}

func (t *fakeTimer) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) NewTimer(time.Duration) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	timer := &fakeTimer{ch: make(chan time.Time)}
	c.timers = append(c.timers, timer)
	return timer
}

func (c *fakeClock) timer(t *testing.T, i int) *fakeTimer {
	t.Helper()
	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return len(c.timers) > i
	}, time.Second, time.Millisecond, "timer %d was never created", i)

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers[i]
}

// fire прокручивает i-й таймер, дождавшись его создания
func (c *fakeClock) fire(t *testing.T, i int) {
	c.timer(t, i).ch <- time.Now()
}

func TestSimulator_StartsIdle(t *testing.T) {
	sim := NewSimulator(&fakeClock{}, func() float64 { return 0 })
	require.False(t, sim.Typing())
}

func TestSimulator_TickEntersTypingThenReverts(t *testing.T) {
	clock := &fakeClock{}
	sim := NewSimulator(clock, func() float64 { return 0 }) // всегда < chance
	go sim.Run()
	defer sim.Stop()

	// Тик: Idle -> Typing
	clock.fire(t, 0)
	require.Eventually(t, sim.Typing, time.Second, time.Millisecond)

	// Возврат: Typing -> Idle, безусловный
	clock.fire(t, 1)
	require.Eventually(t, func() bool { return !sim.Typing() }, time.Second, time.Millisecond)
}

func TestSimulator_HighRollNeverTypes(t *testing.T) {
	clock := &fakeClock{}
	sim := NewSimulator(clock, func() float64 { return 1 }) // всегда >= chance
	go sim.Run()
	defer sim.Stop()

	clock.fire(t, 0)
	clock.fire(t, 1)
	clock.fire(t, 2)

	// Три тика обработаны (создан четвёртый таймер), индикатор не горел
	clock.timer(t, 3)
	require.False(t, sim.Typing())
}

func TestSimulator_StopReleasesTimers(t *testing.T) {
	clock := &fakeClock{}
	sim := NewSimulator(clock, func() float64 { return 0 })
	go sim.Run()

	tick := clock.timer(t, 0)
	sim.Stop()

	require.Eventually(t, tick.isStopped, time.Second, time.Millisecond)
	require.False(t, sim.Typing())
}

func TestSimulator_StopDuringTypingResets(t *testing.T) {
	clock := &fakeClock{}
	sim := NewSimulator(clock, func() float64 { return 0 })
	go sim.Run()

	clock.fire(t, 0)
	require.Eventually(t, sim.Typing, time.Second, time.Millisecond)

	// Стоп в середине burst: таймер возврата гасится, сигнал сбрасывается
	sim.Stop()
	burst := clock.timer(t, 1)
	require.Eventually(t, func() bool { return !sim.Typing() }, time.Second, time.Millisecond)
	require.Eventually(t, burst.isStopped, time.Second, time.Millisecond)
}

func TestSimulator_StopTwiceIsSafe(t *testing.T) {
	sim := NewSimulator(&fakeClock{}, nil)
	go sim.Run()

	sim.Stop()
	sim.Stop()
}
