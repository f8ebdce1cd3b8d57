package meta

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testClock struct {
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{
		current: time.Unix(1700000000, 0),
	}
}

func (tc *testClock) now() time.Time {
	return tc.current
}

func (tc *testClock) advance(d time.Duration) {
	tc.current = tc.current.Add(d)
}

func TestEpochCounter_Process(t *testing.T) {
	t.Parallel()

	t.Run("first value should return 0", func(t *testing.T) {
		t.Parallel()

		clock := newTestClock()
		counter := newEpochCounter(clock.now)

		assert.Equal(t, 0.0, counter.Process(100))
	})
	t.Run("increase should return the delta per second", func(t *testing.T) {
		t.Parallel()

		clock := newTestClock()
		counter := newEpochCounter(clock.now)

		_ = counter.Process(100)
		clock.advance(time.Second)
		assert.Equal(t, 50.0, counter.Process(150))

		clock.advance(10 * time.Second)
		assert.Equal(t, 5.0, counter.Process(200))
	})
	t.Run("reset should return 0 and rebase", func(t *testing.T) {
		t.Parallel()

		clock := newTestClock()
		counter := newEpochCounter(clock.now)

		_ = counter.Process(150)
		clock.advance(time.Second)
		assert.Equal(t, 0.0, counter.Process(100))

		clock.advance(time.Second)
		assert.Equal(t, 20.0, counter.Process(120))
	})
	t.Run("no elapsed time should return 0 and keep the baseline", func(t *testing.T) {
		t.Parallel()

		clock := newTestClock()
		counter := newEpochCounter(clock.now)

		_ = counter.Process(100)
		assert.Equal(t, 0.0, counter.Process(150))

		clock.advance(2 * time.Second)
		assert.Equal(t, 50.0, counter.Process(200))
	})
	t.Run("unchanged value should return 0", func(t *testing.T) {
		t.Parallel()

		clock := newTestClock()
		counter := newEpochCounter(clock.now)

		_ = counter.Process(100)
		clock.advance(time.Second)
		assert.Equal(t, 0.0, counter.Process(100))
	})
	t.Run("nil time func should default", func(t *testing.T) {
		t.Parallel()

		counter := newEpochCounter(nil)
		assert.NotNil(t, counter.timeFunc)
		assert.Equal(t, 0.0, counter.Process(1))
	})
}
