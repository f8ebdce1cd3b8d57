package meta

import (
	"sync"
	"time"
)

// epochCounter converts a cumulative, monotonically increasing value into a per second rate.
// The first processed value only sets the baseline and yields 0. A value lower than the previous one is
// treated as a counter reset: the baseline moves to the new value and 0 is returned.
type epochCounter struct {
	mut       sync.Mutex
	timeFunc  func() time.Time
	hasValue  bool
	lastValue float64
	lastTime  time.Time
}

func newEpochCounter(timeFunc func() time.Time) *epochCounter {
	if timeFunc == nil {
		timeFunc = time.Now
	}

	return &epochCounter{
		timeFunc: timeFunc,
	}
}

// Process returns the rate of the provided cumulative value since the previous call
func (ec *epochCounter) Process(value float64) float64 {
	ec.mut.Lock()
	defer ec.mut.Unlock()

	now := ec.timeFunc()
	if !ec.hasValue {
		ec.rebase(value, now)
		return 0
	}

	if value < ec.lastValue {
		ec.rebase(value, now)
		return 0
	}

	elapsed := now.Sub(ec.lastTime).Seconds()
	if elapsed <= 0 {
		return 0
	}

	rate := (value - ec.lastValue) / elapsed
	ec.rebase(value, now)

	return rate
}

func (ec *epochCounter) rebase(value float64, now time.Time) {
	ec.hasValue = true
	ec.lastValue = value
	ec.lastTime = now
}
