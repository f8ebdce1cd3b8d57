package meta

import (
	"sync"
	"time"
)

// MetricMeta describes how a class of Varnish metrics is reported: its unit and, for counters, the state
// needed to turn the cumulative value into a rate
type MetricMeta struct {
	unit     string
	timeFunc func() time.Time

	mutCounter sync.Mutex
	counter    *epochCounter
}

// NewMetricMeta creates a catalog entry. If withCounter is set, the rate converter is created right away,
// otherwise it is created on the first counter value processed
func NewMetricMeta(unit string, withCounter bool) *MetricMeta {
	return newMetricMetaWithTimeFunc(unit, withCounter, time.Now)
}

func newMetricMetaWithTimeFunc(unit string, withCounter bool, timeFunc func() time.Time) *MetricMeta {
	mm := &MetricMeta{
		unit:     unit,
		timeFunc: timeFunc,
	}
	if withCounter {
		mm.counter = newEpochCounter(timeFunc)
	}

	return mm
}

// Unit returns the display unit of the metric
func (mm *MetricMeta) Unit() string {
	return mm.unit
}

// HasCounter returns true if the rate converter was already created
func (mm *MetricMeta) HasCounter() bool {
	mm.mutCounter.Lock()
	defer mm.mutCounter.Unlock()

	return mm.counter != nil
}

// ProcessCounter feeds the cumulative value to the rate converter and returns the per second rate
func (mm *MetricMeta) ProcessCounter(value float64) float64 {
	mm.mutCounter.Lock()
	if mm.counter == nil {
		mm.counter = newEpochCounter(mm.timeFunc)
	}
	counter := mm.counter
	mm.mutCounter.Unlock()

	return counter.Process(value)
}

// Clone returns a new entry with the same unit. The clone never shares the rate state with the original
func (mm *MetricMeta) Clone() *MetricMeta {
	return newMetricMetaWithTimeFunc(mm.unit, mm.HasCounter(), mm.timeFunc)
}

// IsInterfaceNil returns true if there is no value under the interface
func (mm *MetricMeta) IsInterfaceNil() bool {
	return mm == nil
}
