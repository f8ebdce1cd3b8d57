package meta

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewMetricMeta(t *testing.T) {
	t.Parallel()

	t.Run("without counter", func(t *testing.T) {
		t.Parallel()

		mm := NewMetricMeta("Requests", false)
		assert.False(t, mm.IsInterfaceNil())
		assert.Equal(t, "Requests", mm.Unit())
		assert.False(t, mm.HasCounter())
	})
	t.Run("with counter", func(t *testing.T) {
		t.Parallel()

		mm := NewMetricMeta("Requests", true)
		assert.True(t, mm.HasCounter())
	})
}

func TestMetricMeta_ProcessCounter(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	mm := newMetricMetaWithTimeFunc("Requests", false, clock.now)

	assert.Equal(t, 0.0, mm.ProcessCounter(100))
	assert.True(t, mm.HasCounter())

	clock.advance(time.Second)
	assert.Equal(t, 50.0, mm.ProcessCounter(150))

	clock.advance(time.Second)
	assert.Equal(t, 0.0, mm.ProcessCounter(100))
}

func TestMetricMeta_Clone(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	original := newMetricMetaWithTimeFunc("Bytes", true, clock.now)
	_ = original.ProcessCounter(1000)

	clone := original.Clone()
	assert.NotSame(t, original, clone)
	assert.Equal(t, "Bytes", clone.Unit())
	assert.True(t, clone.HasCounter())
	assert.NotSame(t, original.counter, clone.counter)

	clock.advance(time.Second)
	// the clone starts from a fresh baseline
	assert.Equal(t, 0.0, clone.ProcessCounter(5000))
	assert.Equal(t, 100.0, original.ProcessCounter(1100))
}

func TestMetricMeta_IsInterfaceNil(t *testing.T) {
	t.Parallel()

	var mm *MetricMeta
	assert.True(t, mm.IsInterfaceNil())
}
