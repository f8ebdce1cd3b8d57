package stats

import (
	"errors"
	"testing"

	"github.com/iulianpascalau/varnish-monitoring/services/agent/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyStats = `{
	"timestamp": "2024-03-01T10:00:00",
	"MAIN.cache_hit": {"description": "Cache hits", "type": "MAIN", "flag": "c", "format": "i", "value": 1500},
	"MAIN.n_object": {"description": "object structs made", "type": "MAIN", "flag": "g", "format": "i", "value": 42},
	"VBE.boot.web1.req": {"description": "Backend requests sent", "type": "VBE", "ident": "boot.web1", "flag": "c", "format": "i", "value": 77},
	"VBE.boot.web1.happy": {"description": "Happy health probes", "type": "VBE", "ident": "boot.web1", "flag": "b", "format": "b", "value": 18446744073709551615},
	"MAIN.broken": {"description": "no value", "type": "MAIN", "flag": "c"}
}`

const wrappedStats = `{
	"version": 1,
	"timestamp": "2024-03-01T10:00:00",
	"counters": {
		"MAIN.uptime": {"description": "Child process uptime", "flag": "c", "format": "d", "value": 3600},
		"SMA.s0.g_bytes": {"description": "Bytes outstanding", "flag": "g", "format": "B", "value": 2048},
		"VBE.boot.default.bereq_hdrbytes": {"description": "Request header bytes", "flag": "a", "format": "B", "value": 10},
		"uptime": {"description": "no separator", "flag": "", "format": "i", "value": 1}
	}
}`

func TestParseVarnishStats(t *testing.T) {
	t.Parallel()

	t.Run("invalid JSON should error", func(t *testing.T) {
		t.Parallel()

		metrics, err := ParseVarnishStats([]byte(`{"MAIN.cache_hit": `))
		assert.Nil(t, metrics)
		assert.True(t, errors.Is(err, ErrFetch))
		assert.Contains(t, err.Error(), "invalid JSON")
	})
	t.Run("non object should error", func(t *testing.T) {
		t.Parallel()

		metrics, err := ParseVarnishStats([]byte(`[1, 2]`))
		assert.Nil(t, metrics)
		assert.True(t, errors.Is(err, ErrFetch))
	})
	t.Run("empty object should return no metrics", func(t *testing.T) {
		t.Parallel()

		metrics, err := ParseVarnishStats([]byte(`{}`))
		assert.NoError(t, err)
		assert.Empty(t, metrics)
	})
	t.Run("legacy layout", func(t *testing.T) {
		t.Parallel()

		metrics, err := ParseVarnishStats([]byte(legacyStats))
		require.NoError(t, err)
		require.Len(t, metrics, 4)

		assert.Equal(t, common.Metric{Type: "MAIN", Name: "cache_hit", Label: "Cache hits", Value: 1500, IsCounter: true}, metrics[0])
		assert.Equal(t, common.Metric{Type: "MAIN", Name: "n_object", Label: "object structs made", Value: 42, IsGauge: true}, metrics[1])
		assert.Equal(t, common.Metric{Type: "VBE", Ident: "boot.web1", Name: "req", Label: "Backend requests sent", Value: 77, IsCounter: true}, metrics[2])
		assert.True(t, metrics[3].IsBitmap)
		assert.Equal(t, "happy", metrics[3].Name)
	})
	t.Run("wrapped layout", func(t *testing.T) {
		t.Parallel()

		metrics, err := ParseVarnishStats([]byte(wrappedStats))
		require.NoError(t, err)
		require.Len(t, metrics, 4)

		assert.Equal(t, common.Metric{Type: "MAIN", Name: "uptime", Label: "Child process uptime", Value: 3600, IsCounter: true}, metrics[0])
		assert.Equal(t, common.Metric{Type: "SMA", Ident: "s0", Name: "g_bytes", Label: "Bytes outstanding", Value: 2048, IsGauge: true}, metrics[1])
		assert.Equal(t, common.Metric{Type: "VBE", Ident: "boot.default", Name: "bereq_hdrbytes", Label: "Request header bytes", Value: 10, IsCounter: true}, metrics[2])
		assert.Equal(t, common.Metric{Name: "uptime", Label: "no separator", Value: 1}, metrics[3])
	})
}

func TestSplitStatKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, common.Metric{Type: "MAIN", Name: "cache_hit"}, splitStatKey("MAIN.cache_hit", "", ""))
	assert.Equal(t, common.Metric{Type: "LCK", Ident: "backend", Name: "creat"}, splitStatKey("LCK.backend.creat", "", ""))
	assert.Equal(t, common.Metric{Type: "VBE", Ident: "boot.web1", Name: "conn"}, splitStatKey("VBE.boot.web1.conn", "VBE", "boot.web1"))
	assert.Equal(t, common.Metric{Type: "MAIN", Name: "sess_conn"}, splitStatKey("MAIN.sess_conn", "MAIN", ""))
}
