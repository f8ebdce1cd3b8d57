package meta

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `{
	"MAIN": {
		"cache_hit": {"unit": "Requests", "counter": true},
		"n_object": {"unit": "Objects"}
	},
	"VBE/boot.web1": {
		"req": {"unit": "Requests", "counter": true}
	}
}`

func TestParseCatalog(t *testing.T) {
	t.Parallel()

	t.Run("malformed JSON should error", func(t *testing.T) {
		t.Parallel()

		entries, err := ParseCatalog([]byte(`{"MAIN": `))
		assert.Nil(t, entries)
		assert.True(t, errors.Is(err, ErrInvalidCatalog))
	})
	t.Run("non object root should error", func(t *testing.T) {
		t.Parallel()

		entries, err := ParseCatalog([]byte(`["MAIN"]`))
		assert.Nil(t, entries)
		assert.ErrorContains(t, err, "top level value should be an object")
	})
	t.Run("non object section should error", func(t *testing.T) {
		t.Parallel()

		entries, err := ParseCatalog([]byte(`{"MAIN": 1}`))
		assert.Nil(t, entries)
		assert.ErrorContains(t, err, "section 'MAIN'")
	})
	t.Run("missing unit should error", func(t *testing.T) {
		t.Parallel()

		entries, err := ParseCatalog([]byte(`{"MAIN": {"cache_hit": {"counter": true}}}`))
		assert.Nil(t, entries)
		assert.ErrorContains(t, err, "missing unit for 'MAIN/cache_hit'")
	})
	t.Run("should work", func(t *testing.T) {
		t.Parallel()

		entries, err := ParseCatalog([]byte(testCatalog))
		require.NoError(t, err)
		require.Len(t, entries, 3)

		assert.Equal(t, "Requests", entries["MAIN/cache_hit"].Unit())
		assert.True(t, entries["MAIN/cache_hit"].HasCounter())
		assert.Equal(t, "Objects", entries["MAIN/n_object"].Unit())
		assert.False(t, entries["MAIN/n_object"].HasCounter())
		assert.True(t, entries["VBE/boot.web1/req"].HasCounter())
	})
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	t.Run("missing file should error", func(t *testing.T) {
		t.Parallel()

		entries, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.json"))
		assert.Nil(t, entries)
		assert.ErrorContains(t, err, "failed to read catalog file")
	})
	t.Run("should work", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "catalog.json")
		require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0644))

		entries, err := LoadCatalog(path)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})
}
