package meta

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	unitField    = "unit"
	counterField = "counter"
)

// LoadCatalog reads the JSON catalog file and returns the metadata entries
func LoadCatalog(filepath string) (map[string]*MetricMeta, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file '%s': %w", filepath, err)
	}

	return ParseCatalog(data)
}

// ParseCatalog decodes a catalog document of the form
//
//	{ "<type>" or "<type>/<ident>": { "<stat name>": { "unit": "Requests", "counter": true } } }
//
// into a map keyed by "<type>/<stat name>" or "<type>/<ident>/<stat name>"
func ParseCatalog(data []byte) (map[string]*MetricMeta, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidCatalog)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level value should be an object", ErrInvalidCatalog)
	}

	entries := make(map[string]*MetricMeta)
	var errParse error
	root.ForEach(func(section, stats gjson.Result) bool {
		sectionName := strings.TrimSpace(section.String())
		if len(sectionName) == 0 || !stats.IsObject() {
			errParse = fmt.Errorf("%w: section '%s' should be a non empty name holding an object", ErrInvalidCatalog, section.String())
			return false
		}

		stats.ForEach(func(name, definition gjson.Result) bool {
			unit := definition.Get(unitField)
			if !definition.IsObject() || unit.Type != gjson.String || len(unit.String()) == 0 {
				errParse = fmt.Errorf("%w: missing unit for '%s%s%s'", ErrInvalidCatalog, sectionName, keySeparator, name.String())
				return false
			}

			key := sectionName + keySeparator + name.String()
			entries[key] = NewMetricMeta(unit.String(), definition.Get(counterField).Bool())

			return true
		})

		return errParse == nil
	})
	if errParse != nil {
		return nil, errParse
	}

	log.Debug("parsed metric catalog", "num entries", len(entries))

	return entries, nil
}
