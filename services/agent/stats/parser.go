package stats

import (
	"fmt"
	"strings"

	"github.com/iulianpascalau/varnish-monitoring/services/agent/common"
	"github.com/tidwall/gjson"
)

const (
	countersField    = "counters"
	typeField        = "type"
	identField       = "ident"
	flagField        = "flag"
	descriptionField = "description"
	valueField       = "value"
	statSeparator    = "."
)

// ParseVarnishStats converts the `varnishstat -j` output into metrics. Both the flat layout (Varnish up to 6.4)
// and the "counters" wrapped layout (Varnish 6.5+) are accepted. Entries without a numeric value are ignored.
func ParseVarnishStats(data []byte) ([]common.Metric, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %w", ErrFetch, errMalformedStats("invalid JSON"))
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: %w", ErrFetch, errMalformedStats("top level value should be an object"))
	}

	counters := root
	wrapped := root.Get(countersField)
	if wrapped.IsObject() {
		counters = wrapped
	}

	metrics := make([]common.Metric, 0)
	counters.ForEach(func(key, entry gjson.Result) bool {
		if !entry.IsObject() {
			return true
		}

		value := entry.Get(valueField)
		if value.Type != gjson.Number {
			log.Trace("ignoring stat without a numeric value", "key", key.String())
			return true
		}

		metric := splitStatKey(key.String(), entry.Get(typeField).String(), entry.Get(identField).String())
		metric.Label = entry.Get(descriptionField).String()
		metric.Value = value.Float()
		setFlags(&metric, entry.Get(flagField).String())

		metrics = append(metrics, metric)
		return true
	})

	return metrics, nil
}

// splitStatKey derives the type, ident and name of a stat. When the producer does not provide the type and ident
// fields, the key "TYPE.ident.parts.name" is split on the first and the last separator.
func splitStatKey(key string, statType string, ident string) common.Metric {
	if len(statType) > 0 {
		name := strings.TrimPrefix(key, statType+statSeparator)
		if len(ident) > 0 {
			name = strings.TrimPrefix(name, ident+statSeparator)
		}

		return common.Metric{
			Type:  statType,
			Ident: ident,
			Name:  name,
		}
	}

	first := strings.Index(key, statSeparator)
	last := strings.LastIndex(key, statSeparator)
	if first < 0 {
		return common.Metric{
			Name: key,
		}
	}

	metric := common.Metric{
		Type: key[:first],
		Name: key[last+1:],
	}
	if last > first {
		metric.Ident = key[first+1 : last]
	}

	return metric
}

func setFlags(metric *common.Metric, flag string) {
	switch flag {
	case "c", "a":
		metric.IsCounter = true
	case "g":
		metric.IsGauge = true
	case "b":
		metric.IsBitmap = true
	}
}
