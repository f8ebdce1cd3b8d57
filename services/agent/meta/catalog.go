package meta

import (
	"sync"

	"github.com/iulianpascalau/varnish-monitoring/services/agent/common"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const keySeparator = "/"

var log = logger.GetOrCreate("meta")

// catalog maps "type/name" and "type/ident/name" keys to the metric metadata
type catalog struct {
	mut     sync.RWMutex
	entries map[string]*MetricMeta
}

// NewCatalog creates a catalog holding a copy of the provided entries map
func NewCatalog(entries map[string]*MetricMeta) *catalog {
	c := &catalog{
		entries: make(map[string]*MetricMeta, len(entries)),
	}
	for key, mm := range entries {
		if mm == nil {
			continue
		}
		c.entries[key] = mm
	}

	return c
}

// GenericKey returns the "type/name" key of the metric
func GenericKey(metric common.Metric) string {
	return metric.Type + keySeparator + metric.Name
}

// SpecificKey returns the "type/ident/name" key of the metric
func SpecificKey(metric common.Metric) string {
	return metric.Type + keySeparator + metric.Ident + keySeparator + metric.Name
}

// Resolve returns the metadata of the provided metric or nil if the metric is not configured.
// An identified metric configured only through its generic key gets a dedicated clone stored under its
// specific key so each identified instance keeps its own counter state.
func (c *catalog) Resolve(metric common.Metric) *MetricMeta {
	genericKey := GenericKey(metric)

	c.mut.RLock()
	generic := c.entries[genericKey]
	if generic == nil || !metric.HasIdent() {
		c.mut.RUnlock()
		return generic
	}

	specificKey := SpecificKey(metric)
	specific, found := c.entries[specificKey]
	c.mut.RUnlock()
	if found {
		return specific
	}

	c.mut.Lock()
	defer c.mut.Unlock()

	specific, found = c.entries[specificKey]
	if found {
		return specific
	}

	specific = generic.Clone()
	c.entries[specificKey] = specific
	log.Trace("specialized metric metadata", "generic", genericKey, "specific", specificKey)

	return specific
}

// Get returns the entry stored under the provided key
func (c *catalog) Get(key string) (*MetricMeta, bool) {
	c.mut.RLock()
	defer c.mut.RUnlock()

	mm, found := c.entries[key]
	return mm, found
}

// Len returns the number of entries, specialized ones included
func (c *catalog) Len() int {
	c.mut.RLock()
	defer c.mut.RUnlock()

	return len(c.entries)
}

// IsInterfaceNil returns true if there is no value under the interface
func (c *catalog) IsInterfaceNil() bool {
	return c == nil
}
