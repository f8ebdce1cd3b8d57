package engine

import (
	"context"

	"github.com/iulianpascalau/varnish-monitoring/services/agent/common"
	"github.com/iulianpascalau/varnish-monitoring/services/agent/meta"
)

// StatsSource defines the component able to fetch the current Varnish counters
type StatsSource interface {
	// Fetch returns the current metrics. Any error means the cycle has nothing to report
	Fetch(ctx context.Context) ([]common.Metric, error)
	IsInterfaceNil() bool
}

// Catalog defines the metric metadata lookup
type Catalog interface {
	// Resolve returns the metadata for the metric or nil if the metric is not configured, specializing generic
	// entries for identified metrics on first use
	Resolve(metric common.Metric) *meta.MetricMeta
	IsInterfaceNil() bool
}

// Reporter defines the interface for pushing the classified metrics to the metrics backend
type Reporter interface {
	// Report sends all the metrics of one poll cycle. Failures are logged by the caller and not retried
	Report(ctx context.Context, metrics []common.ReportedMetric) error
	IsInterfaceNil() bool
}
