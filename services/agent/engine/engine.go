package engine

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/iulianpascalau/varnish-monitoring/services/agent/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const (
	metricNamespace = "Varnish"
	metricSeparator = "/"
	rateSuffix      = "/Second"

	defaultFetchTimeout  = 30 * time.Second
	defaultReportTimeout = 10 * time.Second
)

var log = logger.GetOrCreate("engine")

// ArgsAgentEngine holds the arguments needed to create the agent engine
type ArgsAgentEngine struct {
	Name          string
	Version       string
	Labels        map[string]string
	Source        StatsSource
	Catalog       Catalog
	Reporter      Reporter
	FetchTimeout  time.Duration
	ReportTimeout time.Duration
}

// agentEngine runs the poll cycles: fetch the Varnish counters, classify them and report them
type agentEngine struct {
	name          string
	version       string
	labels        map[string]string
	source        StatsSource
	catalog       Catalog
	reporter      Reporter
	fetchTimeout  time.Duration
	reportTimeout time.Duration
	firstReport   atomic.Bool
}

// NewAgentEngine creates a new engine instance
func NewAgentEngine(args ArgsAgentEngine) (*agentEngine, error) {
	if check.IfNil(args.Source) {
		return nil, errors.New("nil stats source")
	}
	if check.IfNil(args.Catalog) {
		return nil, errors.New("nil catalog")
	}
	if check.IfNil(args.Reporter) {
		return nil, errors.New("nil reporter")
	}

	labels := make(map[string]string, len(args.Labels))
	for name, label := range args.Labels {
		labels[name] = label
	}

	e := &agentEngine{
		name:          args.Name,
		version:       args.Version,
		labels:        labels,
		source:        args.Source,
		catalog:       args.Catalog,
		reporter:      args.Reporter,
		fetchTimeout:  args.FetchTimeout,
		reportTimeout: args.ReportTimeout,
	}
	if e.fetchTimeout <= 0 {
		e.fetchTimeout = defaultFetchTimeout
	}
	if e.reportTimeout <= 0 {
		e.reportTimeout = defaultReportTimeout
	}
	e.firstReport.Store(true)

	return e, nil
}

// Process runs one poll cycle. Errors are logged and the cycle is skipped, the next cycle starts from scratch
func (e *agentEngine) Process(ctx context.Context) {
	defer e.firstReport.Store(false)

	log.Debug("gathering Varnish metrics", "agent", e.name, "version", e.version)

	err := e.pollCycle(ctx)
	if err != nil {
		log.Error("failed to report", "agent", e.name, "version", e.version, "error", err)
	}
}

func (e *agentEngine) pollCycle(ctx context.Context) error {
	fetchCtx, cancelFetch := context.WithTimeout(ctx, e.fetchTimeout)
	defer cancelFetch()

	metrics, err := e.source.Fetch(fetchCtx)
	if err != nil {
		return err
	}

	results := e.reportMetrics(metrics)

	reportCtx, cancelReport := context.WithTimeout(ctx, e.reportTimeout)
	defer cancelReport()

	return e.reporter.Report(reportCtx, results)
}

func (e *agentEngine) reportMetrics(metrics []common.Metric) []common.ReportedMetric {
	isFirstReport := e.firstReport.Load()
	log.Debug("collected Varnish metrics", "count", len(metrics), "agent", e.name, "version", e.version)

	results := make([]common.ReportedMetric, 0, len(metrics))
	for _, metric := range metrics {
		if metric.IsBitmap {
			if isFirstReport {
				log.Debug("not reporting unsupported metric", "metric", e.buildMetricSpec(metric))
			}
			continue
		}

		mm := e.catalog.Resolve(metric)
		if mm == nil {
			if isFirstReport {
				log.Debug("not reporting identified metric", "metric", e.buildMetricSpec(metric))
			}
			continue
		}

		reported := common.ReportedMetric{
			Name:  e.buildMetricSpec(metric),
			Unit:  mm.Unit(),
			Value: metric.Value,
		}
		switch {
		case metric.IsCounter:
			reported.Unit += rateSuffix
			reported.Value = mm.ProcessCounter(metric.Value)
		case metric.IsGauge:
			reported.Unit += rateSuffix
		}

		log.Trace("metric", "name", reported.Name, "raw", metric.Value, "value", reported.Value, "unit", reported.Unit)
		results = append(results, reported)
	}

	log.Debug("classified metrics for reporting", "count", len(results), "agent", e.name, "version", e.version)

	return results
}

func (e *agentEngine) buildMetricSpec(metric common.Metric) string {
	label, found := e.labels[metric.Name]
	if !found {
		label = metric.Label
	}

	parts := make([]string, 0, 4)
	parts = append(parts, metricNamespace, metric.Type)
	if metric.HasIdent() {
		parts = append(parts, metric.Ident)
	}
	parts = append(parts, label)

	return strings.Join(parts, metricSeparator)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (e *agentEngine) IsInterfaceNil() bool {
	return e == nil
}
