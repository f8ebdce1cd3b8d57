package factory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iulianpascalau/varnish-monitoring/commonGo"
	"github.com/iulianpascalau/varnish-monitoring/services/agent/config"
	"github.com/iulianpascalau/varnish-monitoring/services/agent/engine"
	"github.com/iulianpascalau/varnish-monitoring/services/agent/meta"
	"github.com/iulianpascalau/varnish-monitoring/services/agent/reporter"
	"github.com/iulianpascalau/varnish-monitoring/services/agent/stats"
)

// AgentGUID identifies the Varnish plugin on the metrics backend
const AgentGUID = "com.iulianpascalau.varnish"

const defaultVarnishstatPath = "varnishstat"

type componentsHandler struct {
	source       engine.StatsSource
	catalog      engine.Catalog
	reporter     engine.Reporter
	engine       Engine
	mutCancel    sync.Mutex
	cancel       func()
	pollInterval time.Duration
}

// NewComponentsHandler creates a new components handler. The reportKey is the license key for the New Relic
// reporter or the service API key for the aggregation reporter
func NewComponentsHandler(
	reportKey string,
	version string,
	cfg config.Config,
) (*componentsHandler, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	entries, err := meta.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}
	catalog := meta.NewCatalog(entries)

	pollInterval := time.Duration(cfg.PollIntervalInSeconds) * time.Second
	source, err := createStatsSource(cfg.Stats)
	if err != nil {
		return nil, err
	}

	rep, err := createReporter(reportKey, version, pollInterval, cfg)
	if err != nil {
		return nil, err
	}

	argsEngine := engine.ArgsAgentEngine{
		Name:          cfg.Name,
		Version:       version,
		Labels:        cfg.Labels,
		Source:        source,
		Catalog:       catalog,
		Reporter:      rep,
		FetchTimeout:  time.Duration(cfg.Stats.TimeoutInSeconds) * time.Second,
		ReportTimeout: time.Duration(cfg.Report.TimeoutInSeconds) * time.Second,
	}
	eng, err := engine.NewAgentEngine(argsEngine)
	if err != nil {
		return nil, err
	}

	return &componentsHandler{
		source:       source,
		catalog:      catalog,
		reporter:     rep,
		engine:       eng,
		pollInterval: pollInterval,
	}, nil
}

func createStatsSource(cfg config.StatsConfig) (engine.StatsSource, error) {
	timeout := time.Duration(cfg.TimeoutInSeconds) * time.Second

	switch cfg.Source {
	case config.SourceCommand:
		path := cfg.VarnishstatPath
		if len(path) == 0 {
			path = defaultVarnishstatPath
		}

		return stats.NewCommandSource(stats.ArgsCommandSource{
			VarnishstatPath: path,
			Instance:        cfg.Instance,
			Timeout:         timeout,
		})
	case config.SourceHTTP:
		return stats.NewHTTPSource(cfg.URL, timeout)
	default:
		return nil, fmt.Errorf("%w: unknown stats source '%s'", config.ErrInvalidConfig, cfg.Source)
	}
}

func createReporter(reportKey string, version string, pollInterval time.Duration, cfg config.Config) (engine.Reporter, error) {
	timeout := time.Duration(cfg.Report.TimeoutInSeconds) * time.Second

	switch cfg.Report.Kind {
	case config.ReporterNewRelic:
		return reporter.NewNewRelicReporter(reporter.ArgsNewRelicReporter{
			Endpoint:        cfg.Report.Endpoint,
			LicenseKey:      reportKey,
			ComponentName:   cfg.Name,
			GUID:            AgentGUID,
			Version:         version,
			Timeout:         timeout,
			InitialDuration: pollInterval,
		})
	case config.ReporterAggregation:
		return reporter.NewHTTPReporter(reporter.ArgsHTTPReporter{
			Endpoint:       cfg.Report.Endpoint,
			APIKey:         reportKey,
			AgentID:        cfg.Name,
			NumAggregation: cfg.Report.NumAggregation,
			Timeout:        timeout,
		})
	default:
		return nil, fmt.Errorf("%w: unknown reporter kind '%s'", config.ErrInvalidConfig, cfg.Report.Kind)
	}
}

// GetStatsSource returns the stats source component
func (ch *componentsHandler) GetStatsSource() engine.StatsSource {
	return ch.source
}

// GetCatalog returns the metric metadata catalog
func (ch *componentsHandler) GetCatalog() engine.Catalog {
	return ch.catalog
}

// GetReporter returns the reporter component
func (ch *componentsHandler) GetReporter() engine.Reporter {
	return ch.reporter
}

// GetEngine returns the engine component
func (ch *componentsHandler) GetEngine() Engine {
	return ch.engine
}

// Start starts the poll cycles
func (ch *componentsHandler) Start() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		return
	}

	var ctx context.Context
	ctx, ch.cancel = context.WithCancel(context.Background())

	commonGo.CronJobStarter(ctx, ch.engine.Process, ch.pollInterval)
}

// Close stops the poll cycles
func (ch *componentsHandler) Close() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel == nil {
		return
	}

	ch.cancel()
	ch.cancel = nil
}
