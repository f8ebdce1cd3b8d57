package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/iulianpascalau/varnish-monitoring/services/agent/common"
	"github.com/tidwall/gjson"
)

const componentPrefix = "Component/"
const licenseKeyHeader = "X-License-Key"
const maxErrorBodySize = 4096

// ArgsNewRelicReporter holds the arguments needed to push the metrics to the New Relic plugin API
type ArgsNewRelicReporter struct {
	Endpoint        string
	LicenseKey      string
	ComponentName   string
	GUID            string
	Version         string
	Timeout         time.Duration
	InitialDuration time.Duration
}

type newRelicReporter struct {
	endpoint   string
	licenseKey string
	agent      common.NewRelicAgent
	name       string
	guid       string
	client     *http.Client
	timeFunc   func() time.Time

	mutDuration     sync.Mutex
	lastSuccess     time.Time
	initialDuration time.Duration
}

// NewNewRelicReporter creates a reporter that posts one component per poll cycle to the New Relic plugin API
func NewNewRelicReporter(args ArgsNewRelicReporter) (*newRelicReporter, error) {
	if len(args.Endpoint) == 0 {
		return nil, ErrEmptyEndpoint
	}
	if len(args.LicenseKey) == 0 {
		return nil, ErrEmptyKey
	}
	if len(args.ComponentName) == 0 || len(args.GUID) == 0 {
		return nil, ErrEmptyName
	}

	host, err := os.Hostname()
	if err != nil {
		log.Warn("could not read the host name", "error", err)
		host = "unknown"
	}

	return &newRelicReporter{
		endpoint:   args.Endpoint,
		licenseKey: args.LicenseKey,
		agent: common.NewRelicAgent{
			Host:    host,
			PID:     os.Getpid(),
			Version: args.Version,
		},
		name: args.ComponentName,
		guid: args.GUID,
		client: &http.Client{
			Timeout: args.Timeout,
		},
		timeFunc:        time.Now,
		initialDuration: args.InitialDuration,
	}, nil
}

// Report posts the metrics of one poll cycle. The component duration covers the time since the last accepted post
func (r *newRelicReporter) Report(ctx context.Context, metrics []common.ReportedMetric) error {
	now := r.timeFunc()

	component := common.NewRelicComponent{
		Name:     r.name,
		GUID:     r.guid,
		Duration: r.durationSinceLastSuccess(now),
		Metrics:  make(map[string]float64, len(metrics)),
	}
	for _, metric := range metrics {
		component.Metrics[componentPrefix+metricKey(metric)] = metric.Value
	}

	payload := common.NewRelicPayload{
		Agent:      r.agent,
		Components: []common.NewRelicComponent{component},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal New Relic payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create New Relic request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(licenseKeyHeader, r.licenseKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("network error sending metrics to New Relic: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		reason := gjson.GetBytes(respBody, "error").String()
		if len(reason) == 0 {
			reason = http.StatusText(resp.StatusCode)
		}

		return fmt.Errorf("new relic rejected the metrics with status code %d: %s", resp.StatusCode, reason)
	}

	r.mutDuration.Lock()
	r.lastSuccess = now
	r.mutDuration.Unlock()

	log.Debug("successfully sent metrics to New Relic", "component", r.name, "metrics_count", len(component.Metrics))

	return nil
}

func (r *newRelicReporter) durationSinceLastSuccess(now time.Time) int {
	r.mutDuration.Lock()
	defer r.mutDuration.Unlock()

	if r.lastSuccess.IsZero() {
		return int(math.Round(r.initialDuration.Seconds()))
	}

	return int(math.Round(now.Sub(r.lastSuccess).Seconds()))
}

// IsInterfaceNil returns true if the value under the interface is nil
func (r *newRelicReporter) IsInterfaceNil() bool {
	return r == nil
}
