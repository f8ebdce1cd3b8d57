package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/iulianpascalau/varnish-monitoring/services/agent/common"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const activeHeartbeatName = "Active"
const separator = "."
const valueType = "float64"

var log = logger.GetOrCreate("reporter")

// ArgsHTTPReporter holds the arguments needed to push the metrics to the aggregation service
type ArgsHTTPReporter struct {
	Endpoint       string
	APIKey         string
	AgentID        string
	NumAggregation int
	Timeout        time.Duration
}

type httpReporter struct {
	endpoint       string
	apiKey         string
	agentID        string
	numAggregation int
	client         *http.Client
}

// NewHTTPReporter creates a new reporter that pushes to the aggregation service report endpoint
func NewHTTPReporter(args ArgsHTTPReporter) (*httpReporter, error) {
	if len(args.Endpoint) == 0 {
		return nil, ErrEmptyEndpoint
	}
	if len(args.APIKey) == 0 {
		return nil, ErrEmptyKey
	}
	if len(args.AgentID) == 0 {
		return nil, ErrEmptyName
	}

	numAggregation := args.NumAggregation
	if numAggregation < 1 {
		numAggregation = 1
	}

	return &httpReporter{
		endpoint:       args.Endpoint,
		apiKey:         args.APIKey,
		agentID:        args.AgentID,
		numAggregation: numAggregation,
		client: &http.Client{
			Timeout: args.Timeout,
		},
	}, nil
}

// Report sends the metrics of one poll cycle together with the agent heartbeat
func (r *httpReporter) Report(ctx context.Context, metrics []common.ReportedMetric) error {
	payload := common.AggregationPayload{
		Metrics: make(map[string]common.AggregationMetric, len(metrics)+1), // +1 for heartbeat
	}

	for _, metric := range metrics {
		payload.Metrics[r.agentID+separator+metricKey(metric)] = common.AggregationMetric{
			Value:          strconv.FormatFloat(metric.Value, 'f', -1, 64),
			Type:           valueType,
			NumAggregation: r.numAggregation,
		}
	}

	payload.Metrics[r.agentID+separator+activeHeartbeatName] = common.AggregationMetric{
		Value:          "true",
		Type:           "bool",
		NumAggregation: 1,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal report payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create report request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("network error sending report: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server rejected report with status code: %d", resp.StatusCode)
	}

	log.Debug("successfully sent metrics report", "endpoint", r.endpoint, "metrics_count", len(payload.Metrics))

	return nil
}

func metricKey(metric common.ReportedMetric) string {
	return metric.Name + "[" + metric.Unit + "]"
}

// IsInterfaceNil returns true if the value under the interface is nil
func (r *httpReporter) IsInterfaceNil() bool {
	return r == nil
}
