package common

// Metric is a single raw stat observation fetched from Varnish during one poll cycle
type Metric struct {
	Type      string
	Ident     string
	Name      string
	Label     string
	Value     float64
	IsCounter bool
	IsGauge   bool
	IsBitmap  bool
}

// HasIdent returns true if the metric belongs to a specific instance (a backend, a storage, etc.)
func (m Metric) HasIdent() bool {
	return len(m.Ident) > 0
}

// ReportedMetric is a classified metric, ready to be pushed to the metrics backend
type ReportedMetric struct {
	Name  string
	Unit  string
	Value float64
}

// AggregationPayload is the payload sent to the reporting aggregation service
type AggregationPayload struct {
	Metrics map[string]AggregationMetric `json:"metrics"`
}

// AggregationMetric defines a recorded metric value
type AggregationMetric struct {
	Value          string `json:"value"`
	Type           string `json:"type"`
	NumAggregation int    `json:"numAggregation"`
}

// NewRelicPayload is the body accepted by the New Relic plugin API
type NewRelicPayload struct {
	Agent      NewRelicAgent       `json:"agent"`
	Components []NewRelicComponent `json:"components"`
}

// NewRelicAgent describes the process sending the metrics
type NewRelicAgent struct {
	Host    string `json:"host"`
	PID     int    `json:"pid"`
	Version string `json:"version"`
}

// NewRelicComponent holds the metrics of one monitored Varnish instance
type NewRelicComponent struct {
	Name     string             `json:"name"`
	GUID     string             `json:"guid"`
	Duration int                `json:"duration"`
	Metrics  map[string]float64 `json:"metrics"`
}
