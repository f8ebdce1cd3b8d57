package stats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iulianpascalau/varnish-monitoring/services/agent/common"
)

type httpSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates a stats source that GETs the varnishstat JSON document from the provided URL
func NewHTTPSource(url string, timeout time.Duration) (*httpSource, error) {
	if len(url) == 0 {
		return nil, ErrEmptyURL
	}

	return &httpSource{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Fetch requests the stats document and parses it
func (hs *httpSource) Fetch(ctx context.Context) ([]common.Metric, error) {
	body, err := hs.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, hs.url, err)
	}

	return ParseVarnishStats(body)
}

func (hs *httpSource) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hs.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hs.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errStatusNotOK(resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (hs *httpSource) IsInterfaceNil() bool {
	return hs == nil
}
