package testsCommon

import (
	"context"

	"github.com/iulianpascalau/varnish-monitoring/services/agent/common"
)

// StatsSourceStub -
type StatsSourceStub struct {
	FetchHandler func(ctx context.Context) ([]common.Metric, error)
}

// Fetch -
func (stub *StatsSourceStub) Fetch(ctx context.Context) ([]common.Metric, error) {
	if stub.FetchHandler != nil {
		return stub.FetchHandler(ctx)
	}

	return make([]common.Metric, 0), nil
}

// IsInterfaceNil -
func (stub *StatsSourceStub) IsInterfaceNil() bool {
	return stub == nil
}
