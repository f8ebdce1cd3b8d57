package testsCommon

import (
	"context"

	"github.com/iulianpascalau/varnish-monitoring/services/agent/common"
)

// ReporterStub -
type ReporterStub struct {
	ReportHandler func(ctx context.Context, metrics []common.ReportedMetric) error
}

// Report -
func (stub *ReporterStub) Report(ctx context.Context, metrics []common.ReportedMetric) error {
	if stub.ReportHandler != nil {
		return stub.ReportHandler(ctx, metrics)
	}

	return nil
}

// IsInterfaceNil -
func (stub *ReporterStub) IsInterfaceNil() bool {
	return stub == nil
}
