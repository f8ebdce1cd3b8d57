package factory

import "context"

// Engine defines the agent's operations
type Engine interface {
	// Process runs one Varnish poll cycle: fetch, classify and report
	Process(ctx context.Context)
	IsInterfaceNil() bool
}
