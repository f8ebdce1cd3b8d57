package stats

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/iulianpascalau/varnish-monitoring/services/agent/common"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const jsonOutputArg = "-j"
const instanceArg = "-n"

var log = logger.GetOrCreate("stats")

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ArgsCommandSource holds the arguments needed to run varnishstat locally
type ArgsCommandSource struct {
	VarnishstatPath string
	Instance        string
	Timeout         time.Duration
}

type commandSource struct {
	path    string
	args    []string
	timeout time.Duration
	run     commandRunner
}

// NewCommandSource creates a stats source that runs `varnishstat -j` on every fetch
func NewCommandSource(args ArgsCommandSource) (*commandSource, error) {
	if len(args.VarnishstatPath) == 0 {
		return nil, ErrEmptyVarnishstatPath
	}

	cmdArgs := []string{jsonOutputArg}
	if len(args.Instance) > 0 {
		cmdArgs = append(cmdArgs, instanceArg, args.Instance)
	}

	return &commandSource{
		path:    args.VarnishstatPath,
		args:    cmdArgs,
		timeout: args.Timeout,
		run:     runCommand,
	}, nil
}

// Fetch runs varnishstat and parses its output
func (cs *commandSource) Fetch(ctx context.Context) ([]common.Metric, error) {
	if cs.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cs.timeout)
		defer cancel()
	}

	output, err := cs.run(ctx, cs.path, cs.args...)
	if err != nil {
		return nil, fmt.Errorf("%w: running %s %s: %w", ErrFetch, cs.path, strings.Join(cs.args, " "), err)
	}

	return ParseVarnishStats(output)
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	output, err := exec.CommandContext(ctx, name, args...).Output()
	if err == nil {
		return output, nil
	}

	exitErr := &exec.ExitError{}
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		return nil, fmt.Errorf("%w, stderr: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
	}

	return nil, err
}

// IsInterfaceNil returns true if the value under the interface is nil
func (cs *commandSource) IsInterfaceNil() bool {
	return cs == nil
}
