package oc

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
	"k8s.io/cli-runtime/pkg/genericiooptions"
)

// Runner executes the cluster CLI with the given streams.
type Runner interface {
	Run(ctx context.Context, streams genericiooptions.IOStreams, args ...string) error
}

// ExecRunner runs the CLI binary as a child process.
type ExecRunner struct {
	Binary string
}

// Run executes the binary and returns an error when it exits non-zero.
func (r *ExecRunner) Run(ctx context.Context, streams genericiooptions.IOStreams, args ...string) error {
	cmd := exec.CommandContext(ctx, r.Binary, args...) //nolint:gosec // binary comes from operator config
	cmd.Stdin = streams.In
	cmd.Stdout = streams.Out
	cmd.Stderr = streams.ErrOut

	logrus.WithField("binary", r.Binary).Debug(strings.Join(args, " "))

	err := cmd.Run()
	if err != nil {
		return fmt.Errorf("run %s: %w", r.Binary, err)
	}

	return nil
}
