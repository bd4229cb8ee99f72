package readiness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// DefaultPollInterval is the fixed interval between probes.
const DefaultPollInterval = 10 * time.Second

// PollForReadiness polls at DefaultPollInterval until poll reports done or deadline elapses.
func PollForReadiness(
	ctx context.Context,
	deadline time.Duration,
	poll func(context.Context) (bool, error),
) error {
	return PollForReadinessEvery(ctx, DefaultPollInterval, deadline, poll)
}

// PollForReadinessEvery polls immediately and then every interval until poll reports done,
// poll returns an error, or deadline elapses. Exceeding the deadline returns ErrTimeoutExceeded.
func PollForReadinessEvery(
	ctx context.Context,
	interval time.Duration,
	deadline time.Duration,
	poll func(context.Context) (bool, error),
) error {
	err := wait.PollUntilContextTimeout(ctx, interval, deadline, true, poll)
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return fmt.Errorf("polling cancelled: %w", ctx.Err())
	}

	if wait.Interrupted(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrTimeoutExceeded, deadline)
	}

	return fmt.Errorf("polling failed: %w", err)
}
