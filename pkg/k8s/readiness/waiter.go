package readiness

import (
	"context"
	"fmt"
	"time"

	"github.com/mdpipeline/mdpctl/pkg/k8s"
	"github.com/sirupsen/logrus"
)

// Waiter evaluates readiness checks against a cluster.
type Waiter struct {
	client   k8s.Client
	interval time.Duration
	now      func() time.Time
}

// NewWaiter creates a Waiter. Checks without their own interval use interval,
// or DefaultPollInterval when interval is zero.
func NewWaiter(client k8s.Client, interval time.Duration) *Waiter {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Waiter{client: client, interval: interval, now: time.Now}
}

// Wait polls check until it is Ready or Failed, or its timeout elapses.
func (w *Waiter) Wait(ctx context.Context, check Check) Result {
	interval := check.Interval
	if interval <= 0 {
		interval = w.interval
	}

	start := w.now()
	result := Result{State: StatePending}

	var checkErr error

	err := PollForReadinessEvery(ctx, interval, check.Timeout, func(ctx context.Context) (bool, error) {
		obs, err := evaluate(ctx, w.client, check)
		if err != nil {
			checkErr = err

			return false, err
		}

		result.Polls++
		result.State = obs.state
		result.Detail = obs.detail

		logrus.WithFields(logrus.Fields{
			"target": check.Target(),
			"poll":   result.Polls,
			"state":  obs.state,
		}).Debug(obs.detail)

		return obs.state != StatePending, nil
	})

	result.Elapsed = w.now().Sub(start)

	switch {
	case checkErr != nil:
		result.State = StateFailed
		result.Err = checkErr
	case err != nil:
		result.State = StateTimedOut
		result.Err = err
	case result.State == StateFailed:
		result.Err = fmt.Errorf("%w: %s: %s", ErrResourceFailed, check.Target(), result.Detail)
	}

	return result
}

// Probe evaluates check exactly once. A pending resource is reported as Pending.
func (w *Waiter) Probe(ctx context.Context, check Check) Result {
	start := w.now()

	obs, err := evaluate(ctx, w.client, check)
	if err != nil {
		return Result{State: StateFailed, Err: err, Polls: 1, Elapsed: w.now().Sub(start)}
	}

	result := Result{State: obs.state, Detail: obs.detail, Polls: 1, Elapsed: w.now().Sub(start)}
	if obs.state == StateFailed {
		result.Err = fmt.Errorf("%w: %s: %s", ErrResourceFailed, check.Target(), obs.detail)
	}

	return result
}
