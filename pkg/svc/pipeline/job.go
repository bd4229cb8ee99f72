package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	v1alpha1 "github.com/mdpipeline/mdpctl/pkg/apis/pipeline/v1alpha1"
	"github.com/mdpipeline/mdpctl/pkg/k8s/readiness"
	"github.com/mdpipeline/mdpctl/pkg/k8s/spark"
	"github.com/mdpipeline/mdpctl/pkg/utils/notify"
)

const (
	// scaleThreshold is the share of the target executors that counts as scaled up.
	scaleThreshold     = 0.8
	defaultScaleWindow = 10 * time.Minute
	defaultJobTimeout  = 60 * time.Minute
)

// monitorScale waits for the executors of job to reach the scale threshold. Not reaching it
// is only a warning; the job keeps running either way.
func (r *Runner) monitorScale(ctx context.Context, job v1alpha1.SparkJob) error {
	want := int(math.Ceil(float64(job.TargetExecutors) * scaleThreshold))
	notify.Activityf(r.writer, "waiting for %d of %d executors", want, job.TargetExecutors)

	last := -1

	err := readiness.PollForReadinessEvery(
		ctx,
		orDefault(job.ScaleInterval.Duration, readiness.DefaultPollInterval),
		orDefault(job.ScaleTimeout.Duration, defaultScaleWindow),
		func(ctx context.Context) (bool, error) {
			count, err := spark.CountExecutors(ctx, r.client, job.Application, r.namespace)
			if err != nil {
				notify.Warningf(r.writer, "%v", err)

				return false, nil
			}

			if count != last {
				notify.Activityf(r.writer, "executors: %d/%d", count, job.TargetExecutors)
				last = count
			}

			return count >= want, nil
		},
	)

	switch {
	case err == nil:
		notify.Successf(r.writer, "%s scaled to %d executors", job.Application, last)
	case errors.Is(err, readiness.ErrTimeoutExceeded):
		notify.Warningf(r.writer, "%s did not reach %d executors within %s, continuing",
			job.Application, want, orDefault(job.ScaleTimeout.Duration, defaultScaleWindow))
	case ctx.Err() != nil:
		return fmt.Errorf("scale monitor of %s: %w", job.Name, err)
	default:
		notify.Warningf(r.writer, "scale monitor of %s stopped: %v", job.Name, err)
	}

	return nil
}

// waitForJob polls the application state of job until it completes, fails or times out.
func (r *Runner) waitForJob(ctx context.Context, job v1alpha1.SparkJob) error {
	var (
		lastState     string
		lastExecutors = -1
		failedState   string
	)

	err := readiness.PollForReadinessEvery(
		ctx,
		orDefault(r.cfg.PollInterval.Duration, readiness.DefaultPollInterval),
		orDefault(job.Timeout.Duration, defaultJobTimeout),
		func(ctx context.Context) (bool, error) {
			state, err := spark.GetState(ctx, r.client, job.Application, r.namespace)
			if err != nil {
				notify.Warningf(r.writer, "%v", err)

				return false, nil
			}

			executors, err := spark.CountExecutors(ctx, r.client, job.Application, r.namespace)
			if err != nil {
				executors = lastExecutors
			}

			if lastExecutors < 0 || state != lastState || executors != lastExecutors {
				lastState, lastExecutors = state, max(executors, 0)
				notify.Activityf(r.writer, "%s: %s (%d executors)", job.Application, displayState(state), lastExecutors)
			}

			switch {
			case state == spark.StateCompleted:
				return true, nil
			case spark.IsFailed(state):
				failedState = state

				return true, nil
			default:
				return false, nil
			}
		},
	)

	switch {
	case err == nil && failedState == "":
		return nil
	case err == nil:
		notify.Errorf(r.writer, "%s ended in state %s", job.Application, failedState)
		err = fmt.Errorf("state %s", failedState)
	case errors.Is(err, readiness.ErrTimeoutExceeded):
		notify.Errorf(r.writer, "%s did not complete within %s",
			job.Application, orDefault(job.Timeout.Duration, defaultJobTimeout))
	}

	if ctx.Err() == nil {
		r.showFailureLogs(ctx, job)
	}

	return fmt.Errorf("%w: %s: %w", ErrJobFailed, job.Name, err)
}

func (r *Runner) showFailureLogs(ctx context.Context, job v1alpha1.SparkJob) {
	for _, tail := range []struct {
		role     string
		selector string
		lines    int
	}{
		{"driver", spark.DriverSelector(job.Application), driverLogTail},
		{"executor", spark.ExecutorSelector(job.Application), executorLogTail},
	} {
		logs, err := r.client.Logs(ctx, r.namespace, tail.selector, tail.lines)
		if err != nil {
			notify.Warningf(r.writer, "could not read %s logs: %v", tail.role, err)

			continue
		}

		notify.Infof(r.writer, "last %d %s log lines:\n%s", tail.lines, tail.role, logs)
	}
}

func displayState(state string) string {
	if state == "" {
		return "SUBMITTED"
	}

	return state
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}

	return d
}
