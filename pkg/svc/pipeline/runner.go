// Package pipeline runs the medallion Spark jobs, validates their output through Trino and
// reports throughput.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	v1alpha1 "github.com/mdpipeline/mdpctl/pkg/apis/pipeline/v1alpha1"
	"github.com/mdpipeline/mdpctl/pkg/k8s"
	"github.com/mdpipeline/mdpctl/pkg/k8s/spark"
	"github.com/mdpipeline/mdpctl/pkg/svc/smoke"
	"github.com/mdpipeline/mdpctl/pkg/utils/notify"
)

var (
	// ErrUnknownStage is returned for an unsupported --stage value.
	ErrUnknownStage = errors.New("unknown pipeline stage")
	// ErrJobFailed is returned when a Spark job fails or times out.
	ErrJobFailed = errors.New("spark job failed")
	// ErrNoCoordinator is returned when no Trino coordinator pod is running.
	ErrNoCoordinator = errors.New("trino coordinator pod not found")
	// ErrValidationFailed is returned when a required Trino query fails.
	ErrValidationFailed = errors.New("pipeline validation failed")
)

// Log tails shown for a failed job and scanned for performance markers.
const (
	driverLogTail   = 50
	executorLogTail = 20
	metricLogTail   = 20
)

// SmokeRunner runs the smoke test.
type SmokeRunner interface {
	Run(ctx context.Context) smoke.Result
}

// Runner runs pipeline stages against the deployment namespace.
type Runner struct {
	client        k8s.Client
	writer        io.Writer
	smoke         SmokeRunner
	namespace     string
	deleteTimeout time.Duration
	cfg           v1alpha1.Pipeline
	now           func() time.Time
}

// NewRunner creates a Runner.
func NewRunner(
	client k8s.Client,
	writer io.Writer,
	smokeRunner SmokeRunner,
	namespace string,
	deleteTimeout time.Duration,
	cfg v1alpha1.Pipeline,
) *Runner {
	return &Runner{
		client:        client,
		writer:        writer,
		smoke:         smokeRunner,
		namespace:     namespace,
		deleteTimeout: deleteTimeout,
		cfg:           cfg,
		now:           time.Now,
	}
}

// Run executes stage.
func (r *Runner) Run(ctx context.Context, stage Stage) error {
	switch stage {
	case StageSmoke:
		result := r.smoke.Run(ctx)
		if !result.Passed() {
			return result.Err
		}

		return nil
	case StageBronze, StageSilver, StageGold:
		_, err := r.RunJob(ctx, string(stage))

		return err
	case StageValidate:
		return r.Validate(ctx)
	case StageFull:
		summary, err := r.Full(ctx)
		if err != nil {
			return err
		}

		summary.Print(r.writer)

		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownStage, stage)
	}
}

// RunJob runs the configured job called name and returns how long it took.
func (r *Runner) RunJob(ctx context.Context, name string) (time.Duration, error) {
	job, ok := r.cfg.Job(name)
	if !ok {
		return 0, fmt.Errorf("%w: no job named %s", ErrUnknownStage, name)
	}

	return r.runJob(ctx, job)
}

func (r *Runner) runJob(ctx context.Context, job v1alpha1.SparkJob) (time.Duration, error) {
	notify.Titlef(r.writer, "⚙️", "Run %s job %s...", job.Name, job.Application)

	start := r.now()

	err := r.recreate(ctx, job)
	if err != nil {
		return r.now().Sub(start), err
	}

	if job.TargetExecutors > 0 {
		err = r.monitorScale(ctx, job)
		if err != nil {
			return r.now().Sub(start), err
		}
	}

	err = r.waitForJob(ctx, job)
	elapsed := r.now().Sub(start)

	if err != nil {
		return elapsed, err
	}

	notify.Successf(r.writer, "%s job completed in %.1f minutes", job.Name, elapsed.Minutes())

	if len(job.MetricMarkers) > 0 {
		r.reportMetrics(ctx, job)
	}

	return elapsed, nil
}

// recreate deletes the previous run of job, lets the operator settle and applies the
// manifest again.
func (r *Runner) recreate(ctx context.Context, job v1alpha1.SparkJob) error {
	ref := spark.ApplicationRef(job.Application, r.namespace)

	err := r.client.Delete(ctx, ref, r.deleteTimeout)

	switch {
	case err == nil:
		notify.Activityf(r.writer, "deleted previous %s", ref)

		err = sleep(ctx, r.cfg.SettleDelay.Duration)
		if err != nil {
			return fmt.Errorf("interrupted while waiting for cleanup: %w", err)
		}
	case k8s.IsNotFound(err):
		notify.Activityf(r.writer, "%s not found (this is okay)", ref)
	default:
		notify.Warningf(r.writer, "could not delete previous %s: %v", ref, err)
	}

	notify.Activityf(r.writer, "applying %s", job.Manifest)

	err = r.client.ApplyFile(ctx, job.Manifest)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrJobFailed, job.Name, err)
	}

	return nil
}

func (r *Runner) reportMetrics(ctx context.Context, job v1alpha1.SparkJob) {
	logs, err := r.client.Logs(ctx, r.namespace, spark.DriverSelector(job.Application), metricLogTail)
	if err != nil {
		notify.Warningf(r.writer, "could not retrieve performance metrics from logs: %v", err)

		return
	}

	for line := range strings.SplitSeq(logs, "\n") {
		for _, marker := range job.MetricMarkers {
			if strings.Contains(line, marker) {
				notify.Infof(r.writer, "Performance: %s", strings.TrimSpace(line))

				break
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck // returned to a wrapping caller
	case <-t.C:
		return nil
	}
}
