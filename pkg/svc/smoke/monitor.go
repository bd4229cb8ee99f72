// Package smoke runs a throwaway SparkApplication and decides from its driver pod and log
// sentinels whether Spark can reach the lakehouse.
package smoke

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mdpipeline/mdpctl/pkg/k8s"
	"github.com/mdpipeline/mdpctl/pkg/k8s/readiness"
	"github.com/mdpipeline/mdpctl/pkg/k8s/spark"
	"github.com/mdpipeline/mdpctl/pkg/utils/notify"
	"github.com/sirupsen/logrus"
	corev1 "k8s.io/api/core/v1"
)

const (
	// DefaultTimeout bounds the whole smoke test.
	DefaultTimeout = 600 * time.Second
	// DefaultInterval is the smoke polling interval.
	DefaultInterval = 15 * time.Second
)

// ErrSmokeFailed is returned when the smoke test reports failure.
var ErrSmokeFailed = errors.New("smoke test failed")

// Outcome is the final verdict of a smoke test.
type Outcome string

const (
	// OutcomePassed means the success sentinel was seen, or the lenient policy applied.
	OutcomePassed Outcome = "Passed"
	// OutcomeFailed means the failure sentinel was seen or the driver failed.
	OutcomeFailed Outcome = "Failed"
	// OutcomeTimedOut means no verdict was reached within the timeout.
	OutcomeTimedOut Outcome = "TimedOut"
)

// Result describes a smoke test run.
type Result struct {
	Outcome Outcome
	// Lenient is set when the test passed only because the driver finished without
	// printing either sentinel.
	Lenient bool
	Detail  string
	Elapsed time.Duration
	Err     error
}

// Passed reports whether the smoke test passed.
func (r Result) Passed() bool {
	return r.Outcome == OutcomePassed
}

// Options configure a Monitor.
type Options struct {
	Namespace     string
	Application   string
	Manifest      string
	Timeout       time.Duration
	Interval      time.Duration
	DeleteTimeout time.Duration
	SuccessMarker string
	FailureMarker string
	// Strict fails a driver that finished without printing either sentinel.
	Strict  bool
	LogTail int
}

// Reporter prints diagnostics for a failed smoke test.
type Reporter interface {
	Report(ctx context.Context, ref k8s.ResourceRef, selector string)
}

// Monitor runs the smoke test.
type Monitor struct {
	client   k8s.Client
	writer   io.Writer
	reporter Reporter
	opts     Options
	now      func() time.Time
}

// NewMonitor creates a Monitor. Zero timing options fall back to the defaults.
func NewMonitor(client k8s.Client, writer io.Writer, reporter Reporter, opts Options) *Monitor {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	return &Monitor{client: client, writer: writer, reporter: reporter, opts: opts, now: time.Now}
}

// verdict is the result of one observation. An empty outcome means keep polling.
type verdict struct {
	outcome Outcome
	lenient bool
	detail  string
}

// Run recreates the smoke application and polls it until a verdict or the timeout.
func (m *Monitor) Run(ctx context.Context) Result {
	notify.Titlef(m.writer, "🧪", "Run smoke test %s...", m.opts.Application)

	start := m.now()
	ref := spark.ApplicationRef(m.opts.Application, m.opts.Namespace)

	err := m.client.Delete(ctx, ref, m.opts.DeleteTimeout)
	switch {
	case err == nil:
		notify.Activityf(m.writer, "deleted previous %s", ref)
	case !k8s.IsNotFound(err):
		notify.Warningf(m.writer, "could not delete previous %s: %v", ref, err)
	}

	notify.Activityf(m.writer, "applying %s", m.opts.Manifest)

	err = m.client.ApplyFile(ctx, m.opts.Manifest)
	if err != nil {
		notify.Errorf(m.writer, "failed to apply %s: %v", m.opts.Manifest, err)

		return Result{
			Outcome: OutcomeFailed,
			Detail:  "apply failed",
			Elapsed: m.now().Sub(start),
			Err:     fmt.Errorf("%w: %w", ErrSmokeFailed, err),
		}
	}

	var (
		last    verdict
		lastMsg string
	)

	pollErr := readiness.PollForReadinessEvery(ctx, m.opts.Interval, m.opts.Timeout,
		func(ctx context.Context) (bool, error) {
			last = m.observe(ctx)
			if last.detail != lastMsg {
				notify.Activityf(m.writer, "%s", last.detail)
				lastMsg = last.detail
			}

			return last.outcome != "", nil
		})

	result := Result{Outcome: last.outcome, Lenient: last.lenient, Detail: last.detail, Elapsed: m.now().Sub(start)}

	switch {
	case pollErr != nil:
		result.Outcome = OutcomeTimedOut
		result.Err = pollErr
	case result.Outcome == OutcomeFailed:
		result.Err = fmt.Errorf("%w: %s", ErrSmokeFailed, result.Detail)
	}

	m.announce(ctx, ref, result)

	return result
}

func (m *Monitor) announce(ctx context.Context, ref k8s.ResourceRef, result Result) {
	switch {
	case result.Passed() && result.Lenient:
		notify.Warningf(m.writer, "driver finished without printing %s or %s; treating the smoke test as passed",
			m.opts.SuccessMarker, m.opts.FailureMarker)
		notify.Successf(m.writer, "smoke test passed (lenient) in %s", result.Elapsed.Round(time.Second))
	case result.Passed():
		notify.Successf(m.writer, "smoke test passed in %s", result.Elapsed.Round(time.Second))
	case result.Outcome == OutcomeTimedOut:
		notify.Errorf(m.writer, "smoke test timed out after %s: %s", m.opts.Timeout, result.Detail)
		m.reporter.Report(ctx, ref, spark.DriverSelector(m.opts.Application))
	default:
		notify.Errorf(m.writer, "smoke test failed: %s", result.Detail)
		m.reporter.Report(ctx, ref, spark.DriverSelector(m.opts.Application))
	}
}

// observe prefers the driver pod phase and falls back to the application state.
func (m *Monitor) observe(ctx context.Context) verdict {
	driver := m.driverPod(ctx)
	if driver != nil {
		switch driver.Status.Phase {
		case corev1.PodSucceeded:
			return m.scanLogs(ctx, true, "driver succeeded")
		case corev1.PodRunning:
			return m.scanLogs(ctx, false, "driver running")
		case corev1.PodFailed:
			return verdict{outcome: OutcomeFailed, detail: "driver pod " + driver.Name + " failed"}
		default:
			return verdict{detail: fmt.Sprintf("driver %s", strings.ToLower(string(driver.Status.Phase)))}
		}
	}

	state, err := spark.GetState(ctx, m.client, m.opts.Application, m.opts.Namespace)

	switch {
	case err != nil && k8s.IsNotFound(err):
		return verdict{detail: "waiting for " + m.opts.Application + " to be created"}
	case err != nil:
		logrus.WithError(err).Debug("reading smoke application state")

		return verdict{detail: "application state unavailable"}
	case state == spark.StateCompleted:
		return m.scanLogs(ctx, true, "application completed")
	case spark.IsFailed(state):
		return verdict{outcome: OutcomeFailed, detail: "application state " + state}
	case state == "":
		return verdict{detail: "application submitted"}
	default:
		return verdict{detail: "application " + strings.ToLower(state)}
	}
}

func (m *Monitor) driverPod(ctx context.Context) *corev1.Pod {
	pods, err := m.client.ListPods(ctx, m.opts.Namespace, spark.DriverSelector(m.opts.Application))
	if err != nil {
		logrus.WithError(err).Debug("listing smoke driver pods")

		return nil
	}

	if len(pods) == 0 {
		return nil
	}

	return &pods[0]
}

// scanLogs looks for the sentinels. When final is set the driver has finished and the
// absence of sentinels is decided by the strict flag.
func (m *Monitor) scanLogs(ctx context.Context, final bool, status string) verdict {
	logs, err := m.client.Logs(ctx, m.opts.Namespace, spark.DriverSelector(m.opts.Application), m.opts.LogTail)
	if err != nil {
		logrus.WithError(err).Debug("reading smoke driver logs")

		logs = ""
	}

	switch {
	case containsMarker(logs, m.opts.FailureMarker):
		return verdict{outcome: OutcomeFailed, detail: status + ", " + m.opts.FailureMarker + " found in logs"}
	case containsMarker(logs, m.opts.SuccessMarker):
		return verdict{outcome: OutcomePassed, detail: status + ", " + m.opts.SuccessMarker + " found in logs"}
	case !final:
		return verdict{detail: status}
	case m.opts.Strict:
		return verdict{outcome: OutcomeFailed, detail: status + " without " + m.opts.SuccessMarker + " in logs"}
	default:
		return verdict{outcome: OutcomePassed, lenient: true, detail: status + ", no sentinel in logs"}
	}
}

func containsMarker(logs, marker string) bool {
	return marker != "" && strings.Contains(logs, marker)
}
