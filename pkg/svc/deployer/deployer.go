// Package deployer walks the configured stages in order: gate, apply, wait, and on failure
// diagnostics and the continue-or-abort decision.
package deployer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	v1alpha1 "github.com/mdpipeline/mdpctl/pkg/apis/pipeline/v1alpha1"
	"github.com/mdpipeline/mdpctl/pkg/cli/ui/confirm"
	"github.com/mdpipeline/mdpctl/pkg/k8s"
	"github.com/mdpipeline/mdpctl/pkg/k8s/readiness"
	"github.com/mdpipeline/mdpctl/pkg/svc/credentials"
	"github.com/mdpipeline/mdpctl/pkg/svc/smoke"
	"github.com/mdpipeline/mdpctl/pkg/utils/envvar"
	"github.com/mdpipeline/mdpctl/pkg/utils/notify"
	"github.com/mdpipeline/mdpctl/pkg/utils/timer"
	"github.com/sirupsen/logrus"
)

var (
	// ErrStageFailed is returned when a stage fails and the run cannot continue.
	ErrStageFailed = errors.New("stage failed")
	// ErrPrerequisites is returned when the prerequisite check fails.
	ErrPrerequisites = errors.New("prerequisites not met")
)

// Gate asks the operator whether to go on.
type Gate interface {
	Ask(question string, defaultAnswer confirm.Answer) confirm.Answer
	Interactive() bool
}

// Waiter waits for or probes readiness checks.
type Waiter interface {
	Wait(ctx context.Context, check readiness.Check) readiness.Result
	Probe(ctx context.Context, check readiness.Check) readiness.Result
}

// Reporter prints diagnostics for a failed resource.
type Reporter interface {
	Report(ctx context.Context, ref k8s.ResourceRef, selector string)
}

// SmokeRunner runs the smoke test.
type SmokeRunner interface {
	Run(ctx context.Context) smoke.Result
}

// PrereqChecker verifies cluster prerequisites.
type PrereqChecker interface {
	Check(ctx context.Context) error
}

// Deps are the collaborators of a Deployer.
type Deps struct {
	Client   k8s.Client
	Writer   io.Writer
	Gate     Gate
	Waiter   Waiter
	Reporter Reporter
	Smoke    SmokeRunner
	Prereq   PrereqChecker
	// Timer is optional; when set the final message carries timing.
	Timer timer.Timer
}

// Deployer deploys the stages of a Spec.
type Deployer struct {
	Deps

	spec v1alpha1.Spec
	now  func() time.Time
}

// New creates a Deployer for spec.
func New(deps Deps, spec v1alpha1.Spec) *Deployer {
	return &Deployer{Deps: deps, spec: spec, now: time.Now}
}

// Deploy runs every stage in order. An operator quit ends the run without error.
func (d *Deployer) Deploy(ctx context.Context) (Report, error) {
	var report Report

	err := d.Prereq.Check(ctx)
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrPrerequisites, err)
	}

	for _, stage := range d.spec.Stages {
		if d.Timer != nil {
			d.Timer.NewStage()
		}

		notify.Titlef(d.Writer, stage.Emoji, "Deploy %s...", stageTitle(stage))

		switch d.Gate.Ask(fmt.Sprintf("Deploy stage %q?", stage.Name), confirm.Proceed) {
		case confirm.Skip:
			notify.Warningf(d.Writer, "skipped stage %s", stage.Name)
			report.add(stage.Name, StatusSkipped, "", 0)

			continue
		case confirm.Quit:
			notify.Infof(d.Writer, "quitting before stage %s", stage.Name)

			report.Quit = true

			return report, nil
		case confirm.Proceed:
		}

		start := d.now()
		err = d.runStage(ctx, stage)
		elapsed := d.now().Sub(start)

		if err == nil {
			report.add(stage.Name, StatusDeployed, "", elapsed)

			continue
		}

		if !d.continueAfterFailure(stage, err) {
			report.add(stage.Name, StatusFailed, err.Error(), elapsed)

			return report, fmt.Errorf("%w: %s: %w", ErrStageFailed, stage.Name, err)
		}

		report.add(stage.Name, StatusContinued, err.Error(), elapsed)
	}

	notify.SuccessWithTimerf(d.Writer, d.Timer, "deployment finished")

	return report, nil
}

// continueAfterFailure applies the failure policy: optional stages continue, an
// interactive operator decides, anything else aborts.
func (d *Deployer) continueAfterFailure(stage v1alpha1.Stage, err error) bool {
	notify.Errorf(d.Writer, "stage %s failed: %v", stage.Name, err)

	if stage.Optional {
		notify.Warningf(d.Writer, "stage %s is optional, continuing", stage.Name)

		return true
	}

	if !d.Gate.Interactive() {
		return false
	}

	return d.Gate.Ask("Continue with the remaining stages?", confirm.Skip) == confirm.Proceed
}

func (d *Deployer) runStage(ctx context.Context, stage v1alpha1.Stage) error {
	logrus.WithField("stage", stage.Name).Debug("running stage")

	if stage.IsSmoke() {
		result := d.Smoke.Run(ctx)
		if !result.Passed() {
			return result.Err
		}

		return nil
	}

	err := d.apply(ctx, stage)
	if err != nil {
		return err
	}

	if stage.Wait == nil {
		notify.Successf(d.Writer, "%s applied", stage.Name)

		return nil
	}

	check := d.check(*stage.Wait)

	notify.Activityf(d.Writer, "waiting for %s (timeout %s)", check.Target(), check.Timeout)

	result := d.Waiter.Wait(ctx, check)
	if !result.Ready() {
		notify.Errorf(d.Writer, "%s %s after %s: %s", check.Target(), result.State,
			result.Elapsed.Round(time.Second), result.Detail)
		d.Reporter.Report(ctx, check.Ref, stage.Wait.Selector)

		return result.Err
	}

	notify.Successf(d.Writer, "%s ready: %s", check.Target(), result.Detail)

	return nil
}

func (d *Deployer) apply(ctx context.Context, stage v1alpha1.Stage) error {
	namespace := d.spec.Connection.Namespace

	if stage.Secret != nil {
		secret, err := credentials.BuildSecret(stage.Secret.Name, namespace, stage.Secret.EnvFile)
		if err != nil {
			return fmt.Errorf("failed to build secret %s: %w", stage.Secret.Name, err)
		}

		notify.Activityf(d.Writer, "applying secret %s (%d keys)", secret.Name, len(secret.StringData))

		err = d.Client.ApplyObject(ctx, secret)
		if err != nil {
			return fmt.Errorf("failed to apply secret %s: %w", secret.Name, err)
		}
	}

	for _, manifest := range stage.Manifests {
		path := envvar.ExpandPath(manifest)

		notify.Activityf(d.Writer, "applying %s", path)

		err := d.Client.ApplyFile(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to apply %s: %w", path, err)
		}
	}

	return nil
}

// check translates a configured wait into a readiness check in the deployment namespace.
func (d *Deployer) check(wait v1alpha1.Wait) readiness.Check {
	namespace := d.spec.Connection.Namespace

	check := readiness.Check{
		Kind:     readiness.Kind(wait.Kind),
		Ref:      k8s.ResourceRef{Kind: string(wait.Kind), Name: wait.Name, Namespace: namespace},
		Selector: wait.Selector,
		Timeout:  wait.TimeoutOr(d.spec.Polling.Timeout.Duration),
		Interval: wait.IntervalOr(d.spec.Polling.Interval.Duration),
	}

	switch wait.Kind {
	case v1alpha1.WaitKindPods:
		check.Ref = k8s.ResourceRef{Namespace: namespace}
	case v1alpha1.WaitKindStatus:
		check.Ref.Kind = wait.Resource
		check.StatusPath = wait.StatusPath
		check.ReadyValues = wait.ReadyValues
		check.FailedValues = wait.FailedValues
	case v1alpha1.WaitKindStatefulSet, v1alpha1.WaitKindDeployment, v1alpha1.WaitKindPod:
	}

	return check
}

func stageTitle(stage v1alpha1.Stage) string {
	if stage.Description == "" {
		return stage.Name
	}

	return stage.Name + " (" + stage.Description + ")"
}
