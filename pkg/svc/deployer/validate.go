package deployer

import (
	"context"
	"fmt"

	"github.com/mdpipeline/mdpctl/pkg/utils/notify"
)

// Validate checks a deployed stack without applying anything: prerequisites, a single
// readiness probe per stage and the smoke test.
func (d *Deployer) Validate(ctx context.Context) (Report, error) {
	var report Report

	err := d.Prereq.Check(ctx)
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrPrerequisites, err)
	}

	notify.Titlef(d.Writer, "🩺", "Validate stages...")

	for _, stage := range d.spec.Stages {
		start := d.now()

		switch {
		case stage.IsSmoke():
			result := d.Smoke.Run(ctx)
			if result.Passed() {
				report.add(stage.Name, StatusValidated, result.Detail, result.Elapsed)
			} else {
				report.add(stage.Name, StatusNotReady, result.Detail, result.Elapsed)
			}
		case stage.Wait == nil:
			report.add(stage.Name, StatusValidated, "no readiness check", 0)
		default:
			check := d.check(*stage.Wait)

			result := d.Waiter.Probe(ctx, check)
			if result.Ready() {
				notify.Successf(d.Writer, "%s: %s ready (%s)", stage.Name, check.Target(), result.Detail)
				report.add(stage.Name, StatusValidated, result.Detail, d.now().Sub(start))

				continue
			}

			notify.Errorf(d.Writer, "%s: %s %s (%s)", stage.Name, check.Target(), result.State, result.Detail)
			report.add(stage.Name, StatusNotReady, result.Detail, d.now().Sub(start))
		}
	}

	if failed := report.Count(StatusNotReady); failed > 0 {
		return report, fmt.Errorf("%w: %d of %d stages not ready", ErrStageFailed, failed, len(report.Stages))
	}

	notify.SuccessWithTimerf(d.Writer, d.Timer, "all stages validated")

	return report, nil
}
