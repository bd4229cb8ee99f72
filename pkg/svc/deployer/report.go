package deployer

import (
	"io"
	"time"

	"github.com/mdpipeline/mdpctl/pkg/utils/notify"
)

// Status is the outcome of one stage.
type Status string

const (
	// StatusDeployed means the stage was applied and became ready.
	StatusDeployed Status = "deployed"
	// StatusSkipped means the operator skipped the stage.
	StatusSkipped Status = "skipped"
	// StatusFailed means the stage failed and stopped the run.
	StatusFailed Status = "failed"
	// StatusContinued means the stage failed but the run went on.
	StatusContinued Status = "failed (continued)"
	// StatusValidated means the stage passed a validate-only probe.
	StatusValidated Status = "validated"
	// StatusNotReady means a validate-only probe found the stage not ready.
	StatusNotReady Status = "not ready"
)

// StageReport is one line of the summary.
type StageReport struct {
	Name     string
	Status   Status
	Detail   string
	Duration time.Duration
}

// Report summarises a deploy or validate run.
type Report struct {
	Stages []StageReport
	// Quit is set when the operator ended the run at a gate.
	Quit bool
}

func (r *Report) add(name string, status Status, detail string, duration time.Duration) {
	r.Stages = append(r.Stages, StageReport{Name: name, Status: status, Detail: detail, Duration: duration})
}

// Count returns the number of stages with status.
func (r Report) Count(status Status) int {
	count := 0

	for _, stage := range r.Stages {
		if stage.Status == status {
			count++
		}
	}

	return count
}

// Print writes the summary table.
func (r Report) Print(writer io.Writer) {
	if len(r.Stages) == 0 {
		return
	}

	notify.Titlef(writer, "📋", "Summary")

	rows := make([][]string, 0, len(r.Stages))
	for _, stage := range r.Stages {
		rows = append(rows, []string{
			stage.Name,
			string(stage.Status),
			stage.Duration.Round(time.Second).String(),
			stage.Detail,
		})
	}

	notify.Table(writer, []string{"STAGE", "STATUS", "DURATION", "DETAIL"}, rows)

	if r.Quit {
		notify.Infof(writer, "run ended by operator; remaining stages were not deployed")
	}
}
