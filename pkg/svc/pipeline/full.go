package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mdpipeline/mdpctl/pkg/utils/notify"
)

// JobTiming is the wall time of one job of a full run.
type JobTiming struct {
	Name     string
	Duration time.Duration
}

// Summary is the performance summary of a full run.
type Summary struct {
	DataSizeGB float64
	Jobs       []JobTiming
	Total      time.Duration
}

// Full runs the resource check, the smoke test, every job and the validation, then returns
// the performance summary. The first failing step before validation aborts the run.
func (r *Runner) Full(ctx context.Context) (Summary, error) {
	notify.Titlef(r.writer, "🚀", "Run full pipeline (%.0f GB)...", r.cfg.DataSizeGB)

	err := r.Resources(ctx)
	if err != nil {
		notify.Warningf(r.writer, "could not retrieve cluster resource info: %v", err)
	}

	start := r.now()
	summary := Summary{DataSizeGB: r.cfg.DataSizeGB}

	result := r.smoke.Run(ctx)
	if !result.Passed() {
		notify.Errorf(r.writer, "smoke test failed, aborting pipeline")

		return summary, result.Err
	}

	for _, job := range r.cfg.Jobs {
		elapsed, err := r.runJob(ctx, job)
		if err != nil {
			notify.Errorf(r.writer, "%s failed, aborting pipeline", job.Name)

			return summary, err
		}

		summary.Jobs = append(summary.Jobs, JobTiming{Name: job.Name, Duration: elapsed})
	}

	err = r.Validate(ctx)
	if err != nil {
		notify.Warningf(r.writer, "pipeline validation had issues, but core processing completed: %v", err)
	}

	summary.Total = r.now().Sub(start)

	return summary, nil
}

// Print writes the summary as a table followed by the overall throughput. The first job
// reads the whole data set, so its row carries the ingest throughput.
func (s Summary) Print(writer io.Writer) {
	notify.Successf(writer, "pipeline completed")
	notify.Titlef(writer, "📊", "Performance summary")

	rows := make([][]string, 0, len(s.Jobs)+1)

	for i, job := range s.Jobs {
		throughput := ""
		if i == 0 {
			throughput = formatRate(s.DataSizeGB, job.Duration)
		}

		rows = append(rows, []string{job.Name, formatMinutes(job.Duration), throughput})
	}

	rows = append(rows, []string{"total", formatMinutes(s.Total), formatRate(s.DataSizeGB, s.Total)})

	notify.Table(writer, []string{"STAGE", "MINUTES", "THROUGHPUT"}, rows)
	notify.Infof(writer, "overall throughput: %s", formatRate(s.DataSizeGB, s.Total))
}

func formatMinutes(d time.Duration) string {
	return fmt.Sprintf("%.1f", d.Minutes())
}

func formatRate(sizeGB float64, d time.Duration) string {
	if d <= 0 {
		return "n/a"
	}

	return fmt.Sprintf("%.1f GB/min", sizeGB/d.Minutes())
}
