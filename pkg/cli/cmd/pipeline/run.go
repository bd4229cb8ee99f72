package pipeline

import (
	"fmt"

	"github.com/mdpipeline/mdpctl/pkg/cli/lifecycle"
	"github.com/mdpipeline/mdpctl/pkg/di"
	"github.com/mdpipeline/mdpctl/pkg/k8s/spark"
	svcpipeline "github.com/mdpipeline/mdpctl/pkg/svc/pipeline"
	"github.com/mdpipeline/mdpctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

const runLongDesc = `Run one stage of the medallion pipeline, or all of them.

Stages:
  smoke     run the smoke-test SparkApplication
  bronze    ingest raw data
  silver    build the silver Iceberg tables
  gold      build the gold analytics tables
  validate  query the results through Trino
  full      all of the above followed by a performance summary

Each job replaces any previous run of its SparkApplication. Interrupting mdpctl does not
stop jobs that were already submitted.`

// NewRunCmd creates the pipeline run command.
func NewRunCmd(runtimeContainer *di.Runtime) *cobra.Command {
	stage := svcpipeline.StageFull

	cmd := &cobra.Command{
		Use:          "run",
		Short:        "Run a pipeline stage",
		Long:         runLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: di.RunEWithRuntime(runtimeContainer, func(cmd *cobra.Command, injector di.Injector) error {
			return runStage(cmd, injector, stage)
		}),
	}

	cmd.Flags().VarP(&stage, "stage", "s", "Pipeline stage to run (smoke, bronze, silver, gold, validate, full)")

	return cmd
}

func runStage(cmd *cobra.Command, injector di.Injector, stage svcpipeline.Stage) error {
	session, err := lifecycle.NewSession(cmd, injector)
	if err != nil {
		return err
	}

	runner := newRunner(session)

	ctx := cmd.Context()

	err = runner.Run(ctx, stage)
	if err != nil && ctx.Err() != nil {
		notify.Infof(session.Writer, "pipeline interrupted; Spark jobs may continue running in the cluster")
		notify.Infof(session.Writer, "check their status with: %s get %s -n %s",
			session.Config.Spec.Connection.Binary, spark.ResourceKind, session.Namespace())
	}

	if err != nil {
		return fmt.Errorf("pipeline stage %s: %w", stage, err)
	}

	notify.SuccessWithTimerf(session.Writer, session.Timer, "pipeline stage %s finished", stage)

	return nil
}

func newRunner(session *lifecycle.Session) *svcpipeline.Runner {
	spec := session.Spec()

	return svcpipeline.NewRunner(
		session.Client,
		session.Writer,
		session.SmokeMonitor(),
		session.Namespace(),
		spec.Polling.DeleteTimeout.Duration,
		spec.Pipeline,
	)
}
