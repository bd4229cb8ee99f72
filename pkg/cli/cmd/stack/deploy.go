package stack

import (
	"github.com/mdpipeline/mdpctl/pkg/cli/lifecycle"
	"github.com/mdpipeline/mdpctl/pkg/di"
	"github.com/mdpipeline/mdpctl/pkg/svc/deployer"
	"github.com/spf13/cobra"
)

const deployLongDesc = `Deploy the lakehouse stack stage by stage.

Each stage applies its manifests and waits until its resources are ready. Before every
stage the operator is asked to proceed, skip the stage or quit. When a stage fails its
diagnostics are printed; optional stages never stop the run.

Prompts are skipped with --non-interactive or when stdin is not a terminal. A failing
required stage then aborts the run.`

// NewDeployCmd creates the deploy command.
func NewDeployCmd(runtimeContainer *di.Runtime) *cobra.Command {
	var (
		nonInteractive bool
		validateOnly   bool
	)

	cmd := &cobra.Command{
		Use:          "deploy",
		Short:        "Deploy the stack stage by stage",
		Long:         deployLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: di.RunEWithRuntime(runtimeContainer, func(cmd *cobra.Command, injector di.Injector) error {
			return runDeploy(cmd, injector, nonInteractive, validateOnly)
		}),
	}

	cmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "Deploy every stage without prompting")
	cmd.Flags().BoolVar(&validateOnly, "validate-only", false,
		"Check prerequisites and probe every stage once without applying anything")

	return cmd
}

func runDeploy(cmd *cobra.Command, injector di.Injector, nonInteractive, validateOnly bool) error {
	session, err := lifecycle.NewSession(cmd, injector)
	if err != nil {
		return err
	}

	gateFactory, err := di.ResolveGateFactory(injector)
	if err != nil {
		return err
	}

	dep := deployer.New(deployer.Deps{
		Client:   session.Client,
		Writer:   session.Writer,
		Gate:     gateFactory(session.Writer, nonInteractive),
		Waiter:   session.Waiter(),
		Reporter: session.Reporter(),
		Smoke:    session.SmokeMonitor(),
		Prereq:   session.PrereqChecker(),
		Timer:    session.Timer,
	}, session.Spec())

	var report deployer.Report
	if validateOnly {
		report, err = dep.Validate(cmd.Context())
	} else {
		report, err = dep.Deploy(cmd.Context())
	}

	if len(report.Stages) > 0 {
		report.Print(session.Writer)
	}

	return err
}
