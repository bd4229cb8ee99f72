package cmd

import (
	"context"
	"fmt"

	"github.com/mdpipeline/mdpctl/pkg/cli/cmd/config"
	"github.com/mdpipeline/mdpctl/pkg/cli/cmd/pipeline"
	"github.com/mdpipeline/mdpctl/pkg/cli/cmd/stack"
	"github.com/mdpipeline/mdpctl/pkg/cli/helpers"
	"github.com/mdpipeline/mdpctl/pkg/cli/ui/errorhandler"
	runtime "github.com/mdpipeline/mdpctl/pkg/di"
	"github.com/spf13/cobra"
)

const rootLongDesc = `mdpctl deploys the medallion lakehouse stack onto a Kubernetes or OpenShift
cluster stage by stage, rolls it back, and runs the Spark pipeline on top of it.

Configuration is read from mdpctl.yaml in the working directory (or --config), from
MDP_* environment variables and from the flags below, in increasing precedence.`

// NewRootCmd creates and returns the root command with version info and subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	return NewRootCmdWithRuntime(runtime.NewRuntime(), version, commit, date)
}

// NewRootCmdWithRuntime creates the root command with the given dependency runtime.
func NewRootCmdWithRuntime(runtimeContainer *runtime.Runtime, version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "mdpctl",
		Short:             "Deploy, roll back and run the medallion data pipeline",
		Long:              rootLongDesc,
		RunE:              handleRootRunE,
		PersistentPreRunE: handlePersistentPreRunE,
		SilenceUsage:      true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	flags := cmd.PersistentFlags()
	flags.String(helpers.ConfigFlagName, "", "Path to the config file (default ./mdpctl.yaml)")
	flags.StringP(helpers.NamespaceFlagName, "n", "", "Target namespace")
	flags.String(helpers.KubeconfigFlagName, "", "Path to the kubeconfig file")
	flags.String(helpers.ContextFlagName, "", "Kubeconfig context to use")
	flags.String(helpers.BinaryFlagName, "", "Cluster CLI used by the cli backend (oc or kubectl)")
	flags.String(helpers.BackendFlagName, "", "Cluster access backend (cli or api)")
	flags.BoolP(helpers.VerboseFlagName, "v", false, "Log every cluster command and API call")
	flags.Bool(helpers.TimingFlagName, false, "Show per-activity timing output")

	cmd.AddCommand(stack.NewDeployCmd(runtimeContainer))
	cmd.AddCommand(stack.NewRollbackCmd(runtimeContainer))
	cmd.AddCommand(pipeline.NewPipelineCmd(runtimeContainer))
	cmd.AddCommand(config.NewConfigCmd())

	return cmd
}

// Execute runs the provided root command with ctx and handles errors.
func Execute(ctx context.Context, cmd *cobra.Command) error {
	executor := errorhandler.NewExecutor()

	err := executor.Execute(ctx, cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// --- internals ---

func handleRootRunE(cmd *cobra.Command, _ []string) error {
	// The err can safely be ignored, as it can never fail at runtime.
	_ = cmd.Help()

	return nil
}

func handlePersistentPreRunE(cmd *cobra.Command, _ []string) error {
	verbose, err := helpers.IsVerbose(cmd)
	if err != nil {
		return fmt.Errorf("reading verbose flag: %w", err)
	}

	configureLogging(verbose)

	return nil
}
