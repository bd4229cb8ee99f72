// Package pipeline provides the pipeline command and its run and resources subcommands.
package pipeline

import (
	"fmt"

	"github.com/mdpipeline/mdpctl/pkg/di"
	"github.com/spf13/cobra"
)

// NewPipelineCmd creates the parent pipeline command.
func NewPipelineCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "pipeline",
		Short:        "Run the medallion Spark pipeline",
		Long:         "Run the bronze, silver and gold Spark jobs on a deployed stack and validate their output.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         handlePipelineRunE,
	}

	cmd.AddCommand(NewRunCmd(runtimeContainer))
	cmd.AddCommand(NewResourcesCmd(runtimeContainer))

	return cmd
}

func handlePipelineRunE(cmd *cobra.Command, _ []string) error {
	err := cmd.Help()
	if err != nil {
		return fmt.Errorf("displaying pipeline command help: %w", err)
	}

	return nil
}
