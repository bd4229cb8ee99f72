package pipeline

import (
	"github.com/mdpipeline/mdpctl/pkg/cli/lifecycle"
	"github.com/mdpipeline/mdpctl/pkg/di"
	"github.com/spf13/cobra"
)

// NewResourcesCmd creates the pipeline resources command.
func NewResourcesCmd(runtimeContainer *di.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:          "resources",
		Short:        "Show the node inventory",
		Long:         "Show every node with its status, roles and allocatable CPU and memory.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: di.RunEWithRuntime(runtimeContainer, func(cmd *cobra.Command, injector di.Injector) error {
			session, err := lifecycle.NewSession(cmd, injector)
			if err != nil {
				return err
			}

			return newRunner(session).Resources(cmd.Context())
		}),
	}
}
