package stack

import (
	"github.com/mdpipeline/mdpctl/pkg/cli/lifecycle"
	"github.com/mdpipeline/mdpctl/pkg/cli/ui/confirm"
	"github.com/mdpipeline/mdpctl/pkg/di"
	"github.com/mdpipeline/mdpctl/pkg/svc/rollback"
	"github.com/spf13/cobra"
)

const rollbackLongDesc = `Delete everything deploy created, in reverse order.

Each stage's resources are deleted in reverse, last stage first, followed by the configured
residual kinds and finally the namespace. Resources that are already gone count as
deleted, so rollback can be repeated safely.

Unless --force is set or stdin is not a terminal, the deletion plan is shown and must be
confirmed by typing "yes".`

// NewRollbackCmd creates the rollback command.
func NewRollbackCmd(runtimeContainer *di.Runtime) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:          "rollback",
		Short:        "Delete the deployed stack in reverse order",
		Long:         rollbackLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: di.RunEWithRuntime(runtimeContainer, func(cmd *cobra.Command, injector di.Injector) error {
			return runRollback(cmd, injector, force)
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")

	return cmd
}

func runRollback(cmd *cobra.Command, injector di.Injector, force bool) error {
	session, err := lifecycle.NewSession(cmd, injector)
	if err != nil {
		return err
	}

	sequencer := rollback.NewSequencer(session.Client, session.Writer, session.Spec())

	if !confirm.ShouldSkipPrompt(force) {
		confirm.ShowDeletionPreview(session.Writer, sequencer.Preview())

		if !confirm.PromptForConfirmation(session.Writer) {
			return confirm.ErrDeletionCancelled
		}
	}

	_, err = sequencer.Rollback(cmd.Context())

	return err
}
