package helpers

import (
	"fmt"

	v1alpha1 "github.com/mdpipeline/mdpctl/pkg/apis/pipeline/v1alpha1"
	configmanagerinterface "github.com/mdpipeline/mdpctl/pkg/io/config-manager"
	configmanager "github.com/mdpipeline/mdpctl/pkg/io/config-manager/mdpctl"
	"github.com/mdpipeline/mdpctl/pkg/utils/timer"
	"github.com/spf13/cobra"
)

// LoadConfig loads the configuration named by --config (or mdpctl.yaml in the working
// directory) with the connection flags of cmd applied on top.
func LoadConfig(cmd *cobra.Command, tmr timer.Timer, silent bool) (*v1alpha1.Config, error) {
	manager := configmanager.NewConfigManager(cmd.OutOrStdout(), StringFlag(cmd, ConfigFlagName))
	flags := cmd.Flags()
	flags.AddFlagSet(cmd.InheritedFlags())
	manager.BindFlags(flags)

	cfg, err := manager.Load(configmanagerinterface.LoadOptions{Timer: tmr, Silent: silent})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}
