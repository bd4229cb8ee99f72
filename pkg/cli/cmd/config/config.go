// Package config provides the config command.
package config

import (
	"fmt"

	"github.com/mdpipeline/mdpctl/pkg/cli/helpers"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

// NewConfigCmd creates the parent config command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "config",
		Short:        "Inspect the mdpctl configuration",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := cmd.Help()
			if err != nil {
				return fmt.Errorf("displaying config command help: %w", err)
			}

			return nil
		},
	}

	cmd.AddCommand(NewShowCmd())

	return cmd
}

// NewShowCmd creates the config show command.
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Long: "Print the configuration after defaults, mdpctl.yaml, MDP_* environment variables " +
			"and flags have been applied.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := helpers.LoadConfig(cmd, nil, true)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(out)
			if err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			return nil
		},
	}
}
