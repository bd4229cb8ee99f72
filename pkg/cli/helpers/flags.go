package helpers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mdpipeline/mdpctl/pkg/utils/timer"
	"github.com/spf13/cobra"
)

// Global flag names.
const (
	ConfigFlagName     = "config"
	NamespaceFlagName  = "namespace"
	KubeconfigFlagName = "kubeconfig"
	ContextFlagName    = "context"
	BinaryFlagName     = "binary"
	BackendFlagName    = "backend"
	VerboseFlagName    = "verbose"
	TimingFlagName     = "timing"
)

var (
	errNilCommand   = errors.New("command is nil")
	errFlagNotFound = errors.New("flag not found")
)

// IsTimingEnabled reports whether --timing is set on cmd or inherited from a parent.
func IsTimingEnabled(cmd *cobra.Command) (bool, error) {
	return boolFlag(cmd, TimingFlagName)
}

// IsVerbose reports whether --verbose is set on cmd or inherited from a parent.
func IsVerbose(cmd *cobra.Command) (bool, error) {
	return boolFlag(cmd, VerboseFlagName)
}

// MaybeTimer returns tmr when timing output is enabled for cmd, and nil otherwise.
func MaybeTimer(cmd *cobra.Command, tmr timer.Timer) timer.Timer {
	if cmd == nil || tmr == nil {
		return nil
	}

	enabled, err := IsTimingEnabled(cmd)
	if err != nil || !enabled {
		return nil
	}

	return tmr
}

// StringFlag returns the value of a local, persistent or inherited string flag. A missing
// flag yields the empty string.
func StringFlag(cmd *cobra.Command, name string) string {
	if cmd == nil {
		return ""
	}

	flag := cmd.Flag(name)
	if flag == nil {
		return ""
	}

	return flag.Value.String()
}

func boolFlag(cmd *cobra.Command, name string) (bool, error) {
	if cmd == nil {
		return false, errNilCommand
	}

	flag := cmd.Flag(name)
	if flag == nil {
		return false, fmt.Errorf("%w: %s", errFlagNotFound, name)
	}

	value, err := strconv.ParseBool(flag.Value.String())
	if err != nil {
		return false, fmt.Errorf("flag %s: %w", name, err)
	}

	return value, nil
}
