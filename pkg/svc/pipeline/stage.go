package pipeline

import (
	"fmt"
	"strings"
)

// Stage selects what `pipeline run` executes.
type Stage string

const (
	// StageSmoke runs the smoke test only.
	StageSmoke Stage = "smoke"
	// StageBronze runs the bronze ingest job.
	StageBronze Stage = "bronze"
	// StageSilver runs the silver build job.
	StageSilver Stage = "silver"
	// StageGold runs the gold finalize job.
	StageGold Stage = "gold"
	// StageValidate queries the results through Trino.
	StageValidate Stage = "validate"
	// StageFull runs every stage and prints a performance summary.
	StageFull Stage = "full"
)

// ValidStages returns the accepted --stage values.
func ValidStages() []Stage {
	return []Stage{StageSmoke, StageBronze, StageSilver, StageGold, StageValidate, StageFull}
}

// Set implements pflag.Value.
func (s *Stage) Set(value string) error {
	for _, stage := range ValidStages() {
		if strings.EqualFold(value, string(stage)) {
			*s = stage

			return nil
		}
	}

	return fmt.Errorf("%w: %s (valid options: %s)", ErrUnknownStage, value, joinStages())
}

// String implements pflag.Value.
func (s *Stage) String() string {
	return string(*s)
}

// Type implements pflag.Value.
func (s *Stage) Type() string {
	return "stage"
}

func joinStages() string {
	names := make([]string, 0, len(ValidStages()))
	for _, stage := range ValidStages() {
		names = append(names, string(stage))
	}

	return strings.Join(names, ", ")
}
