package v1alpha1

import (
	"errors"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

// Validate checks the configuration and returns every problem found, joined.
func (c *Config) Validate() error {
	var errs []error

	if c.APIVersion != APIVersion || c.Kind != Kind {
		errs = append(errs, fmt.Errorf("%w: got %s %s, want %s %s",
			ErrInvalidAPIVersion, c.APIVersion, c.Kind, APIVersion, Kind))
	}

	errs = append(errs, c.Spec.Connection.validate()...)

	if c.Spec.Polling.Interval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("%w: polling.interval", ErrInvalidDuration))
	}

	if c.Spec.Polling.Timeout.Duration <= 0 {
		errs = append(errs, fmt.Errorf("%w: polling.timeout", ErrInvalidDuration))
	}

	if c.Spec.Polling.DeleteTimeout.Duration <= 0 {
		errs = append(errs, fmt.Errorf("%w: polling.deleteTimeout", ErrInvalidDuration))
	}

	errs = append(errs, validateStages(c.Spec.Stages, c.Spec.Smoke)...)
	errs = append(errs, validateJobs(c.Spec.Pipeline.Jobs)...)

	return errors.Join(errs...)
}

func (c Connection) validate() []error {
	var errs []error

	if msgs := validation.IsDNS1123Label(c.Namespace); len(msgs) > 0 {
		errs = append(errs, fmt.Errorf("%w: %q: %s", ErrInvalidNamespace, c.Namespace, strings.Join(msgs, "; ")))
	}

	switch c.Backend {
	case BackendCLI:
		if strings.TrimSpace(c.Binary) == "" {
			errs = append(errs, ErrMissingBinary)
		}
	case BackendAPI:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidBackend, c.Backend))
	}

	return errs
}

func validateStages(stages []Stage, smoke Smoke) []error {
	var errs []error

	seen := make(map[string]bool, len(stages))

	for i, stage := range stages {
		if stage.Name == "" {
			errs = append(errs, fmt.Errorf("%w: stage %d has no name", ErrInvalidStage, i))

			continue
		}

		if seen[stage.Name] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateStage, stage.Name))
		}

		seen[stage.Name] = true

		switch stage.Kind {
		case "", StageKindManifest:
			if stage.Wait != nil {
				if err := stage.Wait.validate(); err != nil {
					errs = append(errs, fmt.Errorf("stage %s: %w", stage.Name, err))
				}
			}

			if stage.Secret != nil && (stage.Secret.Name == "" || stage.Secret.EnvFile == "") {
				errs = append(errs, fmt.Errorf("%w: %s: secret needs name and envFile", ErrInvalidStage, stage.Name))
			}
		case StageKindSmoke:
			if smoke.Application == "" || smoke.Manifest == "" {
				errs = append(errs, fmt.Errorf("%w: stage %s needs smoke.application and smoke.manifest",
					ErrInvalidSmoke, stage.Name))
			}
		default:
			errs = append(errs, fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidStage, stage.Name, stage.Kind))
		}

		for _, res := range stage.Resources {
			if res.Kind == "" || res.Name == "" {
				errs = append(errs, fmt.Errorf("%w: %s: resources need kind and name", ErrInvalidStage, stage.Name))
			}
		}
	}

	return errs
}

func (w Wait) validate() error {
	switch w.Kind {
	case WaitKindStatefulSet, WaitKindDeployment, WaitKindPod:
		if w.Name == "" {
			return fmt.Errorf("%w: %s wait needs a name", ErrInvalidWait, w.Kind)
		}
	case WaitKindPods:
		if w.Selector == "" {
			return fmt.Errorf("%w: pods wait needs a selector", ErrInvalidWait)
		}
	case WaitKindStatus:
		if w.Resource == "" || w.Name == "" || w.StatusPath == "" || len(w.ReadyValues) == 0 {
			return fmt.Errorf("%w: status wait needs resource, name, statusPath and readyValues", ErrInvalidWait)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidWait, w.Kind)
	}

	if w.Timeout.Duration < 0 || w.Interval.Duration < 0 {
		return fmt.Errorf("%w: negative wait timing", ErrInvalidDuration)
	}

	return nil
}

func validateJobs(jobs []SparkJob) []error {
	var errs []error

	seen := make(map[string]bool, len(jobs))

	for _, job := range jobs {
		if job.Name == "" || job.Application == "" || job.Manifest == "" {
			errs = append(errs, fmt.Errorf("%w: name, application and manifest are required", ErrInvalidJob))

			continue
		}

		if seen[job.Name] {
			errs = append(errs, fmt.Errorf("%w: duplicate job %s", ErrInvalidJob, job.Name))
		}

		seen[job.Name] = true

		if job.Timeout.Duration <= 0 {
			errs = append(errs, fmt.Errorf("%w: pipeline job %s timeout", ErrInvalidDuration, job.Name))
		}
	}

	return errs
}
