package v1alpha1

import "errors"

// ErrInvalidAPIVersion is returned when the document has an unexpected apiVersion or kind.
var ErrInvalidAPIVersion = errors.New("invalid apiVersion or kind")

// ErrInvalidBackend is returned when an unknown backend is configured.
var ErrInvalidBackend = errors.New("invalid backend")

// ErrInvalidNamespace is returned when the namespace is not a DNS-1123 label.
var ErrInvalidNamespace = errors.New("invalid namespace")

// ErrMissingBinary is returned when the cli backend has no binary configured.
var ErrMissingBinary = errors.New("cluster CLI binary is required for the cli backend")

// ErrInvalidStage is returned when a stage definition is incomplete or inconsistent.
var ErrInvalidStage = errors.New("invalid stage")

// ErrDuplicateStage is returned when two stages share a name.
var ErrDuplicateStage = errors.New("duplicate stage name")

// ErrInvalidWait is returned when a readiness check lacks the fields its kind requires.
var ErrInvalidWait = errors.New("invalid wait")

// ErrInvalidSmoke is returned when a smoke stage is configured without an application or manifest.
var ErrInvalidSmoke = errors.New("invalid smoke configuration")

// ErrInvalidJob is returned when a pipeline job is incomplete.
var ErrInvalidJob = errors.New("invalid pipeline job")

// ErrInvalidDuration is returned when a required duration is not positive.
var ErrInvalidDuration = errors.New("duration must be positive")
