package v1alpha1

import (
	"fmt"
	"strings"
)

// Backend selects how mdpctl talks to the cluster.
type Backend string

const (
	// BackendCLI shells out to the cluster CLI binary.
	BackendCLI Backend = "cli"
	// BackendAPI talks to the API server through client-go.
	BackendAPI Backend = "api"
)

// ValidBackends returns the supported backends.
func ValidBackends() []Backend {
	return []Backend{BackendCLI, BackendAPI}
}

// Set for Backend (pflag.Value interface).
func (b *Backend) Set(value string) error {
	for _, backend := range ValidBackends() {
		if strings.EqualFold(value, string(backend)) {
			*b = backend

			return nil
		}
	}

	return fmt.Errorf("%w: %s (valid options: %s, %s)", ErrInvalidBackend, value, BackendCLI, BackendAPI)
}

// String returns the string representation of the Backend.
func (b *Backend) String() string {
	return string(*b)
}

// Type returns the type of the Backend.
func (b *Backend) Type() string {
	return "Backend"
}

// StageKind selects what a stage does.
type StageKind string

const (
	// StageKindManifest applies manifests and waits for readiness. It is the default.
	StageKindManifest StageKind = "manifest"
	// StageKindSmoke runs the smoke-test monitor.
	StageKindSmoke StageKind = "smoke"
)

// ValidStageKinds returns the supported stage kinds.
func ValidStageKinds() []StageKind {
	return []StageKind{StageKindManifest, StageKindSmoke}
}

// WaitKind selects the readiness predicate of a stage.
type WaitKind string

const (
	// WaitKindStatefulSet waits until readyReplicas equals replicas.
	WaitKindStatefulSet WaitKind = "statefulset"
	// WaitKindDeployment waits until availableReplicas equals replicas.
	WaitKindDeployment WaitKind = "deployment"
	// WaitKindPod waits until a named pod is Running.
	WaitKindPod WaitKind = "pod"
	// WaitKindPods waits until selected pods exist and none has failed.
	WaitKindPods WaitKind = "pods"
	// WaitKindStatus waits until a custom resource status field reaches a ready value.
	WaitKindStatus WaitKind = "status"
)

// ValidWaitKinds returns the supported readiness predicates.
func ValidWaitKinds() []WaitKind {
	return []WaitKind{WaitKindStatefulSet, WaitKindDeployment, WaitKindPod, WaitKindPods, WaitKindStatus}
}
