package readiness

import (
	"time"

	"github.com/mdpipeline/mdpctl/pkg/k8s"
)

// Kind selects the readiness predicate.
type Kind string

const (
	// KindStatefulSet is ready when readyReplicas equals the desired replicas and is non-zero.
	KindStatefulSet Kind = "statefulset"
	// KindDeployment is ready when availableReplicas equals the desired replicas and is non-zero.
	KindDeployment Kind = "deployment"
	// KindPod is ready when the pod is Running and failed when it is Failed.
	KindPod Kind = "pod"
	// KindPods is ready when the selector matches pods and none of them has failed.
	KindPods Kind = "pods"
	// KindStatus is ready when a status field holds one of the ready values.
	KindStatus Kind = "status"
)

// State is the outcome of a readiness check.
type State string

const (
	// StatePending means the resource is missing or not ready yet.
	StatePending State = "Pending"
	// StateReady means the predicate holds.
	StateReady State = "Ready"
	// StateFailed means the resource reached a terminal failure.
	StateFailed State = "Failed"
	// StateTimedOut means the timeout elapsed before the resource became ready.
	StateTimedOut State = "TimedOut"
)

// Check is a single readiness request.
type Check struct {
	Kind Kind
	// Ref names the resource. For KindPods only Ref.Namespace is used; for KindStatus
	// Ref.Kind is the resource type to read.
	Ref      k8s.ResourceRef
	Selector string
	// StatusPath is a dotted field path such as "status.phase".
	StatusPath   string
	ReadyValues  []string
	FailedValues []string
	Timeout      time.Duration
	Interval     time.Duration
}

// Target renders what the check waits for, for messages.
func (c Check) Target() string {
	if c.Kind == KindPods {
		return "pods " + c.Selector
	}

	return c.Ref.String()
}

// Result is the outcome of Wait or Probe.
type Result struct {
	State State
	// Detail describes the last observation, e.g. "2/3 replicas ready".
	Detail  string
	Elapsed time.Duration
	Polls   int
	// Err is set when the state is not Ready: ErrResourceFailed, ErrTimeoutExceeded
	// or the context error.
	Err error
}

// Ready reports whether the check succeeded.
func (r Result) Ready() bool {
	return r.State == StateReady
}
