// Package spark knows the labels and status fields the Spark operator puts on
// SparkApplications and their pods.
package spark

import (
	"context"
	"fmt"
	"slices"

	"github.com/mdpipeline/mdpctl/pkg/k8s"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// ResourceKind is the CLI resource name of a SparkApplication.
const ResourceKind = "sparkapplication"

// Application states reported in .status.applicationState.state.
const (
	StateCompleted        = "COMPLETED"
	StateFailed           = "FAILED"
	StateSubmissionFailed = "SUBMISSION_FAILED"
	StateCancelled        = "CANCELLED"
	StateError            = "ERROR"
)

// FailedStates are the terminal application states that mean failure.
func FailedStates() []string {
	return []string{StateFailed, StateSubmissionFailed, StateCancelled, StateError}
}

// IsFailed reports whether state is a terminal failure.
func IsFailed(state string) bool {
	return slices.Contains(FailedStates(), state)
}

// ApplicationRef references the SparkApplication app in namespace.
func ApplicationRef(app, namespace string) k8s.ResourceRef {
	return k8s.ResourceRef{Kind: ResourceKind, Name: app, Namespace: namespace}
}

// DriverSelector selects the driver pod of app.
func DriverSelector(app string) string {
	return fmt.Sprintf("spark-app-name=%s,spark-role=driver", app)
}

// ExecutorSelector selects the executor pods of app.
func ExecutorSelector(app string) string {
	return fmt.Sprintf("spark-app-name=%s,spark-role=executor", app)
}

// ApplicationState reads .status.applicationState.state. It is empty until the operator
// has picked the application up.
func ApplicationState(obj *unstructured.Unstructured) string {
	if obj == nil {
		return ""
	}

	state, _, _ := unstructured.NestedString(obj.Object, "status", "applicationState", "state")

	return state
}

// GetState reads the current state of app.
func GetState(ctx context.Context, client k8s.Client, app, namespace string) (string, error) {
	obj, err := client.Get(ctx, ApplicationRef(app, namespace))
	if err != nil {
		return "", fmt.Errorf("failed to get sparkapplication %s: %w", app, err)
	}

	return ApplicationState(obj), nil
}

// CountExecutors returns the number of executor pods of app.
func CountExecutors(ctx context.Context, client k8s.Client, app, namespace string) (int, error) {
	pods, err := client.ListPods(ctx, namespace, ExecutorSelector(app))
	if err != nil {
		return 0, fmt.Errorf("failed to list executors of %s: %w", app, err)
	}

	return len(pods), nil
}
