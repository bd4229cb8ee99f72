package k8s

import (
	"context"
	"strings"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

// ResourceRef identifies an object by CLI resource name (statefulset, pod, sparkapplication, ...).
// An empty Namespace means the object is cluster scoped.
type ResourceRef struct {
	Kind      string
	Name      string
	Namespace string
}

// String renders the ref the way the CLI prints it, e.g. "statefulset/mdp-postgres".
func (r ResourceRef) String() string {
	return strings.ToLower(r.Kind) + "/" + r.Name
}

// Client is the cluster access used by mdpctl workflows.
type Client interface {
	// WhoAmI returns the authenticated user.
	WhoAmI(ctx context.Context) (string, error)
	// CRDExists reports whether the named CustomResourceDefinition is installed.
	CRDExists(ctx context.Context, name string) (bool, error)

	// ApplyFile applies a manifest file or every manifest in a directory.
	ApplyFile(ctx context.Context, path string) error
	// ApplyObject applies a single in-memory object. The object must carry its TypeMeta.
	ApplyObject(ctx context.Context, obj runtime.Object) error

	StatefulSet(ctx context.Context, ref ResourceRef) (*appsv1.StatefulSet, error)
	Deployment(ctx context.Context, ref ResourceRef) (*appsv1.Deployment, error)
	Pod(ctx context.Context, ref ResourceRef) (*corev1.Pod, error)
	ListPods(ctx context.Context, namespace, selector string) ([]corev1.Pod, error)
	// Get reads any object, typically a custom resource.
	Get(ctx context.Context, ref ResourceRef) (*unstructured.Unstructured, error)
	Nodes(ctx context.Context) ([]corev1.Node, error)

	// Logs returns the last tail lines of every pod matching selector.
	Logs(ctx context.Context, namespace, selector string, tail int) (string, error)
	Describe(ctx context.Context, ref ResourceRef) (string, error)
	Exec(ctx context.Context, namespace, pod string, command []string) (string, error)

	// Delete removes the object and waits up to timeout for it to disappear.
	Delete(ctx context.Context, ref ResourceRef, timeout time.Duration) error
	// DeleteAll removes every object of the given kinds in namespace.
	DeleteAll(ctx context.Context, namespace string, kinds []string, timeout time.Duration) error
}
