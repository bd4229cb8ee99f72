package k8s

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

// MockClient is a mock implementation of the Client interface for testing.
type MockClient struct {
	mock.Mock
}

var _ Client = (*MockClient)(nil)

// NewMockClient creates a new MockClient instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// WhoAmI mocks returning the authenticated user.
func (m *MockClient) WhoAmI(ctx context.Context) (string, error) {
	args := m.Called(ctx)

	return args.String(0), args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// CRDExists mocks the CRD lookup.
func (m *MockClient) CRDExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)

	return args.Bool(0), args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ApplyFile mocks applying a manifest path.
func (m *MockClient) ApplyFile(ctx context.Context, path string) error {
	args := m.Called(ctx, path)

	return args.Error(0) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ApplyObject mocks applying an in-memory object.
func (m *MockClient) ApplyObject(ctx context.Context, obj runtime.Object) error {
	args := m.Called(ctx, obj)

	return args.Error(0) //nolint:wrapcheck // Mock function, wrapping not needed
}

// StatefulSet mocks reading a StatefulSet.
func (m *MockClient) StatefulSet(ctx context.Context, ref ResourceRef) (*appsv1.StatefulSet, error) {
	args := m.Called(ctx, ref)

	result, _ := args.Get(0).(*appsv1.StatefulSet)

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// Deployment mocks reading a Deployment.
func (m *MockClient) Deployment(ctx context.Context, ref ResourceRef) (*appsv1.Deployment, error) {
	args := m.Called(ctx, ref)

	result, _ := args.Get(0).(*appsv1.Deployment)

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// Pod mocks reading a Pod.
func (m *MockClient) Pod(ctx context.Context, ref ResourceRef) (*corev1.Pod, error) {
	args := m.Called(ctx, ref)

	result, _ := args.Get(0).(*corev1.Pod)

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ListPods mocks listing pods by selector.
func (m *MockClient) ListPods(ctx context.Context, namespace, selector string) ([]corev1.Pod, error) {
	args := m.Called(ctx, namespace, selector)

	result, ok := args.Get(0).([]corev1.Pod)
	if !ok {
		return nil, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
	}

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// Get mocks a generic read.
func (m *MockClient) Get(ctx context.Context, ref ResourceRef) (*unstructured.Unstructured, error) {
	args := m.Called(ctx, ref)

	result, _ := args.Get(0).(*unstructured.Unstructured)

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// Nodes mocks listing nodes.
func (m *MockClient) Nodes(ctx context.Context) ([]corev1.Node, error) {
	args := m.Called(ctx)

	result, ok := args.Get(0).([]corev1.Node)
	if !ok {
		return nil, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
	}

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// Logs mocks reading pod logs.
func (m *MockClient) Logs(ctx context.Context, namespace, selector string, tail int) (string, error) {
	args := m.Called(ctx, namespace, selector, tail)

	return args.String(0), args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// Describe mocks describing an object.
func (m *MockClient) Describe(ctx context.Context, ref ResourceRef) (string, error) {
	args := m.Called(ctx, ref)

	return args.String(0), args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// Exec mocks running a command in a pod.
func (m *MockClient) Exec(ctx context.Context, namespace, pod string, command []string) (string, error) {
	args := m.Called(ctx, namespace, pod, command)

	return args.String(0), args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// Delete mocks deleting an object.
func (m *MockClient) Delete(ctx context.Context, ref ResourceRef, timeout time.Duration) error {
	args := m.Called(ctx, ref, timeout)

	return args.Error(0) //nolint:wrapcheck // Mock function, wrapping not needed
}

// DeleteAll mocks bulk deletion.
func (m *MockClient) DeleteAll(ctx context.Context, namespace string, kinds []string, timeout time.Duration) error {
	args := m.Called(ctx, namespace, kinds, timeout)

	return args.Error(0) //nolint:wrapcheck // Mock function, wrapping not needed
}
