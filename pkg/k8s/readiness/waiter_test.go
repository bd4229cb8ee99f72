package readiness_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mdpipeline/mdpctl/pkg/k8s"
	"github.com/mdpipeline/mdpctl/pkg/k8s/readiness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/utils/ptr"
)

const namespace = "md-pipeline"

var postgresRef = k8s.ResourceRef{Kind: "statefulset", Name: "mdp-postgres", Namespace: namespace}

func statefulSet(desired, ready int32) *appsv1.StatefulSet {
	return &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{Name: "mdp-postgres", Namespace: namespace},
		Spec:       appsv1.StatefulSetSpec{Replicas: ptr.To(desired)},
		Status:     appsv1.StatefulSetStatus{Replicas: desired, ReadyReplicas: ready},
	}
}

func pods(phases ...corev1.PodPhase) []corev1.Pod {
	result := make([]corev1.Pod, 0, len(phases))

	for i, phase := range phases {
		result = append(result, corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: fmt.Sprintf("mdp-hive-metastore-%d", i)},
			Status:     corev1.PodStatus{Phase: phase},
		})
	}

	return result
}

func TestWait_NeverCreatedResourceTimesOut(t *testing.T) {
	t.Parallel()

	client := k8s.NewMockClient()
	client.On("StatefulSet", mock.Anything, postgresRef).
		Return(nil, fmt.Errorf("oc get statefulset/mdp-postgres: %w", k8s.ErrNotFound))

	interval := 10 * time.Millisecond
	timeout := 80 * time.Millisecond

	result := readiness.NewWaiter(client, interval).Wait(context.Background(), readiness.Check{
		Kind:    readiness.KindStatefulSet,
		Ref:     postgresRef,
		Timeout: timeout,
	})

	assert.Equal(t, readiness.StateTimedOut, result.State)
	require.ErrorIs(t, result.Err, readiness.ErrTimeoutExceeded)
	assert.GreaterOrEqual(t, result.Elapsed, timeout-interval)
	assert.Less(t, result.Elapsed, timeout+time.Second)
	assert.Greater(t, result.Polls, 1)
	assert.Contains(t, result.Detail, "not found yet")
}

func TestWait_StatefulSetReadyOnFirstPoll(t *testing.T) {
	t.Parallel()

	client := k8s.NewMockClient()
	client.On("StatefulSet", mock.Anything, postgresRef).Return(statefulSet(3, 3), nil).Once()

	result := readiness.NewWaiter(client, time.Hour).Wait(context.Background(), readiness.Check{
		Kind:    readiness.KindStatefulSet,
		Ref:     postgresRef,
		Timeout: time.Minute,
	})

	assert.Equal(t, readiness.StateReady, result.State)
	assert.True(t, result.Ready())
	assert.Equal(t, 1, result.Polls)
	assert.Equal(t, "3/3 replicas ready", result.Detail)
	require.NoError(t, result.Err)
	client.AssertExpectations(t)
}

func TestWait_StatefulSetBecomesReady(t *testing.T) {
	t.Parallel()

	client := k8s.NewMockClient()
	client.On("StatefulSet", mock.Anything, postgresRef).Return(nil, k8s.ErrNotFound).Once()
	client.On("StatefulSet", mock.Anything, postgresRef).Return(nil, errors.New("i/o timeout")).Once()
	client.On("StatefulSet", mock.Anything, postgresRef).Return(statefulSet(1, 0), nil).Once()
	client.On("StatefulSet", mock.Anything, postgresRef).Return(statefulSet(1, 1), nil).Once()

	result := readiness.NewWaiter(client, time.Millisecond).Wait(context.Background(), readiness.Check{
		Kind:    readiness.KindStatefulSet,
		Ref:     postgresRef,
		Timeout: 5 * time.Second,
	})

	assert.Equal(t, readiness.StateReady, result.State)
	assert.Equal(t, 4, result.Polls)
	client.AssertExpectations(t)
}

func TestProbe(t *testing.T) {
	t.Parallel()

	hiveSelector := "app.kubernetes.io/instance=mdp-hive"

	tests := []struct {
		name       string
		check      readiness.Check
		setup      func(*k8s.MockClient)
		wantState  readiness.State
		wantDetail string
	}{
		{
			name:  "zero replica statefulset is not ready",
			check: readiness.Check{Kind: readiness.KindStatefulSet, Ref: postgresRef},
			setup: func(c *k8s.MockClient) {
				c.On("StatefulSet", mock.Anything, postgresRef).Return(statefulSet(0, 0), nil)
			},
			wantState:  readiness.StatePending,
			wantDetail: "0/0 replicas ready",
		},
		{
			name: "deployment available",
			check: readiness.Check{
				Kind: readiness.KindDeployment,
				Ref:  k8s.ResourceRef{Kind: "deployment", Name: "spark-operator", Namespace: namespace},
			},
			setup: func(c *k8s.MockClient) {
				c.On("Deployment", mock.Anything, mock.Anything).Return(&appsv1.Deployment{
					Spec:   appsv1.DeploymentSpec{Replicas: ptr.To[int32](2)},
					Status: appsv1.DeploymentStatus{AvailableReplicas: 2},
				}, nil)
			},
			wantState:  readiness.StateReady,
			wantDetail: "2/2 replicas available",
		},
		{
			name:  "running pod",
			check: readiness.Check{Kind: readiness.KindPod, Ref: k8s.ResourceRef{Kind: "pod", Name: "p"}},
			setup: func(c *k8s.MockClient) {
				c.On("Pod", mock.Anything, mock.Anything).
					Return(&corev1.Pod{Status: corev1.PodStatus{Phase: corev1.PodRunning}}, nil)
			},
			wantState:  readiness.StateReady,
			wantDetail: "phase Running",
		},
		{
			name:  "failed pod",
			check: readiness.Check{Kind: readiness.KindPod, Ref: k8s.ResourceRef{Kind: "pod", Name: "p"}},
			setup: func(c *k8s.MockClient) {
				c.On("Pod", mock.Anything, mock.Anything).
					Return(&corev1.Pod{Status: corev1.PodStatus{Phase: corev1.PodFailed}}, nil)
			},
			wantState:  readiness.StateFailed,
			wantDetail: "phase Failed",
		},
		{
			name: "no pods yet",
			check: readiness.Check{
				Kind: readiness.KindPods, Ref: k8s.ResourceRef{Namespace: namespace}, Selector: hiveSelector,
			},
			setup: func(c *k8s.MockClient) {
				c.On("ListPods", mock.Anything, namespace, hiveSelector).Return([]corev1.Pod{}, nil)
			},
			wantState:  readiness.StatePending,
			wantDetail: "no pods match app.kubernetes.io/instance=mdp-hive yet",
		},
		{
			name: "pods present and none failed",
			check: readiness.Check{
				Kind: readiness.KindPods, Ref: k8s.ResourceRef{Namespace: namespace}, Selector: hiveSelector,
			},
			setup: func(c *k8s.MockClient) {
				c.On("ListPods", mock.Anything, namespace, hiveSelector).
					Return(pods(corev1.PodRunning, corev1.PodPending), nil)
			},
			wantState:  readiness.StateReady,
			wantDetail: "2 pods, none failed",
		},
		{
			name: "any failed pod fails the check",
			check: readiness.Check{
				Kind: readiness.KindPods, Ref: k8s.ResourceRef{Namespace: namespace}, Selector: hiveSelector,
			},
			setup: func(c *k8s.MockClient) {
				c.On("ListPods", mock.Anything, namespace, hiveSelector).
					Return(pods(corev1.PodRunning, corev1.PodFailed), nil)
			},
			wantState:  readiness.StateFailed,
			wantDetail: "1/2 pods failed",
		},
		{
			name: "custom resource status ready",
			check: readiness.Check{
				Kind:         readiness.KindStatus,
				Ref:          k8s.ResourceRef{Kind: "sparkapplication", Name: "mdp-smoke", Namespace: namespace},
				StatusPath:   "status.applicationState.state",
				ReadyValues:  []string{"COMPLETED"},
				FailedValues: []string{"FAILED"},
			},
			setup: func(c *k8s.MockClient) {
				c.On("Get", mock.Anything, mock.Anything).Return(&unstructured.Unstructured{Object: map[string]any{
					"status": map[string]any{"applicationState": map[string]any{"state": "COMPLETED"}},
				}}, nil)
			},
			wantState:  readiness.StateReady,
			wantDetail: "status.applicationState.state=COMPLETED",
		},
		{
			name: "custom resource without status",
			check: readiness.Check{
				Kind:        readiness.KindStatus,
				Ref:         k8s.ResourceRef{Kind: "sparkapplication", Name: "mdp-smoke", Namespace: namespace},
				StatusPath:  "status.applicationState.state",
				ReadyValues: []string{"COMPLETED"},
			},
			setup: func(c *k8s.MockClient) {
				c.On("Get", mock.Anything, mock.Anything).
					Return(&unstructured.Unstructured{Object: map[string]any{}}, nil)
			},
			wantState:  readiness.StatePending,
			wantDetail: "sparkapplication/mdp-smoke has no status.applicationState.state yet",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			client := k8s.NewMockClient()
			testCase.setup(client)

			result := readiness.NewWaiter(client, 0).Probe(context.Background(), testCase.check)

			assert.Equal(t, testCase.wantState, result.State)
			assert.Contains(t, result.Detail, testCase.wantDetail)
			assert.Equal(t, 1, result.Polls)

			if testCase.wantState == readiness.StateFailed {
				require.ErrorIs(t, result.Err, readiness.ErrResourceFailed)
			}
		})
	}
}

func TestWait_FailedStopsPolling(t *testing.T) {
	t.Parallel()

	selector := "app.kubernetes.io/instance=mdp-trino"

	client := k8s.NewMockClient()
	client.On("ListPods", mock.Anything, namespace, selector).Return(pods(corev1.PodFailed), nil).Once()

	result := readiness.NewWaiter(client, time.Millisecond).Wait(context.Background(), readiness.Check{
		Kind:     readiness.KindPods,
		Ref:      k8s.ResourceRef{Namespace: namespace},
		Selector: selector,
		Timeout:  time.Minute,
	})

	assert.Equal(t, readiness.StateFailed, result.State)
	require.ErrorIs(t, result.Err, readiness.ErrResourceFailed)
	assert.Equal(t, 1, result.Polls)
	client.AssertExpectations(t)
}

func TestWait_UnknownKind(t *testing.T) {
	t.Parallel()

	result := readiness.NewWaiter(k8s.NewMockClient(), time.Millisecond).Wait(context.Background(),
		readiness.Check{Kind: "daemonset", Timeout: time.Second})

	assert.Equal(t, readiness.StateFailed, result.State)
	require.Error(t, result.Err)
	assert.NotErrorIs(t, result.Err, readiness.ErrTimeoutExceeded)
}
