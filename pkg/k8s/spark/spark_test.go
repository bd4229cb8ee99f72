package spark_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mdpipeline/mdpctl/pkg/k8s"
	"github.com/mdpipeline/mdpctl/pkg/k8s/spark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

func application(state string) *unstructured.Unstructured {
	obj := &unstructured.Unstructured{Object: map[string]any{}}
	if state != "" {
		_ = unstructured.SetNestedField(obj.Object, state, "status", "applicationState", "state")
	}

	return obj
}

func TestSelectors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "spark-app-name=mdp-smoke,spark-role=driver", spark.DriverSelector("mdp-smoke"))
	assert.Equal(t, "spark-app-name=mdp-smoke,spark-role=executor", spark.ExecutorSelector("mdp-smoke"))
	assert.Equal(t, "sparkapplication/mdp-smoke", spark.ApplicationRef("mdp-smoke", "md-pipeline").String())
}

func TestIsFailed(t *testing.T) {
	t.Parallel()

	for _, state := range []string{"FAILED", "SUBMISSION_FAILED", "CANCELLED", "ERROR"} {
		assert.True(t, spark.IsFailed(state), state)
	}

	for _, state := range []string{"", "SUBMITTED", "RUNNING", "COMPLETED", "failed"} {
		assert.False(t, spark.IsFailed(state), state)
	}
}

func TestApplicationState(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "RUNNING", spark.ApplicationState(application("RUNNING")))
	assert.Empty(t, spark.ApplicationState(application("")))
	assert.Empty(t, spark.ApplicationState(nil))
}

func TestGetStateAndCountExecutors(t *testing.T) {
	t.Parallel()

	ref := spark.ApplicationRef("mdp-bronze-ingest", "md-pipeline")

	client := k8s.NewMockClient()
	client.On("Get", mock.Anything, ref).Return(application("COMPLETED"), nil)
	client.On("ListPods", mock.Anything, "md-pipeline", spark.ExecutorSelector("mdp-bronze-ingest")).
		Return(make([]corev1.Pod, 3), nil)

	state, err := spark.GetState(context.Background(), client, "mdp-bronze-ingest", "md-pipeline")
	require.NoError(t, err)
	assert.Equal(t, spark.StateCompleted, state)

	count, err := spark.CountExecutors(context.Background(), client, "mdp-bronze-ingest", "md-pipeline")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestGetState_NotFound(t *testing.T) {
	t.Parallel()

	client := k8s.NewMockClient()
	client.On("Get", mock.Anything, mock.Anything).Return(nil, k8s.ErrNotFound)
	client.On("ListPods", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, err := spark.GetState(context.Background(), client, "mdp-smoke", "md-pipeline")
	require.ErrorIs(t, err, k8s.ErrNotFound)

	_, err = spark.CountExecutors(context.Background(), client, "mdp-smoke", "md-pipeline")
	require.Error(t, err)
}
