package pipeline_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/mdpipeline/mdpctl/pkg/k8s"
	"github.com/mdpipeline/mdpctl/pkg/svc/pipeline"
	"github.com/mdpipeline/mdpctl/pkg/svc/smoke"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const coordinatorSelector = "app.kubernetes.io/component=coordinator"

var (
	connectivityCommand = []string{
		"trino", "--catalog", "iceberg", "--schema", "information_schema", "--execute", "SELECT 1",
	}
	silverCommand = []string{
		"trino", "--catalog", "iceberg", "--schema", "silver", "--execute", "SELECT COUNT(*) FROM t",
	}
)

func coordinatorPods() []corev1.Pod {
	return []corev1.Pod{
		{ObjectMeta: metav1.ObjectMeta{Name: "mdp-trino-coordinator-old"}, Status: corev1.PodStatus{Phase: corev1.PodFailed}},
		{ObjectMeta: metav1.ObjectMeta{Name: "mdp-trino-coordinator-0"}, Status: corev1.PodStatus{Phase: corev1.PodRunning}},
	}
}

func node(name string, ready bool, roles ...string) corev1.Node {
	status := corev1.ConditionFalse
	if ready {
		status = corev1.ConditionTrue
	}

	labels := map[string]string{}
	for _, role := range roles {
		labels["node-role.kubernetes.io/"+role] = ""
	}

	return corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name, Labels: labels},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{{Type: corev1.NodeReady, Status: status}},
			Allocatable: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("16"),
				corev1.ResourceMemory: resource.MustParse("64Gi"),
			},
		},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		connectivity error
		silver       error
		expectedErr  error
		expectedOut  []string
	}{
		{
			name:        "all queries succeed",
			expectedOut: []string{"using trino pod mdp-trino-coordinator-0", "[INFO] silver: 42", "[SUCCESS] pipeline validation completed"},
		},
		{
			name:        "optional query failure is a warning",
			silver:      errExecFailed,
			expectedOut: []string{"[WARNING] silver not accessible (run the silver job first)", "[SUCCESS]"},
		},
		{
			name:         "required query failure fails validation",
			connectivity: errExecFailed,
			expectedErr:  pipeline.ErrValidationFailed,
			expectedOut:  []string{"[ERROR] connectivity query failed"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			client := k8s.NewMockClient()
			client.On("ListPods", mock.Anything, namespace, coordinatorSelector).Return(coordinatorPods(), nil)
			client.On("Exec", mock.Anything, namespace, "mdp-trino-coordinator-0", connectivityCommand).
				Return("1", testCase.connectivity)
			client.On("Exec", mock.Anything, namespace, "mdp-trino-coordinator-0", silverCommand).
				Return("42", testCase.silver).Maybe()

			var out bytes.Buffer

			err := newRunner(client, &out, passingSmoke(), config()).Validate(context.Background())

			if testCase.expectedErr != nil {
				require.ErrorIs(t, err, testCase.expectedErr)
				client.AssertNotCalled(t, "Exec", mock.Anything, namespace, "mdp-trino-coordinator-0", silverCommand)
			} else {
				require.NoError(t, err)
			}

			for _, expected := range testCase.expectedOut {
				assert.Contains(t, out.String(), expected)
			}
		})
	}
}

func TestValidate_NoCoordinator(t *testing.T) {
	t.Parallel()

	client := k8s.NewMockClient()
	client.On("ListPods", mock.Anything, namespace, coordinatorSelector).Return(nil, nil)

	var out bytes.Buffer

	err := newRunner(client, &out, passingSmoke(), config()).Validate(context.Background())

	require.ErrorIs(t, err, pipeline.ErrNoCoordinator)
	client.AssertNotCalled(t, "Exec", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFull_RunsEveryStep(t *testing.T) {
	t.Parallel()

	client := recreated()
	client.On("Nodes", mock.Anything).Return([]corev1.Node{node("worker-0", true, "worker")}, nil)
	client.On("Get", mock.Anything, appRef).Return(application("COMPLETED"), nil)
	client.On("ListPods", mock.Anything, namespace, executorSelector).Return(nil, nil)
	client.On("ListPods", mock.Anything, namespace, coordinatorSelector).Return(nil, nil)

	smokeRunner := passingSmoke()

	var out bytes.Buffer

	summary, err := newRunner(client, &out, smokeRunner, config(bronzeJob())).Full(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, smokeRunner.calls)
	require.Len(t, summary.Jobs, 1)
	assert.Equal(t, "bronze", summary.Jobs[0].Name)
	assert.InDelta(t, 1024, summary.DataSizeGB, 0)
	assert.GreaterOrEqual(t, summary.Total, summary.Jobs[0].Duration)
	assert.Contains(t, out.String(), "worker-0")
	assert.Contains(t, out.String(), "[WARNING] pipeline validation had issues, but core processing completed")
}

func TestFull_AbortsOnSmokeFailure(t *testing.T) {
	t.Parallel()

	client := k8s.NewMockClient()
	client.On("Nodes", mock.Anything).Return(nil, k8s.ErrNotFound)

	smokeRunner := &fakeSmoke{result: smoke.Result{Outcome: smoke.OutcomeFailed, Err: errSmokeTestFails}}

	var out bytes.Buffer

	_, err := newRunner(client, &out, smokeRunner, config(bronzeJob())).Full(context.Background())

	require.ErrorIs(t, err, errSmokeTestFails)
	assert.Contains(t, out.String(), "[WARNING] could not retrieve cluster resource info")
	client.AssertNotCalled(t, "ApplyFile", mock.Anything, mock.Anything)
}

func TestFull_AbortsOnJobFailure(t *testing.T) {
	t.Parallel()

	silver := bronzeJob()
	silver.Name = "silver"

	client := recreated()
	client.On("Nodes", mock.Anything).Return(nil, nil)
	client.On("Get", mock.Anything, appRef).Return(application("FAILED"), nil)
	client.On("ListPods", mock.Anything, namespace, executorSelector).Return(nil, nil)
	client.On("Logs", mock.Anything, namespace, mock.Anything, mock.Anything).Return("", nil)

	var out bytes.Buffer

	_, err := newRunner(client, &out, passingSmoke(), config(bronzeJob(), silver)).Full(context.Background())

	require.ErrorIs(t, err, pipeline.ErrJobFailed)
	assert.Contains(t, out.String(), "[ERROR] bronze failed, aborting pipeline")
	client.AssertNumberOfCalls(t, "ApplyFile", 1)
}

func TestSummaryPrint(t *testing.T) {
	t.Parallel()

	summary := pipeline.Summary{
		DataSizeGB: 1024,
		Jobs: []pipeline.JobTiming{
			{Name: "bronze", Duration: 64 * time.Minute},
			{Name: "silver", Duration: 12*time.Minute + 30*time.Second},
			{Name: "gold", Duration: 3 * time.Minute},
		},
		Total: 80 * time.Minute,
	}

	var out bytes.Buffer

	summary.Print(&out)

	assert.Contains(t, out.String(), "16.0 GB/min")
	assert.Contains(t, out.String(), "overall throughput: 12.8 GB/min")
	snaps.MatchSnapshot(t, out.String())
}

func TestResources(t *testing.T) {
	t.Parallel()

	cordoned := node("worker-1", true, "worker")
	cordoned.Spec.Unschedulable = true

	client := k8s.NewMockClient()
	client.On("Nodes", mock.Anything).Return([]corev1.Node{
		node("master-0", true, "control-plane", "master"),
		cordoned,
		node("worker-2", false),
	}, nil)

	var out bytes.Buffer

	err := newRunner(client, &out, passingSmoke(), config()).Resources(context.Background())

	require.NoError(t, err)
	assert.Contains(t, out.String(), "control-plane,master")
	assert.Contains(t, out.String(), "Ready,SchedulingDisabled")
	assert.Contains(t, out.String(), "<none>")
	assert.Contains(t, out.String(), "[INFO] 3 nodes")
	snaps.MatchSnapshot(t, out.String())
}

func TestRun_Dispatch(t *testing.T) {
	t.Parallel()

	t.Run("smoke", func(t *testing.T) {
		t.Parallel()

		smokeRunner := &fakeSmoke{result: smoke.Result{Outcome: smoke.OutcomeFailed, Err: errSmokeTestFails}}

		var out bytes.Buffer

		err := newRunner(k8s.NewMockClient(), &out, smokeRunner, config()).Run(context.Background(), pipeline.StageSmoke)

		require.ErrorIs(t, err, errSmokeTestFails)
		assert.Equal(t, 1, smokeRunner.calls)
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer

		err := newRunner(k8s.NewMockClient(), &out, passingSmoke(), config()).Run(context.Background(), "platinum")

		require.ErrorIs(t, err, pipeline.ErrUnknownStage)
	})
}

func TestStage_Set(t *testing.T) {
	t.Parallel()

	var stage pipeline.Stage

	require.NoError(t, stage.Set("Bronze"))
	assert.Equal(t, pipeline.StageBronze, stage)
	assert.Equal(t, "bronze", stage.String())
	assert.Equal(t, "stage", stage.Type())

	err := stage.Set("platinum")

	require.ErrorIs(t, err, pipeline.ErrUnknownStage)
	assert.Contains(t, err.Error(), "smoke, bronze, silver, gold, validate, full")
	assert.Equal(t, pipeline.StageBronze, stage)
}
