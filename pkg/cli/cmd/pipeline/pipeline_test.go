package pipeline_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mdpipeline/mdpctl/pkg/apis/pipeline/v1alpha1"
	"github.com/mdpipeline/mdpctl/pkg/cli/cmd"
	"github.com/mdpipeline/mdpctl/pkg/client"
	"github.com/mdpipeline/mdpctl/pkg/di"
	"github.com/mdpipeline/mdpctl/pkg/k8s"
	svcpipeline "github.com/mdpipeline/mdpctl/pkg/svc/pipeline"
	"github.com/mdpipeline/mdpctl/pkg/utils/timer"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const configBody = `apiVersion: mdpctl.io/v1alpha1
kind: Deployment
spec:
  connection:
    namespace: md-pipeline
  pipeline:
    trino:
      coordinatorSelector: app.kubernetes.io/component=coordinator
      cli: trino
      queries:
        - name: connectivity
          sql: SELECT 1
          required: true
`

type fakeFactory struct {
	client k8s.Client
}

func (f fakeFactory) Create(v1alpha1.Connection) (k8s.Client, error) {
	return f.client, nil
}

func execute(t *testing.T, cluster k8s.Client, args ...string) (string, error) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mdpctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configBody), 0o600))

	runtime := di.New(func(i di.Injector) error {
		do.Provide(i, func(di.Injector) (timer.Timer, error) { return timer.New(), nil })
		do.Provide(i, func(di.Injector) (client.Factory, error) { return fakeFactory{client: cluster}, nil })

		return nil
	})

	var out bytes.Buffer

	root := cmd.NewRootCmdWithRuntime(runtime, "test", "test", "test")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", path))

	err := root.Execute()

	return out.String(), err
}

func TestResources(t *testing.T) {
	t.Parallel()

	cluster := k8s.NewMockClient()
	cluster.On("Nodes", mock.Anything).Return([]corev1.Node{{
		ObjectMeta: metav1.ObjectMeta{
			Name:   "worker-0",
			Labels: map[string]string{"node-role.kubernetes.io/worker": ""},
		},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{{Type: corev1.NodeReady, Status: corev1.ConditionTrue}},
			Allocatable: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("8"),
				corev1.ResourceMemory: resource.MustParse("32Gi"),
			},
		},
	}}, nil)

	out, err := execute(t, cluster, "pipeline", "resources")

	require.NoError(t, err)
	assert.Contains(t, out, "worker-0")
	assert.Contains(t, out, "1 nodes")
}

func TestRun_Validate(t *testing.T) {
	t.Parallel()

	cluster := k8s.NewMockClient()
	cluster.On("ListPods", mock.Anything, "md-pipeline", "app.kubernetes.io/component=coordinator").
		Return([]corev1.Pod{{
			ObjectMeta: metav1.ObjectMeta{Name: "mdp-trino-coordinator-0"},
			Status:     corev1.PodStatus{Phase: corev1.PodRunning},
		}}, nil)
	cluster.On("Exec", mock.Anything, "md-pipeline", "mdp-trino-coordinator-0", mock.Anything).
		Return("\"1\"", nil)

	out, err := execute(t, cluster, "pipeline", "run", "--stage", "validate")

	require.NoError(t, err)
	assert.Contains(t, out, "using trino pod mdp-trino-coordinator-0")
	assert.Contains(t, out, "pipeline stage validate finished")
}

func TestRun_ValidateWithoutCoordinator(t *testing.T) {
	t.Parallel()

	cluster := k8s.NewMockClient()
	cluster.On("ListPods", mock.Anything, "md-pipeline", mock.Anything).Return([]corev1.Pod{}, nil)

	_, err := execute(t, cluster, "pipeline", "run", "--stage", "validate")

	require.ErrorIs(t, err, svcpipeline.ErrNoCoordinator)
}

func TestRun_UnknownStage(t *testing.T) {
	t.Parallel()

	_, err := execute(t, k8s.NewMockClient(), "pipeline", "run", "--stage", "platinum")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid options: smoke, bronze, silver, gold, validate, full")
}
