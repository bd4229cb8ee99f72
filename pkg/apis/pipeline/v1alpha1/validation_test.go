package v1alpha1_test

import (
	"testing"
	"time"

	v1alpha1 "github.com/mdpipeline/mdpctl/pkg/apis/pipeline/v1alpha1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestNewConfig_IsValid(t *testing.T) {
	t.Parallel()

	cfg := v1alpha1.NewConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, v1alpha1.APIVersion, cfg.APIVersion)
	assert.Equal(t, "md-pipeline", cfg.Spec.Connection.Namespace)
	assert.Len(t, cfg.Spec.Prerequisites.CRDs, 3)
}

func TestNewStages_Order(t *testing.T) {
	t.Parallel()

	names := make([]string, 0)
	for _, stage := range v1alpha1.NewStages() {
		names = append(names, stage.Name)
	}

	assert.Equal(t,
		[]string{"namespace", "credentials", "postgres", "hive-metastore", "trino", "spark", "smoke-test"},
		names,
	)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*v1alpha1.Config)
		wantErr error
	}{
		{
			name:    "wrong api version",
			mutate:  func(c *v1alpha1.Config) { c.APIVersion = "example.io/v1alpha1" },
			wantErr: v1alpha1.ErrInvalidAPIVersion,
		},
		{
			name:    "invalid namespace",
			mutate:  func(c *v1alpha1.Config) { c.Spec.Connection.Namespace = "MD_Pipeline" },
			wantErr: v1alpha1.ErrInvalidNamespace,
		},
		{
			name:    "unknown backend",
			mutate:  func(c *v1alpha1.Config) { c.Spec.Connection.Backend = "grpc" },
			wantErr: v1alpha1.ErrInvalidBackend,
		},
		{
			name:    "cli backend without binary",
			mutate:  func(c *v1alpha1.Config) { c.Spec.Connection.Binary = " " },
			wantErr: v1alpha1.ErrMissingBinary,
		},
		{
			name:    "zero interval",
			mutate:  func(c *v1alpha1.Config) { c.Spec.Polling.Interval = metav1.Duration{} },
			wantErr: v1alpha1.ErrInvalidDuration,
		},
		{
			name: "duplicate stage",
			mutate: func(c *v1alpha1.Config) {
				c.Spec.Stages = append(c.Spec.Stages, v1alpha1.Stage{Name: "postgres"})
			},
			wantErr: v1alpha1.ErrDuplicateStage,
		},
		{
			name: "pods wait without selector",
			mutate: func(c *v1alpha1.Config) {
				c.Spec.Stages[3].Wait.Selector = ""
			},
			wantErr: v1alpha1.ErrInvalidWait,
		},
		{
			name: "status wait without ready values",
			mutate: func(c *v1alpha1.Config) {
				c.Spec.Stages[3].Wait = &v1alpha1.Wait{
					Kind:       v1alpha1.WaitKindStatus,
					Resource:   "hivecluster",
					Name:       "mdp-hive",
					StatusPath: "status.phase",
				}
			},
			wantErr: v1alpha1.ErrInvalidWait,
		},
		{
			name:    "smoke stage without manifest",
			mutate:  func(c *v1alpha1.Config) { c.Spec.Smoke.Manifest = "" },
			wantErr: v1alpha1.ErrInvalidSmoke,
		},
		{
			name:    "unknown stage kind",
			mutate:  func(c *v1alpha1.Config) { c.Spec.Stages[0].Kind = "helm" },
			wantErr: v1alpha1.ErrInvalidStage,
		},
		{
			name:    "job without timeout",
			mutate:  func(c *v1alpha1.Config) { c.Spec.Pipeline.Jobs[1].Timeout = metav1.Duration{} },
			wantErr: v1alpha1.ErrInvalidDuration,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			cfg := v1alpha1.NewConfig()
			testCase.mutate(cfg)

			require.ErrorIs(t, cfg.Validate(), testCase.wantErr)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	t.Parallel()

	cfg := v1alpha1.NewConfig()
	cfg.Spec.Connection.Namespace = ""
	cfg.Spec.Connection.Backend = "grpc"

	err := cfg.Validate()

	require.ErrorIs(t, err, v1alpha1.ErrInvalidNamespace)
	require.ErrorIs(t, err, v1alpha1.ErrInvalidBackend)
}

func TestBackendSet_CaseInsensitive(t *testing.T) {
	t.Parallel()

	var backend v1alpha1.Backend

	require.NoError(t, backend.Set("API"))
	assert.Equal(t, v1alpha1.BackendAPI, backend)

	err := backend.Set("grpc")
	require.ErrorIs(t, err, v1alpha1.ErrInvalidBackend)
	assert.Contains(t, err.Error(), "cli")
}

func TestWait_TimingFallbacks(t *testing.T) {
	t.Parallel()

	wait := v1alpha1.Wait{Timeout: metav1.Duration{Duration: time.Minute}}

	assert.Equal(t, time.Minute, wait.TimeoutOr(time.Hour))
	assert.Equal(t, 10*time.Second, wait.IntervalOr(10*time.Second))
}

func TestPipeline_Job(t *testing.T) {
	t.Parallel()

	pipeline := v1alpha1.NewPipeline()

	job, ok := pipeline.Job("bronze")
	require.True(t, ok)
	assert.Equal(t, 48, job.TargetExecutors)
	assert.Equal(t, 180*time.Minute, job.Timeout.Duration)

	_, ok = pipeline.Job("platinum")
	assert.False(t, ok)
}
