package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// Group is the API group for mdpctl.
	Group = "mdpctl.io"
	// Version is the API version for mdpctl.
	Version = "v1alpha1"
	// Kind is the kind of the configuration document.
	Kind = "Deployment"
	// APIVersion is the full API version for mdpctl.
	APIVersion = Group + "/" + Version
)

// Config is the root of an mdpctl.yaml document.
type Config struct {
	metav1.TypeMeta `json:",inline" mapstructure:",squash"`

	Spec Spec `json:"spec,omitzero"`
}

// Spec describes how the stack is deployed, verified and torn down.
type Spec struct {
	Connection    Connection    `json:"connection,omitzero"`
	Polling       Polling       `json:"polling,omitzero"`
	Prerequisites Prerequisites `json:"prerequisites,omitzero"`
	Stages        []Stage       `json:"stages,omitempty"`
	Smoke         Smoke         `json:"smoke,omitzero"`
	Rollback      Rollback      `json:"rollback,omitzero"`
	Pipeline      Pipeline      `json:"pipeline,omitzero"`
}

// Connection selects the cluster and the access backend.
type Connection struct {
	// Binary is the cluster CLI used by the cli backend (oc or kubectl).
	Binary     string  `json:"binary,omitempty"`
	Backend    Backend `json:"backend,omitempty"`
	Kubeconfig string  `json:"kubeconfig,omitempty"`
	Context    string  `json:"context,omitempty"`
	// Namespace is the target namespace of every namespaced resource.
	Namespace string `json:"namespace,omitempty"`
}

// Polling holds the fallback timings used when a stage does not set its own.
type Polling struct {
	Interval      metav1.Duration `json:"interval,omitzero"`
	Timeout       metav1.Duration `json:"timeout,omitzero"`
	DeleteTimeout metav1.Duration `json:"deleteTimeout,omitzero"`
}

// Prerequisites lists what must exist before anything is applied.
type Prerequisites struct {
	CRDs              []string `json:"crds,omitempty"`
	ValidateManifests bool     `json:"validateManifests,omitempty"`
}

// Stage is one step of the deployment sequence.
type Stage struct {
	Name        string    `json:"name"`
	Kind        StageKind `json:"kind,omitempty"`
	Description string    `json:"description,omitempty"`
	Emoji       string    `json:"emoji,omitempty"`
	// Manifests are files or directories applied in order.
	Manifests []string      `json:"manifests,omitempty"`
	Secret    *SecretSource `json:"secret,omitempty"`
	Wait      *Wait         `json:"wait,omitempty"`
	// Resources are deleted in reverse order on rollback.
	Resources []Resource `json:"resources,omitempty"`
	// Optional stages never abort the run when they fail.
	Optional bool `json:"optional,omitempty"`
}

// SecretSource builds an Opaque Secret from a dotenv file.
type SecretSource struct {
	Name    string `json:"name"`
	EnvFile string `json:"envFile"`
}

// Wait is the readiness check of a stage.
type Wait struct {
	Kind         WaitKind        `json:"kind"`
	Name         string          `json:"name,omitempty"`
	Resource     string          `json:"resource,omitempty"`
	// Selector picks the pods a pods wait counts. For other kinds it only selects the
	// pods whose logs diagnostics show.
	Selector     string          `json:"selector,omitempty"`
	StatusPath   string          `json:"statusPath,omitempty"`
	ReadyValues  []string        `json:"readyValues,omitempty"`
	FailedValues []string        `json:"failedValues,omitempty"`
	Timeout      metav1.Duration `json:"timeout,omitzero"`
	Interval     metav1.Duration `json:"interval,omitzero"`
}

// Resource names an object removed during rollback.
type Resource struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	// ClusterScoped resources are deleted without a namespace.
	ClusterScoped bool `json:"clusterScoped,omitempty"`
}

// Smoke configures the throwaway SparkApplication run after the stack is up.
type Smoke struct {
	Application    string          `json:"application,omitempty"`
	Manifest       string          `json:"manifest,omitempty"`
	Timeout        metav1.Duration `json:"timeout,omitzero"`
	Interval       metav1.Duration `json:"interval,omitzero"`
	SuccessMarker  string          `json:"successMarker,omitempty"`
	FailureMarker  string          `json:"failureMarker,omitempty"`
	StrictSentinel bool            `json:"strictSentinel,omitempty"`
	LogTail        int             `json:"logTail,omitempty"`
}

// Rollback configures the teardown after the per-stage deletions.
type Rollback struct {
	ResidualKinds   []string `json:"residualKinds,omitempty"`
	DeleteNamespace bool     `json:"deleteNamespace,omitempty"`
}

// Pipeline configures the medallion Spark jobs and their validation.
type Pipeline struct {
	DataSizeGB   float64         `json:"dataSizeGB,omitempty"`
	PollInterval metav1.Duration `json:"pollInterval,omitzero"`
	SettleDelay  metav1.Duration `json:"settleDelay,omitzero"`
	Jobs         []SparkJob      `json:"jobs,omitempty"`
	Trino        Trino           `json:"trino,omitzero"`
}

// SparkJob is one SparkApplication of the pipeline.
type SparkJob struct {
	Name        string          `json:"name"`
	Application string          `json:"application"`
	Manifest    string          `json:"manifest"`
	Timeout     metav1.Duration `json:"timeout,omitzero"`
	// TargetExecutors enables the executor scale-up monitor when positive.
	TargetExecutors int             `json:"targetExecutors,omitempty"`
	ScaleTimeout    metav1.Duration `json:"scaleTimeout,omitzero"`
	ScaleInterval   metav1.Duration `json:"scaleInterval,omitzero"`
	// MetricMarkers select driver log lines echoed as performance info.
	MetricMarkers []string `json:"metricMarkers,omitempty"`
}

// Trino configures post-pipeline validation through the coordinator pod.
type Trino struct {
	CoordinatorSelector string       `json:"coordinatorSelector,omitempty"`
	CLI                 string       `json:"cli,omitempty"`
	Queries             []TrinoQuery `json:"queries,omitempty"`
}

// TrinoQuery is a validation query. Only required queries fail validation.
type TrinoQuery struct {
	Name     string `json:"name"`
	Catalog  string `json:"catalog,omitempty"`
	Schema   string `json:"schema,omitempty"`
	SQL      string `json:"sql"`
	Required bool   `json:"required,omitempty"`
	Hint     string `json:"hint,omitempty"`
}

// IsSmoke reports whether the stage runs the smoke monitor instead of apply and wait.
func (s Stage) IsSmoke() bool {
	return s.Kind == StageKindSmoke
}

// Job returns the pipeline job with the given name.
func (p Pipeline) Job(name string) (SparkJob, bool) {
	for _, job := range p.Jobs {
		if job.Name == name {
			return job, true
		}
	}

	return SparkJob{}, false
}
