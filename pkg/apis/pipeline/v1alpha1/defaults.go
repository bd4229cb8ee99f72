package v1alpha1

import (
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// DefaultConfigName is the configuration file looked up in the working directory.
	DefaultConfigName = "mdpctl"
	// DefaultNamespace is the namespace the stack is deployed into.
	DefaultNamespace = "md-pipeline"
	// DefaultBinary is the cluster CLI used by the cli backend.
	DefaultBinary = "oc"
	// DefaultPollInterval is the fixed readiness polling interval.
	DefaultPollInterval = 10 * time.Second
	// DefaultWaitTimeout applies to stages without their own timeout.
	DefaultWaitTimeout = 300 * time.Second
	// DefaultDeleteTimeout bounds every single deletion during rollback.
	DefaultDeleteTimeout = 60 * time.Second
	// DefaultCredentialsSecret is the Secret built from the credentials env file.
	DefaultCredentialsSecret = "mdp-credentials"
	// DefaultCredentialsEnvFile points at the operator supplied credentials file.
	DefaultCredentialsEnvFile = "${MDP_CREDENTIALS_FILE}"
	// DefaultSmokeApplication is the throwaway SparkApplication name.
	DefaultSmokeApplication = "mdp-smoke"
	// DefaultSuccessMarker is the log sentinel of a passing smoke test.
	DefaultSuccessMarker = "SMOKE_OK"
	// DefaultFailureMarker is the log sentinel of a failing smoke test.
	DefaultFailureMarker = "SMOKE_FAIL"
)

// DefaultCRDs are the custom resource definitions the stack depends on.
func DefaultCRDs() []string {
	return []string{
		"sparkapplications.sparkoperator.k8s.io",
		"hiveclusters.hive.stackable.tech",
		"trinoclusters.trino.stackable.tech",
	}
}

// DefaultResidualKinds are bulk-deleted after the per-stage rollback.
func DefaultResidualKinds() []string {
	return []string{"all", "pvc", "configmap", "secret"}
}

func duration(d time.Duration) metav1.Duration {
	return metav1.Duration{Duration: d}
}

// NewConfig returns the configuration of the stock lakehouse stack.
func NewConfig() *Config {
	return &Config{
		TypeMeta: metav1.TypeMeta{
			Kind:       Kind,
			APIVersion: APIVersion,
		},
		Spec: NewSpec(),
	}
}

// NewSpec returns the default Spec.
func NewSpec() Spec {
	return Spec{
		Connection: Connection{
			Binary:    DefaultBinary,
			Backend:   BackendCLI,
			Namespace: DefaultNamespace,
		},
		Polling: Polling{
			Interval:      duration(DefaultPollInterval),
			Timeout:       duration(DefaultWaitTimeout),
			DeleteTimeout: duration(DefaultDeleteTimeout),
		},
		Prerequisites: Prerequisites{
			CRDs:              DefaultCRDs(),
			ValidateManifests: true,
		},
		Stages:   NewStages(),
		Smoke:    NewSmoke(),
		Rollback: Rollback{ResidualKinds: DefaultResidualKinds(), DeleteNamespace: true},
		Pipeline: NewPipeline(),
	}
}

// NewStages returns the stock deployment order.
func NewStages() []Stage {
	return []Stage{
		{
			Name:        "namespace",
			Description: "Project namespace",
			Emoji:       "📁",
			Manifests:   []string{"k8s/00-namespace.yaml"},
		},
		{
			Name:        "credentials",
			Description: "Object storage and database credentials",
			Emoji:       "🔑",
			Secret:      &SecretSource{Name: DefaultCredentialsSecret, EnvFile: DefaultCredentialsEnvFile},
			Resources:   []Resource{{Kind: "secret", Name: DefaultCredentialsSecret}},
		},
		{
			Name:        "postgres",
			Description: "PostgreSQL metastore database",
			Emoji:       "🐘",
			Manifests:   []string{"k8s/postgres"},
			Wait: &Wait{
				Kind:     WaitKindStatefulSet,
				Name:     "mdp-postgres",
				Selector: "app.kubernetes.io/name=mdp-postgres",
				Timeout:  duration(300 * time.Second),
			},
			Resources: []Resource{
				{Kind: "configmap", Name: "mdp-postgres-init"},
				{Kind: "service", Name: "mdp-postgres"},
				{Kind: "statefulset", Name: "mdp-postgres"},
			},
		},
		{
			Name:        "hive-metastore",
			Description: "Hive Metastore",
			Emoji:       "🐝",
			Manifests:   []string{"k8s/hive"},
			Wait: &Wait{
				Kind:     WaitKindPods,
				Selector: "app.kubernetes.io/instance=mdp-hive",
				Timeout:  duration(600 * time.Second),
			},
			Resources: []Resource{{Kind: "hivecluster", Name: "mdp-hive"}},
		},
		{
			Name:        "trino",
			Description: "Trino query engine",
			Emoji:       "🔎",
			Manifests:   []string{"k8s/trino"},
			Wait: &Wait{
				Kind:     WaitKindPods,
				Selector: "app.kubernetes.io/instance=mdp-trino",
				Timeout:  duration(600 * time.Second),
			},
			Resources: []Resource{
				{Kind: "trinocatalog", Name: "mdp-iceberg"},
				{Kind: "trinocluster", Name: "mdp-trino"},
			},
		},
		{
			Name:        "spark",
			Description: "Spark service account and job configuration",
			Emoji:       "⚡",
			Manifests:   []string{"k8s/spark/40-rbac.yaml", "k8s/spark/41-config.yaml"},
			Resources: []Resource{
				{Kind: "serviceaccount", Name: "mdp-spark"},
				{Kind: "role", Name: "mdp-spark"},
				{Kind: "rolebinding", Name: "mdp-spark"},
				{Kind: "configmap", Name: "mdp-spark-config"},
				{Kind: "sparkapplication", Name: "mdp-bronze-ingest"},
				{Kind: "sparkapplication", Name: "mdp-silver-build"},
				{Kind: "sparkapplication", Name: "mdp-gold-finalize"},
			},
		},
		{
			Name:        "smoke-test",
			Kind:        StageKindSmoke,
			Description: "Spark to Iceberg smoke test",
			Emoji:       "🧪",
			Resources:   []Resource{{Kind: "sparkapplication", Name: DefaultSmokeApplication}},
		},
	}
}

// NewSmoke returns the default smoke-test settings.
func NewSmoke() Smoke {
	return Smoke{
		Application:   DefaultSmokeApplication,
		Manifest:      "k8s/spark/49-smoke.yaml",
		Timeout:       duration(600 * time.Second),
		Interval:      duration(15 * time.Second),
		SuccessMarker: DefaultSuccessMarker,
		FailureMarker: DefaultFailureMarker,
		LogTail:       200,
	}
}

// NewPipeline returns the default medallion pipeline.
func NewPipeline() Pipeline {
	markers := []string{"Throughput:", "Est. Size:", "Rows:"}

	return Pipeline{
		DataSizeGB:   1024,
		PollInterval: duration(30 * time.Second),
		SettleDelay:  duration(10 * time.Second),
		Jobs: []SparkJob{
			{
				Name:            "bronze",
				Application:     "mdp-bronze-ingest",
				Manifest:        "k8s/spark/42-bronze-ingest.yaml",
				Timeout:         duration(180 * time.Minute),
				TargetExecutors: 48,
				ScaleTimeout:    duration(10 * time.Minute),
				ScaleInterval:   duration(20 * time.Second),
				MetricMarkers:   markers,
			},
			{
				Name:        "silver",
				Application: "mdp-silver-build",
				Manifest:    "k8s/spark/43-silver-build.yaml",
				Timeout:     duration(60 * time.Minute),
			},
			{
				Name:        "gold",
				Application: "mdp-gold-finalize",
				Manifest:    "k8s/spark/44-gold-finalize.yaml",
				Timeout:     duration(30 * time.Minute),
			},
		},
		Trino: Trino{
			CoordinatorSelector: "app.kubernetes.io/instance=mdp-trino,app.kubernetes.io/component=coordinator",
			CLI:                 "trino",
			Queries: []TrinoQuery{
				{
					Name:     "connectivity",
					Catalog:  "iceberg",
					Schema:   "information_schema",
					SQL:      "SELECT 1 AS test",
					Required: true,
				},
				{
					Name:    "bronze",
					Catalog: "iceberg",
					Schema:  "information_schema",
					SQL:     "SELECT 'bronze connectivity' AS status",
					Hint:    "bronze data is not queried through Trino",
				},
				{
					Name:    "silver",
					Catalog: "iceberg",
					Schema:  "silver",
					SQL:     "SELECT COUNT(*) AS silver_row_count FROM iot_daily_city_sensors",
					Hint:    "run the silver job first",
				},
				{
					Name:    "gold",
					Catalog: "iceberg",
					Schema:  "gold",
					SQL:     "SELECT COUNT(*) AS gold_row_count FROM iot_executive_kpis",
					Hint:    "run the gold job first",
				},
			},
		},
	}
}

// TimeoutOr returns the wait timeout, or fallback when unset.
func (w Wait) TimeoutOr(fallback time.Duration) time.Duration {
	if w.Timeout.Duration > 0 {
		return w.Timeout.Duration
	}

	return fallback
}

// IntervalOr returns the wait interval, or fallback when unset.
func (w Wait) IntervalOr(fallback time.Duration) time.Duration {
	if w.Interval.Duration > 0 {
		return w.Interval.Duration
	}

	return fallback
}
