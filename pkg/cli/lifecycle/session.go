package lifecycle

import (
	"fmt"
	"io"

	v1alpha1 "github.com/mdpipeline/mdpctl/pkg/apis/pipeline/v1alpha1"
	"github.com/mdpipeline/mdpctl/pkg/cli/helpers"
	"github.com/mdpipeline/mdpctl/pkg/di"
	"github.com/mdpipeline/mdpctl/pkg/k8s"
	"github.com/mdpipeline/mdpctl/pkg/k8s/readiness"
	"github.com/mdpipeline/mdpctl/pkg/svc/diagnostics"
	"github.com/mdpipeline/mdpctl/pkg/svc/prereq"
	"github.com/mdpipeline/mdpctl/pkg/svc/smoke"
	"github.com/mdpipeline/mdpctl/pkg/utils/envvar"
	"github.com/mdpipeline/mdpctl/pkg/utils/notify"
	"github.com/mdpipeline/mdpctl/pkg/utils/timer"
	"github.com/spf13/cobra"
)

// Session is the loaded configuration and cluster client of one command run.
type Session struct {
	Config *v1alpha1.Config
	Client k8s.Client
	Writer io.Writer
	// Timer is nil unless --timing is set.
	Timer timer.Timer
}

// NewSession loads the configuration and creates the cluster client for cmd. Command
// output goes through a stage separating writer from here on.
func NewSession(cmd *cobra.Command, injector di.Injector) (*Session, error) {
	tmr, err := di.ResolveTimer(injector)
	if err != nil {
		return nil, err
	}

	tmr.Start()

	writer := notify.NewStageSeparatingWriter(cmd.OutOrStdout())
	cmd.SetOut(writer)

	tmr = helpers.MaybeTimer(cmd, tmr)

	cfg, err := helpers.LoadConfig(cmd, tmr, false)
	if err != nil {
		return nil, err
	}

	factory, err := di.ResolveClientFactory(injector)
	if err != nil {
		return nil, err
	}

	client, err := factory.Create(cfg.Spec.Connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cluster: %w", err)
	}

	return &Session{Config: cfg, Client: client, Writer: writer, Timer: tmr}, nil
}

// Spec returns the loaded spec.
func (s *Session) Spec() v1alpha1.Spec {
	return s.Config.Spec
}

// Namespace returns the target namespace.
func (s *Session) Namespace() string {
	return s.Config.Spec.Connection.Namespace
}

// Reporter returns the diagnostics reporter.
func (s *Session) Reporter() *diagnostics.Reporter {
	return diagnostics.NewReporter(s.Client, s.Writer, diagnostics.DefaultLogTail)
}

// Waiter returns the readiness waiter using the global polling interval.
func (s *Session) Waiter() *readiness.Waiter {
	return readiness.NewWaiter(s.Client, s.Config.Spec.Polling.Interval.Duration)
}

// SmokeMonitor returns the smoke-test monitor.
func (s *Session) SmokeMonitor() *smoke.Monitor {
	return smoke.NewMonitor(s.Client, s.Writer, s.Reporter(), SmokeOptions(s.Config.Spec))
}

// PrereqChecker returns the prerequisite checker. Manifests are only checked for existence
// when prerequisites.validateManifests is set.
func (s *Session) PrereqChecker() *prereq.Checker {
	var manifests []string
	if s.Config.Spec.Prerequisites.ValidateManifests {
		manifests = Manifests(s.Config.Spec)
	}

	return prereq.NewChecker(s.Client, s.Writer, s.Config.Spec.Prerequisites.CRDs, manifests)
}

// SmokeOptions maps the smoke settings of spec to monitor options.
func SmokeOptions(spec v1alpha1.Spec) smoke.Options {
	return smoke.Options{
		Namespace:     spec.Connection.Namespace,
		Application:   spec.Smoke.Application,
		Manifest:      envvar.ExpandPath(spec.Smoke.Manifest),
		Timeout:       spec.Smoke.Timeout.Duration,
		Interval:      spec.Smoke.Interval.Duration,
		DeleteTimeout: spec.Polling.DeleteTimeout.Duration,
		SuccessMarker: spec.Smoke.SuccessMarker,
		FailureMarker: spec.Smoke.FailureMarker,
		Strict:        spec.Smoke.StrictSentinel,
		LogTail:       spec.Smoke.LogTail,
	}
}

// Manifests lists every manifest the stages apply, expanded, plus the smoke manifest when a
// smoke stage is configured.
func Manifests(spec v1alpha1.Spec) []string {
	var manifests []string

	for _, stage := range spec.Stages {
		if stage.IsSmoke() {
			if spec.Smoke.Manifest != "" {
				manifests = append(manifests, envvar.ExpandPath(spec.Smoke.Manifest))
			}

			continue
		}

		for _, manifest := range stage.Manifests {
			manifests = append(manifests, envvar.ExpandPath(manifest))
		}
	}

	return manifests
}
