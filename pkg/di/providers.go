package di

import (
	"io"

	"github.com/mdpipeline/mdpctl/pkg/cli/ui/confirm"
	"github.com/mdpipeline/mdpctl/pkg/client"
	"github.com/mdpipeline/mdpctl/pkg/svc/deployer"
	"github.com/mdpipeline/mdpctl/pkg/utils/timer"
	"github.com/samber/do/v2"
)

// GateFactory builds the operator gate of a command.
type GateFactory func(writer io.Writer, nonInteractive bool) deployer.Gate

// Dependency providers.

// NewRuntime constructs the shared runtime container used by root command and tests.
// It registers the timer, the cluster client factory and the gate factory.
func NewRuntime() *Runtime {
	return New(
		provideTimer,
		provideClientFactory,
		provideGateFactory,
	)
}

func provideTimer(i Injector) error {
	do.Provide(i, func(Injector) (timer.Timer, error) {
		return timer.New(), nil
	})

	return nil
}

func provideClientFactory(i Injector) error {
	do.Provide(i, func(Injector) (client.Factory, error) {
		return client.DefaultFactory{}, nil
	})

	return nil
}

func provideGateFactory(i Injector) error {
	do.Provide(i, func(Injector) (GateFactory, error) {
		return func(writer io.Writer, nonInteractive bool) deployer.Gate {
			return confirm.NewGate(writer, nonInteractive)
		}, nil
	})

	return nil
}
