package di

import (
	"fmt"

	"github.com/mdpipeline/mdpctl/pkg/client"
	"github.com/mdpipeline/mdpctl/pkg/utils/timer"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Dependency resolvers.

// ResolveTimer retrieves the timer dependency from the injector with consistent error handling.
func ResolveTimer(injector Injector) (timer.Timer, error) {
	tmr, err := do.Invoke[timer.Timer](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve timer dependency: %w", err)
	}

	return tmr, nil
}

// ResolveClientFactory retrieves the cluster client factory.
func ResolveClientFactory(injector Injector) (client.Factory, error) {
	factory, err := do.Invoke[client.Factory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve client factory dependency: %w", err)
	}

	return factory, nil
}

// ResolveGateFactory retrieves the operator gate factory.
func ResolveGateFactory(injector Injector) (GateFactory, error) {
	factory, err := do.Invoke[GateFactory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve gate factory dependency: %w", err)
	}

	return factory, nil
}

// Handler decorators.

// WithTimer decorates a handler to automatically resolve the timer dependency.
func WithTimer(
	handler func(cmd *cobra.Command, injector Injector, tmr timer.Timer) error,
) func(cmd *cobra.Command, injector Injector) error {
	return func(cmd *cobra.Command, injector Injector) error {
		tmr, err := ResolveTimer(injector)
		if err != nil {
			return err
		}

		return handler(cmd, injector, tmr)
	}
}
