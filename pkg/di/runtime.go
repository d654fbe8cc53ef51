// Package di provides the dependency injection runtime shared by all commands.
//
// Commands receive a [Runtime] at construction time and call [RunEWithRuntime]
// to obtain a cobra RunE function. Each invocation builds a fresh injector,
// applies the runtime's modules plus any invocation-specific extras, and shuts
// the injector down when the handler returns. This keeps command executions
// isolated from each other while still sharing provider wiring.
package di

import (
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Injector is the dependency injection container passed to modules and handlers.
type Injector = do.Injector

// Module registers one or more dependencies with the injector.
// Nil modules are skipped so callers can pass optional modules unconditionally.
type Module func(Injector) error

// Runtime holds the module list applied to every invocation.
type Runtime struct {
	modules []Module
}

// New creates a runtime with the given base modules.
func New(modules ...Module) *Runtime {
	return &Runtime{modules: modules}
}

// Invoke runs the handler against a fresh injector populated by the runtime's
// base modules followed by the extra modules, in order. Module errors abort the
// invocation before the handler runs. The injector is shut down afterwards.
func (r *Runtime) Invoke(handler func(Injector) error, extra ...Module) error {
	injector := do.New()
	defer injector.Shutdown()

	for _, module := range r.modules {
		if module == nil {
			continue
		}

		if err := module(injector); err != nil {
			return err
		}
	}

	for _, module := range extra {
		if module == nil {
			continue
		}

		if err := module(injector); err != nil {
			return err
		}
	}

	return handler(injector)
}

// RunEWithRuntime adapts an injector-aware handler to a cobra RunE function.
func RunEWithRuntime(
	runtime *Runtime,
	handler func(cmd *cobra.Command, injector Injector) error,
	extra ...Module,
) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return runtime.Invoke(func(injector Injector) error {
			return handler(cmd, injector)
		}, extra...)
	}
}
