// Package forward provides commands managing the environment's port-forwards:
// running them in the foreground, detaching them as a supervised process, and
// probing which local ports are reachable.
package forward

import (
	"fmt"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	"github.com/spf13/cobra"
)

// ForwardsProcessName is the supervised process name detached forwards run
// under. env up starts the same process, so stop and status here manage both
// entry points.
const ForwardsProcessName = "forwards"

// NewForwardCmd creates the parent forward command.
func NewForwardCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "forward",
		Short:        "Manage port-forwards into the cluster",
		Long:         "Establish, detach, stop, and probe the environment's configured port-forwards.",
		Args:         cobra.NoArgs,
		RunE:         handleForwardRunE,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewStartCmd(runtimeContainer))
	cmd.AddCommand(NewStopCmd(runtimeContainer))
	cmd.AddCommand(NewStatusCmd(runtimeContainer))

	return cmd
}

func handleForwardRunE(cmd *cobra.Command, _ []string) error {
	err := cmd.Help()
	if err != nil {
		return fmt.Errorf("displaying forward command help: %w", err)
	}

	return nil
}

// forwardSpecs returns the configured forwards, falling back to the standard
// set when the environment configures none.
func forwardSpecs(env *v1alpha1.Environment) []v1alpha1.ForwardSpec {
	if len(env.Spec.Forwards) > 0 {
		return env.Spec.Forwards
	}

	return v1alpha1.DefaultForwards()
}
