// Package rollout provides commands driving the Argo Rollouts controller:
// status, watch, promote, abort, retry, and image updates.
package rollout

import (
	"fmt"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	"github.com/k8s-rollouts/devctl/pkg/client/rollouts"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewRolloutCmd creates the parent rollout command.
func NewRolloutCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollout",
		Short: "Drive the sample application's rollout",
		Long: `Inspect and drive the Argo Rollouts rollout of the sample application: ` +
			`watch progress, promote or abort a paused step, and trigger new revisions.`,
		Args:         cobra.NoArgs,
		RunE:         handleRolloutRunE,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewStatusCmd(runtimeContainer))
	cmd.AddCommand(NewWatchCmd(runtimeContainer))
	cmd.AddCommand(NewPromoteCmd(runtimeContainer))
	cmd.AddCommand(NewAbortCmd(runtimeContainer))
	cmd.AddCommand(NewRetryCmd(runtimeContainer))
	cmd.AddCommand(NewSetImageCmd(runtimeContainer))

	return cmd
}

func handleRolloutRunE(cmd *cobra.Command, _ []string) error {
	err := cmd.Help()
	if err != nil {
		return fmt.Errorf("displaying rollout command help: %w", err)
	}

	return nil
}

// newClient creates a rollouts client scoped to the sample app namespace.
func newClient(env *v1alpha1.Environment) (*rollouts.Client, error) {
	namespace := env.Spec.SampleApp.Namespace
	if namespace == "" {
		namespace = rollouts.DefaultNamespace
	}

	client, err := rollouts.NewClient(
		env.Spec.Connection.Kubeconfig,
		env.Spec.Connection.Context,
		namespace,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rollouts client: %w", err)
	}

	return client, nil
}

// rolloutName returns the explicit name or the configured release name.
func rolloutName(env *v1alpha1.Environment, args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	if env.Spec.SampleApp.ReleaseName != "" {
		return env.Spec.SampleApp.ReleaseName
	}

	return v1alpha1.DefaultReleaseName
}

// renderStatus writes a one-rollout status block.
func renderStatus(cmd *cobra.Command, status rollouts.Status) {
	line := fmt.Sprintf("%s: %s", status.Name, status.Phase)

	if status.Strategy != "" {
		line += " (" + status.Strategy
		if status.TotalSteps > 0 {
			line += fmt.Sprintf(" step %d/%d", status.CurrentStep, status.TotalSteps)
		}

		line += ")"
	}

	line += fmt.Sprintf(
		", %d/%d ready, %d updated, %d available",
		status.ReadyReplicas,
		status.Replicas,
		status.UpdatedReplicas,
		status.AvailableReplicas,
	)

	switch {
	case status.Healthy():
		notify.Successf(cmd.OutOrStdout(), "%s", line)
	case status.Terminal():
		notify.Errorf(cmd.OutOrStdout(), "%s", line)
	default:
		notify.Activityf(cmd.OutOrStdout(), "%s", line)
	}

	if status.Message != "" {
		notify.Infof(cmd.OutOrStdout(), "%s", status.Message)
	}

	for _, image := range status.Images {
		notify.Infof(cmd.OutOrStdout(), "image: %s", image)
	}
}
