// Package stack provides the component stack commands installing Argo CD,
// Argo Rollouts, kube-prometheus-stack, and ingress-nginx via Helm.
package stack

import (
	"fmt"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	"github.com/k8s-rollouts/devctl/pkg/client/helm"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	"github.com/k8s-rollouts/devctl/pkg/svc/installer"
	"github.com/spf13/cobra"
)

// NewStackCmd creates the parent stack command.
func NewStackCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stack",
		Short: "Manage the GitOps and observability component stack",
		Long: `Install, remove, and inspect the Helm-managed component stack: ` +
			`argo-cd, argo-rollouts, kube-prometheus-stack, and ingress-nginx.`,
		Args:         cobra.NoArgs,
		RunE:         handleStackRunE,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewInstallCmd(runtimeContainer))
	cmd.AddCommand(NewUninstallCmd(runtimeContainer))
	cmd.AddCommand(NewStatusCmd(runtimeContainer))

	return cmd
}

func handleStackRunE(cmd *cobra.Command, _ []string) error {
	err := cmd.Help()
	if err != nil {
		return fmt.Errorf("displaying stack command help: %w", err)
	}

	return nil
}

// newFactory builds an installer factory for the environment. Each component
// gets its own helm client since the helm action configuration carries
// per-namespace state.
func newFactory(env *v1alpha1.Environment, timeout time.Duration) *installer.Factory {
	kubeconfig := env.Spec.Connection.Kubeconfig
	kubecontext := env.Spec.Connection.Context

	return installer.NewFactory(func() (helm.Interface, error) {
		return helm.NewClient(kubeconfig, kubecontext)
	}, timeout)
}

// resolveComponents returns the requested components, or the full stack when
// no names are given.
func resolveComponents(
	factory *installer.Factory,
	env *v1alpha1.Environment,
	names []string,
) ([]installer.Component, error) {
	if len(names) == 0 {
		components, err := factory.Components(env)
		if err != nil {
			return nil, fmt.Errorf("failed to build component stack: %w", err)
		}

		return components, nil
	}

	components, err := factory.ComponentsByName(env, names)
	if err != nil {
		return nil, fmt.Errorf("failed to build component stack: %w", err)
	}

	return components, nil
}
