// Package app provides the Argo CD application commands.
package app

import (
	"errors"
	"fmt"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	"github.com/k8s-rollouts/devctl/pkg/client/argocd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/spf13/cobra"
)

// errRepoURLRequired indicates a GitOps command ran without a configured repository.
var errRepoURLRequired = errors.New(
	"gitops.repoURL is required; set it in devctl.yaml or via --repo-url",
)

// NewAppCmd creates the parent app command.
func NewAppCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "app",
		Short: "Manage Argo CD applications",
		Long: `Bootstrap the app-of-apps and manage Argo CD Applications: trigger ` +
			`syncs, inspect status, wait for health, and retarget git revisions.`,
		Args:         cobra.NoArgs,
		RunE:         handleAppRunE,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewBootstrapCmd(runtimeContainer))
	cmd.AddCommand(NewSyncCmd(runtimeContainer))
	cmd.AddCommand(NewStatusCmd(runtimeContainer))
	cmd.AddCommand(NewWaitCmd(runtimeContainer))
	cmd.AddCommand(NewSetRevisionCmd(runtimeContainer))

	return cmd
}

func handleAppRunE(cmd *cobra.Command, _ []string) error {
	err := cmd.Help()
	if err != nil {
		return fmt.Errorf("displaying app command help: %w", err)
	}

	return nil
}

// gitOpsSelectors returns the field selectors app commands register: the
// defaults plus the GitOps repository options.
func gitOpsSelectors() []devctlconfigmanager.FieldSelector[v1alpha1.Environment] {
	selectors := devctlconfigmanager.DefaultEnvironmentFieldSelectors()

	return append(selectors, devctlconfigmanager.GitOpsFieldSelectors()...)
}

// newReconciler creates an Argo CD reconciler for the environment's cluster.
func newReconciler(env *v1alpha1.Environment) (*argocd.Reconciler, error) {
	reconciler, err := argocd.NewReconciler(
		env.Spec.Connection.Kubeconfig,
		env.Spec.Connection.Context,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create argocd client: %w", err)
	}

	return reconciler, nil
}
