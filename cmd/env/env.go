// Package env provides the one-shot environment commands: bringing the whole
// demo environment up, tearing it down, and showing its state on one page.
package env

import (
	"fmt"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	"github.com/k8s-rollouts/devctl/pkg/client/helm"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/svc/installer"
	"github.com/spf13/cobra"
)

// NewEnvCmd creates the parent env command.
func NewEnvCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Manage the whole demo environment",
		Long: `Bring the whole demo environment up or down in one command: cluster, ` +
			`component stack, GitOps bootstrap, and port-forwards.`,
		Args:         cobra.NoArgs,
		RunE:         handleEnvRunE,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewUpCmd(runtimeContainer))
	cmd.AddCommand(NewDownCmd(runtimeContainer))
	cmd.AddCommand(NewStatusCmd(runtimeContainer))

	return cmd
}

func handleEnvRunE(cmd *cobra.Command, _ []string) error {
	err := cmd.Help()
	if err != nil {
		return fmt.Errorf("displaying env command help: %w", err)
	}

	return nil
}

// envSelectors returns the field selectors env commands register: everything
// up needs, from cluster shape to the GitOps source.
func envSelectors() []devctlconfigmanager.FieldSelector[v1alpha1.Environment] {
	selectors := devctlconfigmanager.DefaultEnvironmentFieldSelectors()
	selectors = append(selectors, devctlconfigmanager.ClusterFieldSelectors()...)
	selectors = append(selectors, devctlconfigmanager.GitOpsFieldSelectors()...)

	return selectors
}

// newFactory mirrors the stack command's component factory wiring.
func newFactory(env *v1alpha1.Environment, timeout time.Duration) *installer.Factory {
	kubeconfig := env.Spec.Connection.Kubeconfig
	kubecontext := env.Spec.Connection.Context

	return installer.NewFactory(func() (helm.Interface, error) {
		return helm.NewClient(kubeconfig, kubecontext)
	}, timeout)
}
