// Package manifest provides the demo manifest commands: rendering the
// Rollout, Services, AnalysisTemplate, and Ingress set, and validating it
// with kubeconform.
package manifest

import (
	"fmt"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/spf13/cobra"
)

// NewManifestCmd creates the parent manifest command.
func NewManifestCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "manifest",
		Short:        "Render and validate the demo manifests",
		Args:         cobra.NoArgs,
		RunE:         handleManifestRunE,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewRenderCmd(runtimeContainer))
	cmd.AddCommand(NewValidateCmd(runtimeContainer))

	return cmd
}

func handleManifestRunE(cmd *cobra.Command, _ []string) error {
	err := cmd.Help()
	if err != nil {
		return fmt.Errorf("displaying manifest command help: %w", err)
	}

	return nil
}

// manifestSelectors returns the field selectors manifest commands register.
// The strategy and replica flags let a render be produced without touching
// devctl.yaml.
func manifestSelectors() []devctlconfigmanager.FieldSelector[v1alpha1.Environment] {
	return devctlconfigmanager.DefaultEnvironmentFieldSelectors()
}
