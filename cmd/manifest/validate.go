package manifest

import (
	"errors"
	"fmt"

	"github.com/k8s-rollouts/devctl/pkg/client/kubeconform"
	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/io/generator/manifests"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// errValidationFailed indicates at least one manifest failed schema validation.
var errValidationFailed = errors.New("manifest validation failed")

// crdKinds lists custom resource kinds without upstream JSON schemas. They
// are skipped and reported in the summary instead of failing validation.
func crdKinds() []string {
	return []string{"Rollout", "AnalysisTemplate"}
}

// NewValidateCmd creates the manifest validate command.
func NewValidateCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "validate",
		Short:        "Validate the rendered manifests against Kubernetes schemas",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cfgManager := devctlconfigmanager.NewCommandConfigManager(cmd, manifestSelectors())

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		func(cmd *cobra.Command, _ runtime.Injector) error {
			return runValidate(cmd, cfgManager)
		},
	)

	return cmd
}

func runValidate(cmd *cobra.Command, cfgManager *devctlconfigmanager.ConfigManager) error {
	env, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	files, err := manifests.NewRenderer(env).Render()
	if err != nil {
		return fmt.Errorf("failed to render manifests: %w", err)
	}

	client, err := kubeconform.NewClient(kubeconform.Options{
		KubernetesVersion: env.Spec.Cluster.KubernetesVersion,
		Strict:            true,
		SkipKinds:         crdKinds(),
	})
	if err != nil {
		return fmt.Errorf("failed to create validator: %w", err)
	}

	cmdhelpers.ShowTitle(cmd, "🔍", "Validating manifests...")

	var report kubeconform.Report

	for _, file := range files {
		report.Merge(client.ValidateContent(file.Name, file.Content))
	}

	for _, problem := range report.Problems {
		notify.Errorf(
			cmd.OutOrStdout(),
			"%s: %s: %s",
			problem.File,
			problem.Resource,
			problem.Message,
		)
	}

	if report.Skipped > 0 {
		notify.Warningf(
			cmd.OutOrStdout(),
			"%d custom resources skipped (no schema available)",
			report.Skipped,
		)
	}

	if report.Failed() {
		return fmt.Errorf(
			"%w: %d invalid, %d errored",
			errValidationFailed,
			report.Invalid,
			report.Errors,
		)
	}

	notify.Successf(cmd.OutOrStdout(), "%d resources valid", report.Valid)

	return nil
}
