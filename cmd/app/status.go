package app

import (
	"fmt"

	"github.com/k8s-rollouts/devctl/pkg/client/argocd"
	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the app status command reporting sync and health
// status of one or all Applications.
func NewStatusCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "status [name]",
		Short:        "Show application status",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
	}

	cfgManager := devctlconfigmanager.NewCommandConfigManager(
		cmd,
		devctlconfigmanager.DefaultEnvironmentFieldSelectors(),
	)

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		func(cmd *cobra.Command, _ runtime.Injector) error {
			return runStatus(cmd, cfgManager, cmd.Flags().Args())
		},
	)

	return cmd
}

func runStatus(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	args []string,
) error {
	env, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	reconciler, err := newReconciler(env)
	if err != nil {
		return err
	}

	cmdhelpers.ShowTitle(cmd, "🔄", "Application status...")

	if len(args) == 1 {
		status, err := reconciler.ApplicationStatus(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get application status: %w", err)
		}

		renderApplicationStatus(cmd, status)

		return nil
	}

	statuses, err := reconciler.ListApplicationStatuses(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list applications: %w", err)
	}

	if len(statuses) == 0 {
		notify.Infof(cmd.OutOrStdout(), "no applications found; run 'devctl app bootstrap'")

		return nil
	}

	for _, status := range statuses {
		renderApplicationStatus(cmd, status)
	}

	return nil
}

func renderApplicationStatus(cmd *cobra.Command, status argocd.ApplicationStatus) {
	line := fmt.Sprintf(
		"%s: %s/%s",
		status.Name,
		status.SyncStatus,
		status.HealthStatus,
	)

	if status.OperationPhase != "" {
		line += " (operation " + status.OperationPhase + ")"
	}

	if status.Message != "" {
		line += " - " + status.Message
	}

	if status.Synced() {
		notify.Successf(cmd.OutOrStdout(), "%s", line)

		return
	}

	notify.Warningf(cmd.OutOrStdout(), "%s", line)
}
