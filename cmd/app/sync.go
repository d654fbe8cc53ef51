package app

import (
	"fmt"

	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewSyncCmd creates the app sync command triggering a hard refresh of one
// Application.
func NewSyncCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "sync <name>",
		Short:        "Trigger reconciliation of an application",
		Long:         "Annotate the Application with a hard refresh so Argo CD re-reads the repository.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
	}

	cfgManager := devctlconfigmanager.NewCommandConfigManager(
		cmd,
		devctlconfigmanager.DefaultEnvironmentFieldSelectors(),
	)

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		func(cmd *cobra.Command, _ runtime.Injector) error {
			return runSync(cmd, cfgManager, cmd.Flags().Arg(0))
		},
	)

	return cmd
}

func runSync(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	name string,
) error {
	env, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	reconciler, err := newReconciler(env)
	if err != nil {
		return err
	}

	err = reconciler.TriggerRefresh(cmd.Context(), name, true)
	if err != nil {
		return fmt.Errorf("failed to trigger refresh: %w", err)
	}

	notify.Successf(cmd.OutOrStdout(), "requested hard refresh of application '%s'", name)

	return nil
}
