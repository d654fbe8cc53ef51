package rollout

import (
	"fmt"

	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the rollout status command.
func NewStatusCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:          "status [name]",
		Short:        "Show the status of the sample application's rollout",
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
			return runStatus(cmd, cfgManager, cmd.Flags().Args(), all)
		},
	)

	cmd.Flags().BoolVar(&all, "all", false, "Show every rollout in the namespace")

	return cmd
}

func runStatus(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	args []string,
	all bool,
) error {
	env, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	client, err := newClient(env)
	if err != nil {
		return err
	}

	cmdhelpers.ShowTitle(cmd, "🚦", "Rollout status...")

	if all {
		statuses, err := client.ListStatuses(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list rollouts: %w", err)
		}

		if len(statuses) == 0 {
			notify.Infof(cmd.OutOrStdout(), "no rollouts found in namespace '%s'", env.Spec.SampleApp.Namespace)

			return nil
		}

		for _, status := range statuses {
			renderStatus(cmd, status)
		}

		return nil
	}

	status, err := client.Status(cmd.Context(), rolloutName(env, args))
	if err != nil {
		return fmt.Errorf("failed to get rollout status: %w", err)
	}

	renderStatus(cmd, status)

	return nil
}
