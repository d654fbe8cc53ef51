package rollout

import (
	"fmt"

	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewPromoteCmd creates the rollout promote command.
func NewPromoteCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "promote [name]",
		Short: "Promote a paused rollout to its next step",
		Long: `Resume a rollout paused on a step. With --full the controller skips the ` +
			`remaining steps and promotes straight to the new revision.`,
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
			return runPromote(cmd, cfgManager, cmd.Flags().Args(), full)
		},
	)

	cmd.Flags().BoolVar(&full, "full", false, "Skip the remaining steps and promote fully")

	return cmd
}

func runPromote(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	args []string,
	full bool,
) error {
	env, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	client, err := newClient(env)
	if err != nil {
		return err
	}

	name := rolloutName(env, args)

	err = client.Promote(cmd.Context(), name, full)
	if err != nil {
		return fmt.Errorf("failed to promote rollout: %w", err)
	}

	if full {
		notify.Successf(cmd.OutOrStdout(), "rollout '%s' promoted fully", name)
	} else {
		notify.Successf(cmd.OutOrStdout(), "rollout '%s' promoted to the next step", name)
	}

	return nil
}
