package forward

import (
	"errors"
	"fmt"

	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/svc/supervisor"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewStopCmd creates the forward stop command.
func NewStopCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "stop",
		Short:        "Stop the detached port-forward process",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cfgManager := devctlconfigmanager.NewCommandConfigManager(
		cmd,
		devctlconfigmanager.DefaultEnvironmentFieldSelectors(),
	)

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		func(cmd *cobra.Command, _ runtime.Injector) error {
			return runStop(cmd, cfgManager)
		},
	)

	return cmd
}

func runStop(cmd *cobra.Command, cfgManager *devctlconfigmanager.ConfigManager) error {
	env, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	sup, err := supervisor.NewSupervisor(env.Spec.Cluster.Name)
	if err != nil {
		return fmt.Errorf("failed to create supervisor: %w", err)
	}

	err = sup.Stop(cmd.Context(), ForwardsProcessName)
	if err != nil {
		if errors.Is(err, supervisor.ErrProcessNotFound) {
			notify.Skipf(cmd.OutOrStdout(), "no detached port-forwards running")

			return nil
		}

		return fmt.Errorf("failed to stop forwards: %w", err)
	}

	notify.Successf(cmd.OutOrStdout(), "port-forwards stopped")

	return nil
}
