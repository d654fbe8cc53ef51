package cluster

import (
	"fmt"

	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewListCmd creates the cluster list command.
func NewListCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List clusters of the active provisioner",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cfgManager := devctlconfigmanager.NewCommandConfigManager(
		cmd,
		devctlconfigmanager.DefaultEnvironmentFieldSelectors(),
	)

	cmd.RunE = cmdhelpers.WrapLifecycleHandler(runtimeContainer, cfgManager, handleListRunE)

	return cmd
}

func handleListRunE(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	deps cmdhelpers.LifecycleDeps,
) error {
	env, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	provisioner, err := deps.Factory.Create(cmd.Context(), env)
	if err != nil {
		return fmt.Errorf("failed to resolve cluster provisioner: %w", err)
	}

	clusters, err := provisioner.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list clusters: %w", err)
	}

	if len(clusters) == 0 {
		notify.Infof(cmd.OutOrStdout(), "no clusters found")

		return nil
	}

	for _, name := range clusters {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
	}

	return nil
}
