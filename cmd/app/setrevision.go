package app

import (
	"fmt"

	"github.com/k8s-rollouts/devctl/pkg/client/argocd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

const setRevisionArgCount = 2

// NewSetRevisionCmd creates the app set-revision command pointing an
// Application at a new git revision.
func NewSetRevisionCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "set-revision <name> <revision>",
		Short:        "Point an application at a new git revision",
		Long:         "Update spec.source.targetRevision of the Application and request a hard refresh.",
		Args:         cobra.ExactArgs(setRevisionArgCount),
		SilenceUsage: true,
	}

	cfgManager := devctlconfigmanager.NewCommandConfigManager(
		cmd,
		devctlconfigmanager.DefaultEnvironmentFieldSelectors(),
	)

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		func(cmd *cobra.Command, _ runtime.Injector) error {
			return runSetRevision(cmd, cfgManager, cmd.Flags().Arg(0), cmd.Flags().Arg(1))
		},
	)

	return cmd
}

func runSetRevision(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	name, revision string,
) error {
	env, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	manager, err := argocd.NewManagerFromKubeconfig(
		env.Spec.Connection.Kubeconfig,
		env.Spec.Connection.Context,
	)
	if err != nil {
		return fmt.Errorf("failed to create argocd client: %w", err)
	}

	err = manager.SetTargetRevision(cmd.Context(), argocd.SetRevisionOptions{
		ApplicationName: name,
		TargetRevision:  revision,
		HardRefresh:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to set target revision: %w", err)
	}

	notify.Successf(
		cmd.OutOrStdout(),
		"application '%s' now tracks revision '%s'",
		name,
		revision,
	)

	return nil
}
