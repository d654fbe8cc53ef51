package stack

import (
	"fmt"

	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/svc/installer"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/k8s-rollouts/devctl/pkg/utils/timer"
	"github.com/spf13/cobra"
)

// NewUninstallCmd creates the stack uninstall command.
func NewUninstallCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall [component...]",
		Short: "Uninstall stack components",
		Long: `Uninstall the given stack components, or the full stack when none are ` +
			`named, in reverse install order. Removal is best-effort.`,
		ValidArgs:    installer.ComponentNames(),
		Args:         cobra.OnlyValidArgs,
		SilenceUsage: true,
	}

	cfgManager := devctlconfigmanager.NewCommandConfigManager(
		cmd,
		devctlconfigmanager.DefaultEnvironmentFieldSelectors(),
	)

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		runtime.WithTimer(
			func(cmd *cobra.Command, _ runtime.Injector, tmr timer.Timer) error {
				return runUninstall(cmd, cfgManager, tmr, cmd.Flags().Args())
			},
		),
	)

	return cmd
}

func runUninstall(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	tmr timer.Timer,
	names []string,
) error {
	tmr.Start()

	outputTimer := cmdhelpers.MaybeTimer(cmd, tmr)

	env, err := cfgManager.Load(configmanager.LoadOptions{Timer: outputTimer})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	tmr.NewStage()

	factory := newFactory(env, installer.GetInstallTimeout(env))

	components, err := resolveComponents(factory, env, names)
	if err != nil {
		return err
	}

	err = cmdhelpers.RunStackUninstall(cmd, tmr, components)
	if err != nil {
		return fmt.Errorf("failed to uninstall stack: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "stack uninstalled",
		Timer:   outputTimer,
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}
