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

// NewInstallCmd creates the stack install command.
func NewInstallCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install [component...]",
		Short: "Install stack components",
		Long: `Install the given stack components, or the full stack when none are ` +
			`named. Components without install-order dependencies install in parallel.`,
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
				return runInstall(cmd, cfgManager, tmr, cmd.Flags().Args())
			},
		),
	)

	return cmd
}

func runInstall(
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

	err = cmdhelpers.RunStackInstall(cmd, tmr, env, components)
	if err != nil {
		return fmt.Errorf("failed to install stack: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "stack installed",
		Timer:   outputTimer,
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}
