package app

import (
	"fmt"
	"time"

	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/k8s-rollouts/devctl/pkg/utils/timer"
	"github.com/spf13/cobra"
)

// NewWaitCmd creates the app wait command blocking until an Application is
// synced and healthy.
func NewWaitCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "wait <name>",
		Short: "Wait for an application to become synced and healthy",
		Long: `Poll the Application until it reports Synced and Healthy. Failed sync ` +
			`operations and error conditions abort the wait; transient source errors keep polling.`,
		Args:         cobra.ExactArgs(1),
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
				return runWait(cmd, cfgManager, tmr, cmd.Flags().Arg(0), timeout)
			},
		),
	)

	cmd.Flags().DurationVar(
		&timeout,
		"timeout",
		0,
		"Maximum time to wait (defaults to the connection timeout)",
	)

	return cmd
}

func runWait(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	tmr timer.Timer,
	name string,
	timeout time.Duration,
) error {
	tmr.Start()

	outputTimer := cmdhelpers.MaybeTimer(cmd, tmr)

	env, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	if timeout <= 0 {
		timeout = cmdhelpers.ReadinessTimeout(env)
	}

	reconciler, err := newReconciler(env)
	if err != nil {
		return err
	}

	notify.Activityf(cmd.OutOrStdout(), "waiting for application '%s' to become healthy", name)

	err = reconciler.WaitForApplication(cmd.Context(), name, timeout)
	if err != nil {
		return fmt.Errorf("failed waiting for application: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: fmt.Sprintf("application '%s' is synced and healthy", name),
		Timer:   outputTimer,
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}
