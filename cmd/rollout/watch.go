package rollout

import (
	"fmt"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/client/rollouts"
	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewWatchCmd creates the rollout watch command.
func NewWatchCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	var (
		interval time.Duration
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [name]",
		Short: "Watch a rollout until it reaches a terminal phase",
		Long: `Poll the rollout and print each observed status until it becomes Healthy, ` +
			`Degraded, or aborted, or the timeout expires.`,
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
			return runWatch(cmd, cfgManager, cmd.Flags().Args(), interval, timeout)
		},
	)

	cmd.Flags().DurationVar(
		&interval,
		"interval",
		rollouts.DefaultWatchInterval,
		"Poll interval between status checks",
	)
	cmd.Flags().DurationVar(
		&timeout,
		"timeout",
		rollouts.DefaultWatchTimeout,
		"Give up after this duration",
	)

	return cmd
}

func runWatch(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	args []string,
	interval, timeout time.Duration,
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

	cmdhelpers.ShowTitle(cmd, "🚦", "Watching rollout '"+name+"'...")

	status, err := client.Watch(
		cmd.Context(),
		name,
		rollouts.WatchOptions{Interval: interval, Timeout: timeout},
		func(status rollouts.Status) {
			renderStatus(cmd, status)
		},
	)
	if err != nil {
		return fmt.Errorf("failed to watch rollout: %w", err)
	}

	if !status.Healthy() {
		notify.Warningf(
			cmd.OutOrStdout(),
			"rollout '%s' stopped in phase %s; inspect it with 'devctl rollout status'",
			name,
			status.Phase,
		)
	}

	return nil
}
