package forward

import (
	"errors"
	"fmt"
	"time"

	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/svc/forwarder"
	"github.com/k8s-rollouts/devctl/pkg/svc/supervisor"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// probeTimeout bounds each local port dial during a status probe.
const probeTimeout = 2 * time.Second

// NewStatusCmd creates the forward status command.
func NewStatusCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "status",
		Short:        "Show the detached forward process and probe the local ports",
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
			return runStatus(cmd, cfgManager)
		},
	)

	return cmd
}

func runStatus(cmd *cobra.Command, cfgManager *devctlconfigmanager.ConfigManager) error {
	env, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	cmdhelpers.ShowTitle(cmd, "🔌", "Port-forward status...")

	reportProcess(cmd, env.Spec.Cluster.Name)

	for _, status := range forwarder.Probe(forwardSpecs(env), probeTimeout) {
		if status.Reachable {
			notify.Successf(
				cmd.OutOrStdout(),
				"%s: 127.0.0.1:%d reachable",
				status.Spec.Name,
				status.Spec.LocalPort,
			)

			continue
		}

		notify.Warningf(
			cmd.OutOrStdout(),
			"%s: 127.0.0.1:%d not reachable",
			status.Spec.Name,
			status.Spec.LocalPort,
		)
	}

	return nil
}

func reportProcess(cmd *cobra.Command, clusterName string) {
	sup, err := supervisor.NewSupervisor(clusterName)
	if err != nil {
		notify.Warningf(cmd.OutOrStdout(), "failed to create supervisor: %v", err)

		return
	}

	state, err := sup.Load(ForwardsProcessName)
	if err != nil {
		if errors.Is(err, supervisor.ErrProcessNotFound) {
			notify.Infof(cmd.OutOrStdout(), "no detached forward process recorded")

			return
		}

		notify.Warningf(cmd.OutOrStdout(), "failed to read forward process state: %v", err)

		return
	}

	notify.Infof(
		cmd.OutOrStdout(),
		"detached process pid %d, logs at %s",
		state.PID,
		state.LogPath,
	)
}
