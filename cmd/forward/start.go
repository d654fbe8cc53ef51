package forward

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/svc/forwarder"
	"github.com/k8s-rollouts/devctl/pkg/svc/supervisor"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewStartCmd creates the forward start command.
func NewStartCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	var detach bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Establish the configured port-forwards",
		Long: `Establish every configured port-forward and keep them open until ` +
			`interrupted. With --detach the forwards run as a supervised background ` +
			`process instead.`,
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
			return runStart(cmd, cfgManager, detach)
		},
	)

	cmd.Flags().BoolVar(&detach, "detach", false, "Run the forwards as a supervised background process")

	return cmd
}

func runStart(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	detach bool,
) error {
	env, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	if detach {
		return startDetached(cmd, env.Spec.Cluster.Name)
	}

	return startForeground(cmd, env)
}

// startDetached re-executes the current binary under the supervisor so the
// forwards survive this invocation.
func startDetached(cmd *cobra.Command, clusterName string) error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve executable path: %w", err)
	}

	sup, err := supervisor.NewSupervisor(clusterName)
	if err != nil {
		return fmt.Errorf("failed to create supervisor: %w", err)
	}

	state, err := sup.Start(cmd.Context(), ForwardsProcessName, executable, "forward", "start")
	if err != nil {
		if errors.Is(err, supervisor.ErrProcessAlreadyRunning) {
			notify.Skipf(cmd.OutOrStdout(), "port-forwards already running")

			return nil
		}

		return fmt.Errorf("failed to start detached forwards: %w", err)
	}

	notify.Successf(
		cmd.OutOrStdout(),
		"port-forwards running (pid %d), logs at %s",
		state.PID,
		state.LogPath,
	)

	return nil
}

func startForeground(cmd *cobra.Command, env *v1alpha1.Environment) error {
	service, err := forwarder.NewServiceForKubeconfig(
		env.Spec.Connection.Kubeconfig,
		env.Spec.Connection.Context,
	)
	if err != nil {
		return fmt.Errorf("failed to create forward service: %w", err)
	}

	cmdhelpers.ShowTitle(cmd, "🔌", "Starting port-forwards...")

	session, err := service.StartAll(cmd.Context(), forwardSpecs(env))
	if err != nil {
		return fmt.Errorf("failed to establish forwards: %w", err)
	}

	defer session.Close()

	for _, fwd := range session.Forwards() {
		notify.Successf(
			cmd.OutOrStdout(),
			"%s: %s -> %s:%d",
			fwd.Spec.Name,
			fwd.Tunnel.Addr(),
			fwd.Spec.Namespace,
			fwd.Spec.RemotePort,
		)
	}

	notify.Infof(cmd.OutOrStdout(), "press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = session.Wait(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("forwards terminated: %w", err)
	}

	notify.Successf(cmd.OutOrStdout(), "port-forwards stopped")

	return nil
}
