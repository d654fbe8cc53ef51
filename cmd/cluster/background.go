package cluster

import (
	"errors"
	"fmt"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/svc/supervisor"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// errMinikubeOnly indicates a command that requires the minikube provisioner.
var errMinikubeOnly = errors.New("command requires the Minikube provisioner")

// NewDashboardCmd creates the cluster dashboard command running `minikube
// dashboard` as a supervised background process.
func NewDashboardCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	return newBackgroundCmd(
		runtimeContainer,
		"dashboard",
		"Run the minikube dashboard in the background",
	)
}

// NewTunnelCmd creates the cluster tunnel command running `minikube tunnel`
// as a supervised background process.
func NewTunnelCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	return newBackgroundCmd(
		runtimeContainer,
		"tunnel",
		"Run a minikube tunnel in the background",
	)
}

// newBackgroundCmd builds a command that supervises one minikube subcommand.
// The supervised process name equals the minikube subcommand.
func newBackgroundCmd(
	runtimeContainer *runtime.Runtime,
	name string,
	short string,
) *cobra.Command {
	var stop bool

	cmd := &cobra.Command{
		Use:          name,
		Short:        short,
		Long:         short + ". The process is detached and logs to the devctl state directory.",
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
			return runBackground(cmd, cfgManager, name, stop)
		},
	)

	cmd.Flags().BoolVar(&stop, "stop", false, "Stop the background process instead of starting it")

	return cmd
}

func runBackground(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	name string,
	stop bool,
) error {
	env, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	if env.Spec.Cluster.Provisioner != v1alpha1.ProvisionerMinikube {
		return fmt.Errorf("%w: configured provisioner is %s",
			errMinikubeOnly, env.Spec.Cluster.Provisioner.String())
	}

	clusterName := env.Spec.Cluster.Name

	sup, err := supervisor.NewSupervisor(clusterName)
	if err != nil {
		return fmt.Errorf("failed to create supervisor: %w", err)
	}

	if stop {
		return stopBackground(cmd, sup, name)
	}

	cmdhelpers.ShowTitle(cmd, "🖥️", "Starting "+name+"...")

	state, err := sup.Start(cmd.Context(), name, "minikube", name, "--profile", clusterName)
	if err != nil {
		if errors.Is(err, supervisor.ErrProcessAlreadyRunning) {
			notify.Skipf(cmd.OutOrStdout(), "%v", err)

			return nil
		}

		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	notify.Successf(cmd.OutOrStdout(), "%s running (pid %d), logs at %s", name, state.PID, state.LogPath)

	return nil
}

func stopBackground(cmd *cobra.Command, sup *supervisor.Supervisor, name string) error {
	err := sup.Stop(cmd.Context(), name)
	if err != nil {
		if errors.Is(err, supervisor.ErrProcessNotFound) {
			notify.Skipf(cmd.OutOrStdout(), "%s is not running", name)

			return nil
		}

		return fmt.Errorf("failed to stop %s: %w", name, err)
	}

	notify.Successf(cmd.OutOrStdout(), "%s stopped", name)

	return nil
}
