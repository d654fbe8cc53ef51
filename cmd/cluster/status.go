package cluster

import (
	"context"
	"fmt"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	"github.com/k8s-rollouts/devctl/pkg/client/docker"
	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/k8s"
	"github.com/k8s-rollouts/devctl/pkg/k8s/readiness"
	dockerprovider "github.com/k8s-rollouts/devctl/pkg/svc/provider/docker"
	clusterprovisioner "github.com/k8s-rollouts/devctl/pkg/svc/provisioner/cluster"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the cluster status command. Status reports the
// provisioner state, the docker node containers, and API server reachability.
func NewStatusCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "status",
		Short:        "Show cluster status",
		Long:         "Show the provisioner state, node container state, and API server reachability.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cfgManager := devctlconfigmanager.NewCommandConfigManager(
		cmd,
		devctlconfigmanager.DefaultEnvironmentFieldSelectors(),
	)

	cmd.RunE = cmdhelpers.WrapLifecycleHandler(runtimeContainer, cfgManager, handleStatusRunE)

	return cmd
}

func handleStatusRunE(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	deps cmdhelpers.LifecycleDeps,
) error {
	deps.Timer.Start()

	env, err := cfgManager.Load(configmanager.LoadOptions{
		Timer: cmdhelpers.MaybeTimer(cmd, deps.Timer),
	})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	cmdhelpers.ShowTitle(cmd, "☸️", "Cluster status...")

	clusterName := env.Spec.Cluster.Name

	notify.Infof(
		cmd.OutOrStdout(),
		"cluster '%s' (%s)",
		clusterName,
		env.Spec.Cluster.Provisioner.String(),
	)

	reportProvisionerState(cmd, deps, env)
	reportNodeContainers(cmd.Context(), cmd, env)
	reportAPIServer(cmd, env)

	return nil
}

func reportProvisionerState(
	cmd *cobra.Command,
	deps cmdhelpers.LifecycleDeps,
	env *v1alpha1.Environment,
) {
	provisioner, err := deps.Factory.Create(cmd.Context(), env)
	if err != nil {
		notify.Warningf(cmd.OutOrStdout(), "provisioner unavailable: %v", err)

		return
	}

	if reporter, ok := provisioner.(clusterprovisioner.StateReporter); ok {
		state, err := reporter.State(cmd.Context(), env.Spec.Cluster.Name)
		if err != nil {
			notify.Warningf(cmd.OutOrStdout(), "state unknown: %v", err)

			return
		}

		notify.Infof(cmd.OutOrStdout(), "state: %s", state)

		return
	}

	exists, err := provisioner.Exists(cmd.Context(), env.Spec.Cluster.Name)
	if err != nil {
		notify.Warningf(cmd.OutOrStdout(), "state unknown: %v", err)

		return
	}

	if exists {
		notify.Infof(cmd.OutOrStdout(), "state: Exists")
	} else {
		notify.Infof(cmd.OutOrStdout(), "state: Nonexistent")
	}
}

func reportNodeContainers(ctx context.Context, cmd *cobra.Command, env *v1alpha1.Environment) {
	apiClient, err := docker.GetDockerClient()
	if err != nil {
		notify.Warningf(cmd.OutOrStdout(), "docker unavailable: %v", err)

		return
	}

	scheme := dockerprovider.LabelSchemeMinikube
	if env.Spec.Cluster.Provisioner == v1alpha1.ProvisionerKind {
		scheme = dockerprovider.LabelSchemeKind
	}

	nodes, err := dockerprovider.NewProvider(apiClient, scheme).
		ListNodes(ctx, env.Spec.Cluster.Name)
	if err != nil {
		notify.Warningf(cmd.OutOrStdout(), "failed to list node containers: %v", err)

		return
	}

	if len(nodes) == 0 {
		notify.Infof(cmd.OutOrStdout(), "nodes: none")

		return
	}

	for _, node := range nodes {
		notify.Infof(cmd.OutOrStdout(), "node %s (%s): %s", node.Name, node.Role, node.State)
	}
}

func reportAPIServer(cmd *cobra.Command, env *v1alpha1.Environment) {
	clientset, err := k8s.NewClientset(
		env.Spec.Connection.Kubeconfig,
		env.Spec.Connection.Context,
	)
	if err != nil {
		notify.Warningf(cmd.OutOrStdout(), "API server: unreachable (%v)", err)

		return
	}

	err = readiness.CheckAPIServerConnectivity(clientset)
	if err != nil {
		notify.Warningf(cmd.OutOrStdout(), "API server: unreachable (%v)", err)

		return
	}

	notify.Successf(cmd.OutOrStdout(), "API server: reachable")
}
