package cluster

import (
	"context"

	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	clusterprovisioner "github.com/k8s-rollouts/devctl/pkg/svc/provisioner/cluster"
	"github.com/k8s-rollouts/devctl/pkg/svc/supervisor"
	"github.com/spf13/cobra"
)

// NewDownCmd creates the cluster down command. Down stops supervised
// background processes (forwards, dashboard, tunnel) before deleting the
// cluster so nothing keeps dialing a dead API server.
func NewDownCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "down",
		Short:        "Delete the cluster",
		Long:         "Delete the local Kubernetes cluster and stop its supervised background processes.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cfgManager := devctlconfigmanager.NewCommandConfigManager(
		cmd,
		devctlconfigmanager.DefaultEnvironmentFieldSelectors(),
	)

	cmd.RunE = cmdhelpers.NewStandardLifecycleRunE(
		runtimeContainer,
		cfgManager,
		cmdhelpers.LifecycleConfig{
			TitleEmoji:         "🔥",
			TitleContent:       "Deleting cluster...",
			ActivityContent:    "deleting cluster",
			SuccessContent:     "cluster deleted",
			ErrorMessagePrefix: "failed to delete cluster",
			Action:             deleteAction,
		},
	)

	return cmd
}

func deleteAction(
	ctx context.Context,
	provisioner clusterprovisioner.ClusterProvisioner,
	clusterName string,
) error {
	// Best-effort: stale or missing supervisor state must not block teardown.
	sup, err := supervisor.NewSupervisor(clusterName)
	if err == nil {
		_ = sup.StopAll(ctx)
	}

	return provisioner.Delete(ctx, clusterName)
}
