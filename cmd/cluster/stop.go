package cluster

import (
	"context"

	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	clusterprovisioner "github.com/k8s-rollouts/devctl/pkg/svc/provisioner/cluster"
	"github.com/spf13/cobra"
)

// NewStopCmd creates the cluster stop command.
func NewStopCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "stop",
		Short:        "Stop the cluster",
		Long:         "Stop the running Kubernetes cluster without deleting it.",
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
			TitleEmoji:         "⏹️",
			TitleContent:       "Stopping cluster...",
			ActivityContent:    "stopping cluster",
			SuccessContent:     "cluster stopped",
			ErrorMessagePrefix: "failed to stop cluster",
			Action: func(
				ctx context.Context,
				provisioner clusterprovisioner.ClusterProvisioner,
				clusterName string,
			) error {
				return provisioner.Stop(ctx, clusterName)
			},
		},
	)

	return cmd
}
