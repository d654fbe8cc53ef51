package cluster

import (
	"context"

	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	clusterprovisioner "github.com/k8s-rollouts/devctl/pkg/svc/provisioner/cluster"
	"github.com/spf13/cobra"
)

// NewStartCmd creates the cluster start command.
func NewStartCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "start",
		Short:        "Start a stopped cluster",
		Long:         "Start a previously stopped Kubernetes cluster without re-provisioning it.",
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
			TitleEmoji:         "▶️",
			TitleContent:       "Starting cluster...",
			ActivityContent:    "starting cluster",
			SuccessContent:     "cluster started",
			ErrorMessagePrefix: "failed to start cluster",
			Action: func(
				ctx context.Context,
				provisioner clusterprovisioner.ClusterProvisioner,
				clusterName string,
			) error {
				return provisioner.Start(ctx, clusterName)
			},
		},
	)

	return cmd
}
