// Package cluster provides the cluster lifecycle commands.
package cluster

import (
	"fmt"

	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	"github.com/spf13/cobra"
)

// NewClusterCmd creates the parent cluster command and wires lifecycle subcommands beneath it.
func NewClusterCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Manage the demo cluster lifecycle",
		Long: `Manage lifecycle operations for the local Kubernetes cluster, including ` +
			`provisioning, teardown, status, and the minikube dashboard and tunnel.`,
		Args:         cobra.NoArgs,
		RunE:         handleClusterRunE,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewUpCmd(runtimeContainer))
	cmd.AddCommand(NewDownCmd(runtimeContainer))
	cmd.AddCommand(NewStartCmd(runtimeContainer))
	cmd.AddCommand(NewStopCmd(runtimeContainer))
	cmd.AddCommand(NewStatusCmd(runtimeContainer))
	cmd.AddCommand(NewListCmd(runtimeContainer))
	cmd.AddCommand(NewDashboardCmd(runtimeContainer))
	cmd.AddCommand(NewTunnelCmd(runtimeContainer))

	return cmd
}

func handleClusterRunE(cmd *cobra.Command, _ []string) error {
	err := cmd.Help()
	if err != nil {
		return fmt.Errorf("displaying cluster command help: %w", err)
	}

	return nil
}
