// Package kube provides kubectl passthrough commands wired to the
// environment's kubeconfig, so common inspections work without a separate
// kubectl setup.
package kube

import (
	"fmt"
	"os"

	"github.com/k8s-rollouts/devctl/pkg/client/kubectl"
	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	"github.com/spf13/cobra"
	"k8s.io/cli-runtime/pkg/genericiooptions"
)

// NewKubeCmd creates the parent kube command with embedded kubectl
// subcommands.
func NewKubeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "kube",
		Short:        "Run kubectl commands against the environment's cluster",
		Args:         cobra.NoArgs,
		RunE:         handleKubeRunE,
		SilenceUsage: true,
	}

	client := kubectl.NewClient(genericiooptions.IOStreams{
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	})

	kubeconfigPath := cmdhelpers.GetKubeconfigPathSilently()

	cmd.AddCommand(client.CreateGetCommand(kubeconfigPath))
	cmd.AddCommand(client.CreateApplyCommand(kubeconfigPath))
	cmd.AddCommand(client.CreateDeleteCommand(kubeconfigPath))
	cmd.AddCommand(client.CreateDescribeCommand(kubeconfigPath))
	cmd.AddCommand(client.CreateLogsCommand(kubeconfigPath))
	cmd.AddCommand(client.CreateWaitCommand(kubeconfigPath))

	return cmd
}

func handleKubeRunE(cmd *cobra.Command, _ []string) error {
	err := cmd.Help()
	if err != nil {
		return fmt.Errorf("displaying kube command help: %w", err)
	}

	return nil
}
