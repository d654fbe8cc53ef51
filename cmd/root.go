// Package cmd wires up the devctl command tree.
package cmd

import (
	"fmt"

	"github.com/k8s-rollouts/devctl/cmd/app"
	"github.com/k8s-rollouts/devctl/cmd/cluster"
	envcmd "github.com/k8s-rollouts/devctl/cmd/env"
	"github.com/k8s-rollouts/devctl/cmd/forward"
	"github.com/k8s-rollouts/devctl/cmd/kube"
	"github.com/k8s-rollouts/devctl/cmd/manifest"
	"github.com/k8s-rollouts/devctl/cmd/rollout"
	"github.com/k8s-rollouts/devctl/cmd/sampleapi"
	"github.com/k8s-rollouts/devctl/cmd/stack"
	"github.com/k8s-rollouts/devctl/cmd/verify"
	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command with version info and subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	runtimeContainer := runtime.NewRuntime()

	cmd := &cobra.Command{
		Use:   "devctl",
		Short: "devctl manages a local GitOps demo environment for progressive delivery",
		Long: `devctl provisions a local Kubernetes cluster, installs the GitOps and ` +
			`observability stack (Argo CD, Argo Rollouts, kube-prometheus-stack, ` +
			`ingress-nginx), and drives blue-green and canary rollouts of a sample service.`,
		RunE:         handleRootRunE,
		SilenceUsage: true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	cmd.PersistentFlags().Bool(
		cmdhelpers.TimingFlagName,
		false,
		"Show per-activity timing output",
	)

	cmd.AddCommand(NewInitCmd(runtimeContainer))
	cmd.AddCommand(cluster.NewClusterCmd(runtimeContainer))
	cmd.AddCommand(stack.NewStackCmd(runtimeContainer))
	cmd.AddCommand(app.NewAppCmd(runtimeContainer))
	cmd.AddCommand(manifest.NewManifestCmd(runtimeContainer))
	cmd.AddCommand(rollout.NewRolloutCmd(runtimeContainer))
	cmd.AddCommand(forward.NewForwardCmd(runtimeContainer))
	cmd.AddCommand(verify.NewVerifyCmd(runtimeContainer))
	cmd.AddCommand(envcmd.NewEnvCmd(runtimeContainer))
	cmd.AddCommand(sampleapi.NewSampleAPICmd())
	cmd.AddCommand(kube.NewKubeCmd())

	return cmd
}

// Execute runs the provided root command and wraps any execution error.
func Execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// handleRootRunE handles the root command by printing help.
func handleRootRunE(cmd *cobra.Command, _ []string) error {
	// The err can safely be ignored, as it can never fail at runtime.
	_ = cmd.Help()

	return nil
}
