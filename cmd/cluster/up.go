package cluster

import (
	"errors"
	"fmt"

	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/svc/provider"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewUpCmd creates the cluster up command. Up provisions the cluster, then
// waits for the API server and a node to become ready.
func NewUpCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Provision the cluster",
		Long: `Provision the local Kubernetes cluster with the configured provisioner ` +
			`and wait for it to become usable. An already-running cluster is reported, ` +
			`not re-created.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	selectors := devctlconfigmanager.DefaultEnvironmentFieldSelectors()
	selectors = append(selectors, devctlconfigmanager.ClusterFieldSelectors()...)

	cfgManager := devctlconfigmanager.NewCommandConfigManager(cmd, selectors)

	cmd.RunE = cmdhelpers.WrapLifecycleHandler(runtimeContainer, cfgManager, handleUpRunE)

	return cmd
}

func handleUpRunE(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	deps cmdhelpers.LifecycleDeps,
) error {
	deps.Timer.Start()

	outputTimer := cmdhelpers.MaybeTimer(cmd, deps.Timer)

	env, err := cfgManager.Load(configmanager.LoadOptions{Timer: outputTimer})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	deps.Timer.NewStage()

	cmdhelpers.ShowTitle(cmd, "☸️", "Creating cluster...")

	provisioner, err := deps.Factory.Create(cmd.Context(), env)
	if err != nil {
		return fmt.Errorf("failed to resolve cluster provisioner: %w", err)
	}

	clusterName := env.Spec.Cluster.Name

	notify.Activityf(cmd.OutOrStdout(), "creating cluster '%s'", clusterName)

	err = provisioner.Create(cmd.Context(), clusterName)

	switch {
	case errors.Is(err, provider.ErrSkipAction):
		notify.Skipf(cmd.OutOrStdout(), "%v", err)
	case err != nil:
		return fmt.Errorf("failed to create cluster: %w", err)
	}

	err = cmdhelpers.WaitForClusterReady(cmd.Context(), env, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "cluster created and ready",
		Timer:   outputTimer,
		Writer:  cmd.OutOrStdout(),
	})

	notify.Infof(
		cmd.OutOrStdout(),
		"run 'devctl stack install' to install Argo CD, Argo Rollouts, "+
			"kube-prometheus-stack, and ingress-nginx",
	)

	return nil
}
