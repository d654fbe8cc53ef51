package env

import (
	"fmt"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	"github.com/k8s-rollouts/devctl/pkg/client/argocd"
	"github.com/k8s-rollouts/devctl/pkg/client/helm"
	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/svc/forwarder"
	"github.com/k8s-rollouts/devctl/pkg/svc/installer"
	clusterprovisioner "github.com/k8s-rollouts/devctl/pkg/svc/provisioner/cluster"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// statusProbeTimeout bounds each local port dial during the forward probe.
const statusProbeTimeout = 2 * time.Second

// NewStatusCmd creates the env status command: a one-page report covering the
// cluster, the stack releases, the Argo CD applications, and the forwards.
func NewStatusCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "status",
		Short:        "Show the state of the whole environment",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cfgManager := devctlconfigmanager.NewCommandConfigManager(cmd, envSelectors())

	cmd.RunE = cmdhelpers.WrapLifecycleHandler(runtimeContainer, cfgManager, handleStatusRunE)

	return cmd
}

func handleStatusRunE(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	deps cmdhelpers.LifecycleDeps,
) error {
	env, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	cmdhelpers.ShowTitle(cmd, "📊", "Environment status...")

	reportCluster(cmd, deps, env)
	reportReleases(cmd, env)
	reportApplications(cmd, env)
	reportForwards(cmd, env)

	return nil
}

func reportCluster(
	cmd *cobra.Command,
	deps cmdhelpers.LifecycleDeps,
	env *v1alpha1.Environment,
) {
	notify.Infof(
		cmd.OutOrStdout(),
		"cluster '%s' (%s)",
		env.Spec.Cluster.Name,
		env.Spec.Cluster.Provisioner.String(),
	)

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

func reportReleases(cmd *cobra.Command, env *v1alpha1.Environment) {
	factory := newFactory(env, installer.GetInstallTimeout(env))

	components, err := factory.Components(env)
	if err != nil {
		notify.Warningf(cmd.OutOrStdout(), "failed to build component stack: %v", err)

		return
	}

	helmClient, err := helm.NewClient(
		env.Spec.Connection.Kubeconfig,
		env.Spec.Connection.Context,
	)
	if err != nil {
		notify.Warningf(cmd.OutOrStdout(), "helm unavailable: %v", err)

		return
	}

	for _, component := range components {
		release, err := helmClient.GetReleaseInfo(
			cmd.Context(),
			component.ReleaseName,
			component.Namespace,
		)
		if err != nil {
			notify.Warningf(cmd.OutOrStdout(), "%s: not installed", component.Name)

			continue
		}

		notify.Infof(
			cmd.OutOrStdout(),
			"%s: %s revision %d (%s)",
			component.Name,
			release.Status,
			release.Revision,
			release.Chart,
		)
	}
}

func reportApplications(cmd *cobra.Command, env *v1alpha1.Environment) {
	reconciler, err := argocd.NewReconciler(
		env.Spec.Connection.Kubeconfig,
		env.Spec.Connection.Context,
	)
	if err != nil {
		notify.Warningf(cmd.OutOrStdout(), "argocd unavailable: %v", err)

		return
	}

	statuses, err := reconciler.ListApplicationStatuses(cmd.Context())
	if err != nil {
		notify.Warningf(cmd.OutOrStdout(), "failed to list applications: %v", err)

		return
	}

	if len(statuses) == 0 {
		notify.Infof(cmd.OutOrStdout(), "no applications; run 'devctl app bootstrap'")

		return
	}

	for _, status := range statuses {
		line := fmt.Sprintf("%s: %s/%s", status.Name, status.SyncStatus, status.HealthStatus)

		if status.Synced() {
			notify.Successf(cmd.OutOrStdout(), "%s", line)
		} else {
			notify.Warningf(cmd.OutOrStdout(), "%s", line)
		}
	}
}

func reportForwards(cmd *cobra.Command, env *v1alpha1.Environment) {
	specs := env.Spec.Forwards
	if len(specs) == 0 {
		specs = v1alpha1.DefaultForwards()
	}

	for _, status := range forwarder.Probe(specs, statusProbeTimeout) {
		if status.Reachable {
			notify.Successf(
				cmd.OutOrStdout(),
				"forward %s: 127.0.0.1:%d reachable",
				status.Spec.Name,
				status.Spec.LocalPort,
			)

			continue
		}

		notify.Warningf(
			cmd.OutOrStdout(),
			"forward %s: 127.0.0.1:%d not reachable",
			status.Spec.Name,
			status.Spec.LocalPort,
		)
	}
}
