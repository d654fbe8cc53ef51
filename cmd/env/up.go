package env

import (
	"errors"
	"fmt"
	"os"

	"github.com/k8s-rollouts/devctl/cmd/forward"
	verifycmd "github.com/k8s-rollouts/devctl/cmd/verify"
	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	"github.com/k8s-rollouts/devctl/pkg/client/argocd"
	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/svc/installer"
	"github.com/k8s-rollouts/devctl/pkg/svc/provider"
	"github.com/k8s-rollouts/devctl/pkg/svc/supervisor"
	"github.com/k8s-rollouts/devctl/pkg/svc/verify"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewUpCmd creates the env up command. Up runs the full bring-up: cluster,
// component stack, GitOps bootstrap, and detached port-forwards.
func NewUpCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	var skipForwards bool

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Bring the whole environment up",
		Long: `Provision the cluster, install the component stack, bootstrap the ` +
			`app-of-apps into Argo CD, and start the port-forwards as a background ` +
			`process. Steps that are already done are skipped.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cfgManager := devctlconfigmanager.NewCommandConfigManager(cmd, envSelectors())

	cmd.RunE = cmdhelpers.WrapLifecycleHandler(
		runtimeContainer,
		cfgManager,
		func(cmd *cobra.Command, manager *devctlconfigmanager.ConfigManager, deps cmdhelpers.LifecycleDeps) error {
			return handleUpRunE(cmd, manager, deps, skipForwards)
		},
	)

	cmd.Flags().BoolVar(&skipForwards, "skip-forwards", false, "Do not start the detached port-forwards")

	return cmd
}

func handleUpRunE(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	deps cmdhelpers.LifecycleDeps,
	skipForwards bool,
) error {
	deps.Timer.Start()

	outputTimer := cmdhelpers.MaybeTimer(cmd, deps.Timer)

	env, err := cfgManager.Load(configmanager.LoadOptions{Timer: outputTimer})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	deps.Timer.NewStage()

	cmdhelpers.ShowTitle(cmd, "🚀", "Bringing the environment up...")

	err = upCluster(cmd, deps, env)
	if err != nil {
		return err
	}

	deps.Timer.NewStage()

	err = upStack(cmd, deps, env)
	if err != nil {
		return err
	}

	deps.Timer.NewStage()

	err = upGitOps(cmd, env)
	if err != nil {
		return err
	}

	if !skipForwards {
		err = upForwards(cmd, env)
		if err != nil {
			return err
		}
	}

	deps.Timer.NewStage()

	upSummary(cmd, env)

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "environment is up",
		Timer:   outputTimer,
		Writer:  cmd.OutOrStdout(),
	})

	notify.Infof(cmd.OutOrStdout(), "check it with 'devctl verify' and 'devctl env status'")

	return nil
}

func upCluster(
	cmd *cobra.Command,
	deps cmdhelpers.LifecycleDeps,
	env *v1alpha1.Environment,
) error {
	provisioner, err := deps.Factory.Create(cmd.Context(), env)
	if err != nil {
		return fmt.Errorf("failed to resolve cluster provisioner: %w", err)
	}

	notify.Activityf(cmd.OutOrStdout(), "creating cluster '%s'", env.Spec.Cluster.Name)

	err = provisioner.Create(cmd.Context(), env.Spec.Cluster.Name)

	switch {
	case errors.Is(err, provider.ErrSkipAction):
		notify.Skipf(cmd.OutOrStdout(), "%v", err)
	case err != nil:
		return fmt.Errorf("failed to create cluster: %w", err)
	}

	return cmdhelpers.WaitForClusterReady(cmd.Context(), env, cmd.OutOrStdout())
}

func upStack(
	cmd *cobra.Command,
	deps cmdhelpers.LifecycleDeps,
	env *v1alpha1.Environment,
) error {
	factory := newFactory(env, installer.GetInstallTimeout(env))

	components, err := factory.Components(env)
	if err != nil {
		return fmt.Errorf("failed to build component stack: %w", err)
	}

	return cmdhelpers.RunStackInstall(cmd, deps.Timer, env, components)
}

func upGitOps(cmd *cobra.Command, env *v1alpha1.Environment) error {
	if env.Spec.GitOps.RepoURL == "" {
		notify.Skipf(
			cmd.OutOrStdout(),
			"gitops.repoURL not set; skipping the Argo CD bootstrap",
		)

		return nil
	}

	notify.Activityf(
		cmd.OutOrStdout(),
		"pointing Argo CD at %s (%s)",
		env.Spec.GitOps.RepoURL,
		env.Spec.GitOps.TargetRevision,
	)

	manager, err := argocd.NewManagerFromKubeconfig(
		env.Spec.Connection.Kubeconfig,
		env.Spec.Connection.Context,
	)
	if err != nil {
		return fmt.Errorf("failed to create argocd client: %w", err)
	}

	err = manager.Bootstrap(cmd.Context(), argocd.BootstrapOptions{
		RepositoryURL:  env.Spec.GitOps.RepoURL,
		Path:           env.Spec.GitOps.AppOfAppsPath,
		TargetRevision: env.Spec.GitOps.TargetRevision,
		Project:        env.Spec.GitOps.Project,
	})
	if err != nil {
		return fmt.Errorf("failed to bootstrap argocd: %w", err)
	}

	return nil
}

// upSummary runs the in-cluster verification suites as a closing summary.
// Failures do not fail the bring-up: applications routinely need another
// reconcile pass right after the bootstrap.
func upSummary(cmd *cobra.Command, env *v1alpha1.Environment) {
	suites, err := verifycmd.InClusterSuites(env)
	if err != nil {
		notify.Warningf(cmd.OutOrStdout(), "skipping the verification summary: %v", err)

		return
	}

	results := verify.Run(cmd.Context(), suites...)

	verify.Render(cmd.OutOrStdout(), results)

	if verify.Failed(results) {
		notify.Warningf(
			cmd.OutOrStdout(),
			"some checks have not passed yet; re-run 'devctl verify' once the applications settle",
		)
	}
}

// upForwards starts the port-forwards as a supervised re-execution of this
// binary, so they outlive the up invocation.
func upForwards(cmd *cobra.Command, env *v1alpha1.Environment) error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve executable path: %w", err)
	}

	sup, err := supervisor.NewSupervisor(env.Spec.Cluster.Name)
	if err != nil {
		return fmt.Errorf("failed to create supervisor: %w", err)
	}

	state, err := sup.Start(
		cmd.Context(),
		forward.ForwardsProcessName,
		executable,
		"forward", "start",
	)
	if err != nil {
		if errors.Is(err, supervisor.ErrProcessAlreadyRunning) {
			notify.Skipf(cmd.OutOrStdout(), "port-forwards already running")

			return nil
		}

		return fmt.Errorf("failed to start detached forwards: %w", err)
	}

	notify.Successf(
		cmd.OutOrStdout(),
		"port-forwards running (pid %d), logs at %s",
		state.PID,
		state.LogPath,
	)

	return nil
}
