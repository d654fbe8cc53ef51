package app

import (
	"fmt"

	"github.com/k8s-rollouts/devctl/pkg/client/argocd"
	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/k8s-rollouts/devctl/pkg/utils/timer"
	"github.com/spf13/cobra"
)

// NewBootstrapCmd creates the app bootstrap command. Bootstrap upserts the
// repository secret and the root app-of-apps Application.
func NewBootstrapCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	var (
		username string
		password string
		insecure bool
	)

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Bootstrap the app-of-apps into Argo CD",
		Long: `Ensure the argocd namespace, the repository credentials secret, and the ` +
			`root app-of-apps Application pointing at the configured repository and revision.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cfgManager := devctlconfigmanager.NewCommandConfigManager(cmd, gitOpsSelectors())

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		runtime.WithTimer(
			func(cmd *cobra.Command, _ runtime.Injector, tmr timer.Timer) error {
				return runBootstrap(cmd, cfgManager, tmr, username, password, insecure)
			},
		),
	)

	cmd.Flags().StringVar(&username, "username", "", "Repository username (for private repositories)")
	cmd.Flags().StringVar(&password, "password", "", "Repository password or access token")
	cmd.Flags().BoolVar(&insecure, "insecure", false, "Skip TLS verification for the repository")

	return cmd
}

func runBootstrap(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	tmr timer.Timer,
	username, password string,
	insecure bool,
) error {
	tmr.Start()

	outputTimer := cmdhelpers.MaybeTimer(cmd, tmr)

	env, err := cfgManager.Load(configmanager.LoadOptions{Timer: outputTimer})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	if env.Spec.GitOps.RepoURL == "" {
		return errRepoURLRequired
	}

	tmr.NewStage()

	cmdhelpers.ShowTitle(cmd, "🔄", "Bootstrapping GitOps...")
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
		Username:       username,
		Password:       password,
		Insecure:       insecure,
	})
	if err != nil {
		return fmt.Errorf("failed to bootstrap argocd: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "app-of-apps bootstrapped",
		Timer:   outputTimer,
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}
