package env

import (
	"fmt"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/svc/installer"
	"github.com/k8s-rollouts/devctl/pkg/svc/supervisor"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewDownCmd creates the env down command. Down stops every supervised
// background process, uninstalls the component stack, then deletes the
// cluster.
func NewDownCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Tear the whole environment down",
		Long: `Stop the detached port-forwards and other supervised processes, ` +
			`uninstall the component stack, then delete the cluster.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cfgManager := devctlconfigmanager.NewCommandConfigManager(cmd, envSelectors())

	cmd.RunE = cmdhelpers.WrapLifecycleHandler(runtimeContainer, cfgManager, handleDownRunE)

	return cmd
}

func handleDownRunE(
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

	cmdhelpers.ShowTitle(cmd, "🔥", "Tearing the environment down...")

	sup, err := supervisor.NewSupervisor(env.Spec.Cluster.Name)
	if err == nil {
		// Best effort: a failed process stop must not block cluster deletion.
		_ = sup.StopAll(cmd.Context())
	}

	downStack(cmd, deps, env)

	deps.Timer.NewStage()

	provisioner, err := deps.Factory.Create(cmd.Context(), env)
	if err != nil {
		return fmt.Errorf("failed to resolve cluster provisioner: %w", err)
	}

	notify.Activityf(cmd.OutOrStdout(), "deleting cluster '%s'", env.Spec.Cluster.Name)

	err = provisioner.Delete(cmd.Context(), env.Spec.Cluster.Name)
	if err != nil {
		return fmt.Errorf("failed to delete cluster: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "environment torn down",
		Timer:   outputTimer,
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}

// downStack uninstalls the component stack before the cluster goes away.
// Best effort: deleting the cluster removes the releases anyway, a clean
// uninstall just lets finalizers run first.
func downStack(cmd *cobra.Command, deps cmdhelpers.LifecycleDeps, env *v1alpha1.Environment) {
	factory := newFactory(env, installer.GetInstallTimeout(env))

	components, err := factory.Components(env)
	if err != nil {
		notify.Warningf(cmd.OutOrStdout(), "skipping the stack uninstall: %v", err)

		return
	}

	err = cmdhelpers.RunStackUninstall(cmd, deps.Timer, components)
	if err != nil {
		notify.Warningf(cmd.OutOrStdout(), "stack uninstall incomplete: %v", err)
	}
}
