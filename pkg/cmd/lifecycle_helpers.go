// Package cmd provides shared helpers for devctl's cobra command handlers.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/svc/provider"
	clusterprovisioner "github.com/k8s-rollouts/devctl/pkg/svc/provisioner/cluster"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/k8s-rollouts/devctl/pkg/utils/timer"
	"github.com/spf13/cobra"
)

// TimingFlagName is the root persistent flag enabling timing output.
const TimingFlagName = "timing"

// ErrMissingClusterProvisionerDependency indicates that a lifecycle command resolved a nil provisioner.
var ErrMissingClusterProvisionerDependency = errors.New("missing cluster provisioner dependency")

// ErrEnvironmentConfigRequired indicates that a nil environment configuration was provided.
var ErrEnvironmentConfigRequired = errors.New("environment configuration is required")

// LifecycleAction represents a lifecycle operation executed against a cluster provisioner.
// The action receives a context for cancellation, the provisioner instance, and the cluster name.
type LifecycleAction func(
	ctx context.Context,
	provisioner clusterprovisioner.ClusterProvisioner,
	clusterName string,
) error

// LifecycleConfig describes the messaging and action behavior for a lifecycle command.
// It configures the user-facing messages displayed during command execution and specifies
// the action to perform on the cluster provisioner.
type LifecycleConfig struct {
	TitleEmoji         string
	TitleContent       string
	ActivityContent    string
	SuccessContent     string
	ErrorMessagePrefix string
	Action             LifecycleAction
}

// LifecycleDeps groups the injectable collaborators required by lifecycle commands.
type LifecycleDeps struct {
	Timer   timer.Timer
	Factory clusterprovisioner.Factory
}

// NewStandardLifecycleRunE creates a standard RunE handler for simple lifecycle commands.
// It handles dependency injection from the runtime container and delegates to
// HandleLifecycleRunE with the provided lifecycle configuration.
func NewStandardLifecycleRunE(
	runtimeContainer *runtime.Runtime,
	cfgManager *devctlconfigmanager.ConfigManager,
	config LifecycleConfig,
) func(*cobra.Command, []string) error {
	return WrapLifecycleHandler(
		runtimeContainer,
		cfgManager,
		func(cmd *cobra.Command, manager *devctlconfigmanager.ConfigManager, deps LifecycleDeps) error {
			return HandleLifecycleRunE(cmd, manager, deps, config)
		},
	)
}

// WrapLifecycleHandler resolves lifecycle dependencies from the runtime container
// and invokes the provided handler function with those dependencies.
func WrapLifecycleHandler(
	runtimeContainer *runtime.Runtime,
	cfgManager *devctlconfigmanager.ConfigManager,
	handler func(*cobra.Command, *devctlconfigmanager.ConfigManager, LifecycleDeps) error,
) func(*cobra.Command, []string) error {
	return runtime.RunEWithRuntime(
		runtimeContainer,
		runtime.WithTimer(
			func(cmd *cobra.Command, injector runtime.Injector, tmr timer.Timer) error {
				factory, err := runtime.ResolveClusterProvisionerFactory(injector)
				if err != nil {
					return err
				}

				deps := LifecycleDeps{Timer: tmr, Factory: factory}

				return handler(cmd, cfgManager, deps)
			},
		),
	)
}

// HandleLifecycleRunE orchestrates the standard lifecycle workflow: start the
// timer, load the environment configuration, begin a new timer stage, and run
// the lifecycle action.
func HandleLifecycleRunE(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	deps LifecycleDeps,
	config LifecycleConfig,
) error {
	if deps.Timer != nil {
		deps.Timer.Start()
	}

	outputTimer := MaybeTimer(cmd, deps.Timer)

	env, err := cfgManager.Load(configmanager.LoadOptions{Timer: outputTimer})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	if deps.Timer != nil {
		deps.Timer.NewStage()
	}

	return RunLifecycleWithConfig(cmd, deps, config, env)
}

// RunLifecycleWithConfig executes a lifecycle command using a pre-loaded
// environment configuration. Actions reporting provider.ErrSkipAction are
// rendered as skipped steps instead of failures, which keeps lifecycle
// commands idempotent against already-provisioned clusters.
func RunLifecycleWithConfig(
	cmd *cobra.Command,
	deps LifecycleDeps,
	config LifecycleConfig,
	env *v1alpha1.Environment,
) error {
	if env == nil {
		return ErrEnvironmentConfigRequired
	}

	provisioner, err := deps.Factory.Create(cmd.Context(), env)
	if err != nil {
		return fmt.Errorf("failed to resolve cluster provisioner: %w", err)
	}

	if provisioner == nil {
		return ErrMissingClusterProvisionerDependency
	}

	return runLifecycleWithProvisioner(cmd, deps, config, provisioner, env.Spec.Cluster.Name)
}

// runLifecycleWithProvisioner executes a lifecycle action using a resolved
// provisioner instance and handles the user-facing messaging around it.
func runLifecycleWithProvisioner(
	cmd *cobra.Command,
	deps LifecycleDeps,
	config LifecycleConfig,
	provisioner clusterprovisioner.ClusterProvisioner,
	clusterName string,
) error {
	ShowTitle(cmd, config.TitleEmoji, config.TitleContent)
	notify.Activityf(cmd.OutOrStdout(), "%s", config.ActivityContent)

	err := config.Action(cmd.Context(), provisioner, clusterName)

	switch {
	case errors.Is(err, provider.ErrSkipAction):
		notify.Skipf(cmd.OutOrStdout(), "%v", err)

		return nil
	case err != nil:
		return fmt.Errorf("%s: %w", config.ErrorMessagePrefix, err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: config.SuccessContent,
		Timer:   MaybeTimer(cmd, deps.Timer),
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}

// ShowTitle displays the title message for a command stage, preceded by a
// blank line for visual separation.
func ShowTitle(cmd *cobra.Command, emoji, content string) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: content,
		Emoji:   emoji,
		Writer:  cmd.OutOrStdout(),
	})
}

// MaybeTimer returns the timer when the root --timing flag is set, nil
// otherwise. Messages written with a nil timer omit the timing suffix.
func MaybeTimer(cmd *cobra.Command, tmr timer.Timer) timer.Timer {
	flag := cmd.Root().PersistentFlags().Lookup(TimingFlagName)
	if flag == nil {
		return nil
	}

	enabled, err := strconv.ParseBool(flag.Value.String())
	if err != nil || !enabled {
		return nil
	}

	return tmr
}

// GetKubeconfigPathSilently loads the environment configuration without
// notifications and returns the configured kubeconfig path. Load failures
// fall back to the default path so passthrough commands stay usable outside
// a devctl project directory.
func GetKubeconfigPathSilently() string {
	cfgManager := devctlconfigmanager.NewConfigManager(
		nil,
		devctlconfigmanager.DefaultEnvironmentFieldSelectors()...,
	)

	env, err := cfgManager.Load(configmanager.LoadOptions{Silent: true, SkipValidation: true})
	if err != nil || env.Spec.Connection.Kubeconfig == "" {
		return v1alpha1.DefaultKubeconfigPath
	}

	return env.Spec.Connection.Kubeconfig
}
