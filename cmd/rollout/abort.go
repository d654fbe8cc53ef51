package rollout

import (
	"context"
	"fmt"

	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewAbortCmd creates the rollout abort command.
func NewAbortCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	return newActionCmd(
		runtimeContainer,
		"abort [name]",
		"Abort an in-progress rollout and fall back to the stable revision",
		func(ctx context.Context, client rolloutActioner, name string) error {
			return client.Abort(ctx, name)
		},
		"rollout '%s' aborted; the stable revision serves all traffic",
	)
}

// NewRetryCmd creates the rollout retry command.
func NewRetryCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	return newActionCmd(
		runtimeContainer,
		"retry [name]",
		"Retry an aborted rollout from the beginning",
		func(ctx context.Context, client rolloutActioner, name string) error {
			return client.Retry(ctx, name)
		},
		"rollout '%s' retrying the update",
	)
}

// rolloutActioner is the slice of the rollouts client abort and retry need.
type rolloutActioner interface {
	Abort(ctx context.Context, name string) error
	Retry(ctx context.Context, name string) error
}

func newActionCmd(
	runtimeContainer *runtime.Runtime,
	use, short string,
	action func(ctx context.Context, client rolloutActioner, name string) error,
	successFormat string,
) *cobra.Command {
	cmd := &cobra.Command{
		Use:          use,
		Short:        short,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
	}

	cfgManager := devctlconfigmanager.NewCommandConfigManager(
		cmd,
		devctlconfigmanager.DefaultEnvironmentFieldSelectors(),
	)

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		func(cmd *cobra.Command, _ runtime.Injector) error {
			env, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
			if err != nil {
				return fmt.Errorf("failed to load environment configuration: %w", err)
			}

			client, err := newClient(env)
			if err != nil {
				return err
			}

			name := rolloutName(env, cmd.Flags().Args())

			err = action(cmd.Context(), client, name)
			if err != nil {
				return fmt.Errorf("rollout action failed: %w", err)
			}

			notify.Successf(cmd.OutOrStdout(), successFormat, name)

			return nil
		},
	)

	return cmd
}
