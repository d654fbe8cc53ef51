package rollout

import (
	"fmt"

	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

const setImageArgCount = 2

// NewSetImageCmd creates the rollout set-image command.
func NewSetImageCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	var container string

	cmd := &cobra.Command{
		Use:   "set-image <name> <image>",
		Short: "Update the rollout's container image to trigger a new revision",
		Long: `Set the image of the rollout's container, which the controller picks up as ` +
			`a new revision and rolls out with the configured strategy. The image tag must ` +
			`be a semantic version.`,
		Args:         cobra.ExactArgs(setImageArgCount),
		SilenceUsage: true,
	}

	cfgManager := devctlconfigmanager.NewCommandConfigManager(
		cmd,
		devctlconfigmanager.DefaultEnvironmentFieldSelectors(),
	)

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		func(cmd *cobra.Command, _ runtime.Injector) error {
			return runSetImage(cmd, cfgManager, cmd.Flags().Arg(0), cmd.Flags().Arg(1), container)
		},
	)

	cmd.Flags().StringVar(
		&container,
		"container",
		"",
		"Container to update (all containers when empty)",
	)

	return cmd
}

func runSetImage(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	name, image, container string,
) error {
	env, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	client, err := newClient(env)
	if err != nil {
		return err
	}

	err = client.SetImage(cmd.Context(), name, container, image)
	if err != nil {
		return fmt.Errorf("failed to set image: %w", err)
	}

	notify.Successf(cmd.OutOrStdout(), "rollout '%s' now targets image '%s'", name, image)
	notify.Infof(cmd.OutOrStdout(), "follow the update with 'devctl rollout watch %s'", name)

	return nil
}
