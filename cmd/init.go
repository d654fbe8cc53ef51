package cmd

import (
	"fmt"

	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/io/scaffolder"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/k8s-rollouts/devctl/pkg/utils/timer"
	"github.com/spf13/cobra"
)

// NewInitCmd creates the init command scaffolding devctl.yaml and the demo
// manifests into the output directory.
func NewInitCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	var (
		force  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold devctl.yaml and the demo manifests",
		Long: `Scaffold a devctl.yaml configuration and the sample application manifests ` +
			`(Rollout, Services, AnalysisTemplate, Ingresses) for the GitOps repository.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	selectors := devctlconfigmanager.DefaultEnvironmentFieldSelectors()
	selectors = append(selectors, devctlconfigmanager.ClusterFieldSelectors()...)
	selectors = append(selectors, devctlconfigmanager.GitOpsFieldSelectors()...)

	cfgManager := devctlconfigmanager.NewCommandConfigManager(cmd, selectors)

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		runtime.WithTimer(
			func(cmd *cobra.Command, _ runtime.Injector, tmr timer.Timer) error {
				return runInit(cmd, cfgManager, tmr, output, force)
			},
		),
	)

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().StringVarP(&output, "output", "o", ".", "Directory to scaffold into")

	return cmd
}

func runInit(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	tmr timer.Timer,
	output string,
	force bool,
) error {
	tmr.Start()

	outputTimer := cmdhelpers.MaybeTimer(cmd, tmr)

	// Flags and environment variables seed the scaffolded config; an existing
	// devctl.yaml is deliberately ignored so init reflects what was asked for.
	env, err := cfgManager.Load(configmanager.LoadOptions{
		Timer:            outputTimer,
		IgnoreConfigFile: true,
		SkipValidation:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	tmr.NewStage()

	cmdhelpers.ShowTitle(cmd, "🗂️", "Initializing project...")

	err = scaffolder.NewScaffolder(env, cmd.OutOrStdout()).Scaffold(output, force)
	if err != nil {
		return fmt.Errorf("failed to scaffold project: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "project initialized",
		Timer:   outputTimer,
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}
