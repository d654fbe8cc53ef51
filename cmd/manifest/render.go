package manifest

import (
	"fmt"

	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/io/generator/manifests"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewRenderCmd creates the manifest render command.
func NewRenderCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	var (
		outDir string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the demo manifests for the configured strategy",
		Long: `Render the Rollout, Services, AnalysisTemplate, and Ingress manifests for ` +
			`the configured rollout strategy to stdout, or to files with --out.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cfgManager := devctlconfigmanager.NewCommandConfigManager(cmd, manifestSelectors())

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		func(cmd *cobra.Command, _ runtime.Injector) error {
			return runRender(cmd, cfgManager, outDir, force)
		},
	)

	cmd.Flags().StringVar(&outDir, "out", "", "Directory to write manifest files into (stdout when empty)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files in the output directory")

	return cmd
}

func runRender(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	outDir string,
	force bool,
) error {
	env, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	renderer := manifests.NewRenderer(env)

	if outDir != "" {
		paths, err := renderer.WriteFiles(outDir, force)
		if err != nil {
			return fmt.Errorf("failed to write manifests: %w", err)
		}

		for _, path := range paths {
			notify.Generatef(cmd.OutOrStdout(), "wrote '%s'", path)
		}

		return nil
	}

	files, err := renderer.Render()
	if err != nil {
		return fmt.Errorf("failed to render manifests: %w", err)
	}

	for i, file := range files {
		if i > 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "---")
		}

		_, _ = fmt.Fprint(cmd.OutOrStdout(), file.Content)
	}

	return nil
}
