package stack

import (
	"context"
	"fmt"

	"github.com/k8s-rollouts/devctl/pkg/client/helm"
	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/k8s"
	"github.com/k8s-rollouts/devctl/pkg/svc/installer"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/spf13/cobra"
	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// NewStatusCmd creates the stack status command reporting the Helm release
// state and workload readiness per component.
func NewStatusCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "status",
		Short:        "Show stack component status",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cfgManager := devctlconfigmanager.NewCommandConfigManager(
		cmd,
		devctlconfigmanager.DefaultEnvironmentFieldSelectors(),
	)

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		func(cmd *cobra.Command, _ runtime.Injector) error {
			return runStatus(cmd, cfgManager)
		},
	)

	return cmd
}

func runStatus(cmd *cobra.Command, cfgManager *devctlconfigmanager.ConfigManager) error {
	env, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	factory := newFactory(env, installer.GetInstallTimeout(env))

	components, err := resolveComponents(factory, env, nil)
	if err != nil {
		return err
	}

	helmClient, err := helm.NewClient(
		env.Spec.Connection.Kubeconfig,
		env.Spec.Connection.Context,
	)
	if err != nil {
		return fmt.Errorf("failed to create helm client: %w", err)
	}

	clientset, err := k8s.NewClientset(
		env.Spec.Connection.Kubeconfig,
		env.Spec.Connection.Context,
	)
	if err != nil {
		return fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	cmdhelpers.ShowTitle(cmd, "📦", "Stack status...")

	for _, component := range components {
		reportComponent(cmd, helmClient, clientset, component)
	}

	return nil
}

func reportComponent(
	cmd *cobra.Command,
	helmClient helm.Interface,
	clientset kubernetes.Interface,
	component installer.Component,
) {
	release, err := helmClient.GetReleaseInfo(
		cmd.Context(),
		component.ReleaseName,
		component.Namespace,
	)
	if err != nil {
		notify.Warningf(cmd.OutOrStdout(), "%s: not installed (%v)", component.Name, err)

		return
	}

	ready, total := readyWorkloads(cmd.Context(), clientset, component)

	notify.Infof(
		cmd.OutOrStdout(),
		"%s: release %s revision %d (%s), %d/%d workloads ready",
		component.Name,
		release.Status,
		release.Revision,
		release.Chart,
		ready,
		total,
	)
}

// readyWorkloads counts the component's deployment readiness checks that are
// currently satisfied.
func readyWorkloads(
	ctx context.Context,
	clientset kubernetes.Interface,
	component installer.Component,
) (int, int) {
	ready := 0
	total := 0

	for _, check := range component.Readiness {
		if check.Type != "deployment" {
			continue
		}

		total++

		deployment, err := clientset.AppsV1().
			Deployments(check.Namespace).
			Get(ctx, check.Name, metav1.GetOptions{})
		if err != nil {
			continue
		}

		if deploymentAvailable(deployment) {
			ready++
		}
	}

	return ready, total
}

func deploymentAvailable(deployment *appsv1.Deployment) bool {
	for _, condition := range deployment.Status.Conditions {
		if condition.Type == appsv1.DeploymentAvailable {
			return condition.Status == "True"
		}
	}

	return false
}
