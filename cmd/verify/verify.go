// Package verify provides the verify command running read-only check suites
// against the environment: cluster health, stack components, GitOps state,
// observability endpoints, the sample rollout, and the sample API.
package verify

import (
	"errors"
	"fmt"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	"github.com/k8s-rollouts/devctl/pkg/client/argocd"
	"github.com/k8s-rollouts/devctl/pkg/client/helm"
	"github.com/k8s-rollouts/devctl/pkg/client/rollouts"
	cmdhelpers "github.com/k8s-rollouts/devctl/pkg/cmd"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	devctlconfigmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/k8s-rollouts/devctl/pkg/k8s"
	"github.com/k8s-rollouts/devctl/pkg/svc/installer"
	"github.com/k8s-rollouts/devctl/pkg/svc/verify"
	"github.com/spf13/cobra"
)

// errVerificationFailed indicates at least one check failed.
var errVerificationFailed = errors.New("verification failed")

// errUnknownSuite indicates a suite name that does not exist.
var errUnknownSuite = errors.New("unknown verification suite")

// errUnknownOutput indicates an unsupported --output value.
var errUnknownOutput = errors.New("unknown output format")

// suiteNames returns the valid suite names in execution order.
func suiteNames() []string {
	return []string{"cluster", "stack", "gitops", "observability", "rollout", "api"}
}

// endpointFlags are the base URL overrides for the HTTP-facing suites.
type endpointFlags struct {
	apiBaseURL        string
	prometheusBaseURL string
	grafanaBaseURL    string
}

// NewVerifyCmd creates the verify command.
func NewVerifyCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	var (
		output    string
		endpoints endpointFlags
	)

	cmd := &cobra.Command{
		Use:   "verify [suite...]",
		Short: "Run verification suites against the environment",
		Long: `Run read-only verification suites against the environment. With no ` +
			`arguments every suite runs: ` +
			`cluster, stack, gitops, observability, rollout, and api.`,
		ValidArgs:    suiteNames(),
		Args:         cobra.OnlyValidArgs,
		SilenceUsage: true,
	}

	cfgManager := devctlconfigmanager.NewCommandConfigManager(
		cmd,
		devctlconfigmanager.DefaultEnvironmentFieldSelectors(),
	)

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		func(cmd *cobra.Command, _ runtime.Injector) error {
			return runVerify(cmd, cfgManager, cmd.Flags().Args(), output, endpoints)
		},
	)

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text or json)")
	cmd.Flags().StringVar(
		&endpoints.apiBaseURL,
		"api-base-url",
		"",
		"Base URL of the sample API (defaults to the forwarded localhost port)",
	)
	cmd.Flags().StringVar(
		&endpoints.prometheusBaseURL,
		"prometheus-base-url",
		"",
		"Base URL of Prometheus (defaults to the forwarded localhost port)",
	)
	cmd.Flags().StringVar(
		&endpoints.grafanaBaseURL,
		"grafana-base-url",
		"",
		"Base URL of Grafana (defaults to the forwarded localhost port)",
	)

	return cmd
}

// InClusterSuites builds the suites that need only cluster access (cluster,
// stack, gitops). env up runs them as its closing summary; the endpoint
// suites need the forwards, which may still be warming up at that point.
func InClusterSuites(env *v1alpha1.Environment) ([]verify.Suite, error) {
	return buildSuites(env, []string{"cluster", "stack", "gitops"}, endpointFlags{})
}

func runVerify(
	cmd *cobra.Command,
	cfgManager *devctlconfigmanager.ConfigManager,
	requested []string,
	output string,
	endpoints endpointFlags,
) error {
	if output != "text" && output != "json" {
		return fmt.Errorf("%w: %s", errUnknownOutput, output)
	}

	env, err := cfgManager.Load(configmanager.LoadOptions{Silent: true})
	if err != nil {
		return fmt.Errorf("failed to load environment configuration: %w", err)
	}

	if len(requested) == 0 {
		requested = suiteNames()
	}

	suites, err := buildSuites(env, requested, endpoints)
	if err != nil {
		return err
	}

	if output == "text" {
		cmdhelpers.ShowTitle(cmd, "🔍", "Verifying environment...")
	}

	results := verify.Run(cmd.Context(), suites...)

	if output == "json" {
		err = verify.RenderJSON(cmd.OutOrStdout(), results)
		if err != nil {
			return fmt.Errorf("failed to render results: %w", err)
		}
	} else {
		verify.Render(cmd.OutOrStdout(), results)
	}

	if verify.Failed(results) {
		return errVerificationFailed
	}

	return nil
}

//nolint:cyclop // one case per suite name
func buildSuites(
	env *v1alpha1.Environment,
	requested []string,
	endpoints endpointFlags,
) ([]verify.Suite, error) {
	suites := make([]verify.Suite, 0, len(requested))

	for _, name := range requested {
		var (
			suite verify.Suite
			err   error
		)

		switch name {
		case "cluster":
			suite, err = buildClusterSuite(env)
		case "stack":
			suite, err = buildStackSuite(env)
		case "gitops":
			suite, err = buildGitOpsSuite(env)
		case "observability":
			suite = buildObservabilitySuite(env, endpoints)
		case "rollout":
			suite, err = buildRolloutSuite(env)
		case "api":
			suite = buildAPISuite(env, endpoints)
		default:
			return nil, fmt.Errorf("%w: %s", errUnknownSuite, name)
		}

		if err != nil {
			return nil, err
		}

		suites = append(suites, suite)
	}

	return suites, nil
}

func buildClusterSuite(env *v1alpha1.Environment) (verify.Suite, error) {
	client, err := k8s.NewClientset(env.Spec.Connection.Kubeconfig, env.Spec.Connection.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return verify.NewClusterSuite(client, requiredNamespaces(env)), nil
}

func buildStackSuite(env *v1alpha1.Environment) (verify.Suite, error) {
	client, err := k8s.NewClientset(env.Spec.Connection.Kubeconfig, env.Spec.Connection.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	factory := newFactory(env)

	components, err := factory.Components(env)
	if err != nil {
		return nil, fmt.Errorf("failed to build component stack: %w", err)
	}

	return verify.NewStackSuite(client, components), nil
}

func buildGitOpsSuite(env *v1alpha1.Environment) (verify.Suite, error) {
	kubeconfig := env.Spec.Connection.Kubeconfig
	kubecontext := env.Spec.Connection.Context

	client, err := k8s.NewClientset(kubeconfig, kubecontext)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	dynamicClient, err := k8s.NewDynamicClient(kubeconfig, kubecontext)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	reconciler, err := argocd.NewReconciler(kubeconfig, kubecontext)
	if err != nil {
		return nil, fmt.Errorf("failed to create argocd client: %w", err)
	}

	return verify.NewGitOpsSuite(client, dynamicClient, reconciler, ""), nil
}

func buildObservabilitySuite(env *v1alpha1.Environment, endpoints endpointFlags) verify.Suite {
	return verify.NewObservabilitySuite(verify.ObservabilityOptions{
		PrometheusBaseURL:    endpointOrForward(endpoints.prometheusBaseURL, env, "prometheus"),
		GrafanaBaseURL:       endpointOrForward(endpoints.grafanaBaseURL, env, "grafana"),
		GrafanaAdminPassword: env.Spec.Observability.GrafanaAdminPassword,
	})
}

func buildRolloutSuite(env *v1alpha1.Environment) (verify.Suite, error) {
	client, err := rollouts.NewClient(
		env.Spec.Connection.Kubeconfig,
		env.Spec.Connection.Context,
		env.Spec.SampleApp.Namespace,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rollouts client: %w", err)
	}

	name := env.Spec.SampleApp.ReleaseName
	if name == "" {
		name = v1alpha1.DefaultReleaseName
	}

	return verify.NewRolloutSuite(client, name, env.Spec.SampleApp), nil
}

func buildAPISuite(env *v1alpha1.Environment, endpoints endpointFlags) verify.Suite {
	return verify.NewAPISuite(verify.APIOptions{
		BaseURL:         endpointOrForward(endpoints.apiBaseURL, env, "sample-api"),
		ExpectedVersion: env.Spec.SampleApp.Image.Tag,
	})
}

// requiredNamespaces lists the namespaces the stack and sample app occupy.
func requiredNamespaces(env *v1alpha1.Environment) []string {
	sampleNamespace := env.Spec.SampleApp.Namespace
	if sampleNamespace == "" {
		sampleNamespace = v1alpha1.DefaultSampleAppNamespace
	}

	observabilityNamespace := env.Spec.Observability.Namespace
	if observabilityNamespace == "" {
		observabilityNamespace = v1alpha1.DefaultObservabilityNamespace
	}

	return []string{"argocd", observabilityNamespace, sampleNamespace, "ingress-nginx"}
}

// endpointOrForward resolves a base URL from the flag override or the
// configured forward's local port.
func endpointOrForward(override string, env *v1alpha1.Environment, forwardName string) string {
	if override != "" {
		return override
	}

	specs := env.Spec.Forwards
	if len(specs) == 0 {
		specs = v1alpha1.DefaultForwards()
	}

	for _, spec := range specs {
		if spec.Name == forwardName && spec.LocalPort > 0 {
			return fmt.Sprintf("http://127.0.0.1:%d", spec.LocalPort)
		}
	}

	return ""
}

// newFactory mirrors the stack command's component factory wiring.
func newFactory(env *v1alpha1.Environment) *installer.Factory {
	kubeconfig := env.Spec.Connection.Kubeconfig
	kubecontext := env.Spec.Connection.Context

	return installer.NewFactory(func() (helm.Interface, error) {
		return helm.NewClient(kubeconfig, kubecontext)
	}, installer.GetInstallTimeout(env))
}
