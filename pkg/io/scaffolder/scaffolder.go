// Package scaffolder generates the initial project files for an environment:
// the devctl.yaml configuration and the sample application manifests.
package scaffolder

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	"github.com/k8s-rollouts/devctl/pkg/fsutil"
	"github.com/k8s-rollouts/devctl/pkg/io/generator"
	"github.com/k8s-rollouts/devctl/pkg/io/generator/manifests"
	yamlgenerator "github.com/k8s-rollouts/devctl/pkg/io/generator/yaml"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
)

const (
	// ConfigFile is the filename of the environment configuration.
	ConfigFile = "devctl.yaml"

	// ManifestsDir is the directory the sample application manifests are
	// scaffolded into, relative to the output directory.
	ManifestsDir = "manifests"
)

// ErrConfigGeneration wraps failures when creating devctl.yaml.
var ErrConfigGeneration = errors.New("failed to generate devctl configuration")

// ErrManifestGeneration wraps failures when creating the sample manifests.
var ErrManifestGeneration = errors.New("failed to generate sample manifests")

// Scaffolder generates devctl project files.
type Scaffolder struct {
	Environment     *v1alpha1.Environment
	ConfigGenerator generator.Generator[*v1alpha1.Environment, yamlgenerator.Options]
	Writer          io.Writer
}

// NewScaffolder creates a Scaffolder for the given environment configuration.
func NewScaffolder(env *v1alpha1.Environment, writer io.Writer) *Scaffolder {
	return &Scaffolder{
		Environment:     env,
		ConfigGenerator: yamlgenerator.NewGenerator[*v1alpha1.Environment](),
		Writer:          writer,
	}
}

// Scaffold generates devctl.yaml and the sample application manifests under
// the output directory. Existing files are skipped unless force is set.
func (s *Scaffolder) Scaffold(output string, force bool) error {
	err := s.scaffoldConfig(output, force)
	if err != nil {
		return err
	}

	return s.scaffoldManifests(output, force)
}

func (s *Scaffolder) scaffoldConfig(output string, force bool) error {
	env := applyEnvironmentDefaults(s.Environment)
	path := filepath.Join(output, ConfigFile)

	skip, existed := s.checkExisting(path, ConfigFile, force)
	if skip {
		return nil
	}

	_, err := s.ConfigGenerator.Generate(env, yamlgenerator.Options{Output: path, Force: force})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigGeneration, err)
	}

	s.notifyFileAction(ConfigFile, existed)

	return nil
}

func (s *Scaffolder) scaffoldManifests(output string, force bool) error {
	renderer := manifests.NewRenderer(applyEnvironmentDefaults(s.Environment))

	files, err := renderer.Render()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrManifestGeneration, err)
	}

	manifestsDir := filepath.Join(output, ManifestsDir)

	for _, file := range files {
		path := filepath.Join(manifestsDir, file.Name)
		displayName := filepath.Join(ManifestsDir, file.Name)

		skip, existed := s.checkExisting(path, displayName, force)
		if skip {
			continue
		}

		_, err = fsutil.TryWriteFile(file.Content, path, force)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrManifestGeneration, err)
		}

		s.notifyFileAction(displayName, existed)
	}

	return nil
}

// checkExisting reports whether the file should be skipped and whether it
// already existed, notifying when a file is skipped.
func (s *Scaffolder) checkExisting(path, displayName string, force bool) (bool, bool) {
	_, err := os.Stat(path)
	if err != nil {
		return false, false
	}

	if !force {
		notify.WriteMessage(notify.Message{
			Type:    notify.WarningType,
			Content: "skipped '%s', file exists use --force to overwrite",
			Args:    []any{displayName},
			Writer:  s.Writer,
		})

		return true, true
	}

	return false, true
}

func (s *Scaffolder) notifyFileAction(displayName string, overwritten bool) {
	action := "created"
	if overwritten {
		action = "overwrote"
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.GenerateType,
		Content: "%s '%s'",
		Args:    []any{action, displayName},
		Writer:  s.Writer,
	})
}

// applyEnvironmentDefaults fills empty fields so the scaffolded configuration
// spells out the effective environment instead of relying on load-time
// defaulting. The input environment is not modified.
func applyEnvironmentDefaults(env *v1alpha1.Environment) *v1alpha1.Environment {
	out := v1alpha1.NewEnvironment()
	if env != nil {
		*out = *env
	}

	out.Kind = v1alpha1.Kind
	out.APIVersion = v1alpha1.APIVersion

	applyClusterDefaults(&out.Spec.Cluster)
	applyConnectionDefaults(&out.Spec.Connection)
	applyGitOpsDefaults(&out.Spec.GitOps)
	applySampleAppDefaults(&out.Spec.SampleApp)
	applyObservabilityDefaults(&out.Spec.Observability)

	if len(out.Spec.Forwards) == 0 {
		out.Spec.Forwards = v1alpha1.DefaultForwards()
	}

	return out
}

func applyClusterDefaults(cluster *v1alpha1.ClusterSpec) {
	if cluster.Name == "" {
		cluster.Name = v1alpha1.DefaultClusterName
	}

	if cluster.Provisioner == "" {
		cluster.Provisioner = v1alpha1.ProvisionerMinikube
	}

	if cluster.Nodes == 0 {
		cluster.Nodes = v1alpha1.DefaultNodes
	}

	if cluster.CPUs == 0 {
		cluster.CPUs = v1alpha1.DefaultCPUs
	}

	if cluster.Memory == "" {
		cluster.Memory = v1alpha1.DefaultMemory
	}

	if len(cluster.Addons) == 0 {
		cluster.Addons = v1alpha1.DefaultAddons()
	}
}

func applyConnectionDefaults(connection *v1alpha1.Connection) {
	if connection.Kubeconfig == "" {
		connection.Kubeconfig = v1alpha1.DefaultKubeconfigPath
	}
}

func applyGitOpsDefaults(gitops *v1alpha1.GitOpsSpec) {
	if gitops.TargetRevision == "" {
		gitops.TargetRevision = v1alpha1.DefaultTargetRevision
	}

	if gitops.ChartPath == "" {
		gitops.ChartPath = v1alpha1.DefaultChartPath
	}

	if gitops.AppOfAppsPath == "" {
		gitops.AppOfAppsPath = v1alpha1.DefaultAppOfAppsPath
	}

	if gitops.Project == "" {
		gitops.Project = v1alpha1.DefaultProject
	}
}

func applySampleAppDefaults(sampleApp *v1alpha1.SampleAppSpec) {
	if sampleApp.Namespace == "" {
		sampleApp.Namespace = v1alpha1.DefaultSampleAppNamespace
	}

	if sampleApp.ReleaseName == "" {
		sampleApp.ReleaseName = v1alpha1.DefaultReleaseName
	}

	if sampleApp.Strategy == "" {
		sampleApp.Strategy = v1alpha1.StrategyBlueGreen
	}

	if sampleApp.Replicas == 0 {
		sampleApp.Replicas = v1alpha1.DefaultReplicas
	}

	if sampleApp.Image.Repository == "" {
		sampleApp.Image.Repository = v1alpha1.DefaultImageRepository
	}

	if sampleApp.Image.Tag == "" {
		sampleApp.Image.Tag = v1alpha1.DefaultImageTag
	}

	if sampleApp.Hosts.App == "" {
		sampleApp.Hosts.App = v1alpha1.DefaultAppHost
	}

	if sampleApp.Hosts.Preview == "" {
		sampleApp.Hosts.Preview = v1alpha1.DefaultPreviewHost
	}
}

func applyObservabilityDefaults(observability *v1alpha1.ObservabilitySpec) {
	if observability.Namespace == "" {
		observability.Namespace = v1alpha1.DefaultObservabilityNamespace
	}

	if observability.PrometheusHost == "" {
		observability.PrometheusHost = v1alpha1.DefaultPrometheusHost
	}

	if observability.GrafanaHost == "" {
		observability.GrafanaHost = v1alpha1.DefaultGrafanaHost
	}

	if observability.GrafanaAdminPassword == "" {
		observability.GrafanaAdminPassword = v1alpha1.DefaultGrafanaAdminPassword
	}
}
