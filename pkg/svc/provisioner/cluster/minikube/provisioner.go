package minikubeprovisioner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	runner "github.com/k8s-rollouts/devctl/pkg/cmd/runner"
	"github.com/k8s-rollouts/devctl/pkg/fsutil"
	"github.com/k8s-rollouts/devctl/pkg/k8s"
	"github.com/k8s-rollouts/devctl/pkg/svc/provider"
	clustererrors "github.com/k8s-rollouts/devctl/pkg/svc/provisioner/cluster/errors"
)

// minikubeBinary is the binary executed for every operation.
const minikubeBinary = "minikube"

// Host states reported by `minikube status --format {{.Host}}`.
const (
	StateRunning     = "Running"
	StateStopped     = "Stopped"
	StateNonexistent = "Nonexistent"
)

// MinikubeClusterProvisioner is an implementation of the ClusterProvisioner
// interface that drives the minikube binary with the docker driver. Minikube
// has native lifecycle commands for every operation, so no infrastructure
// provider is involved.
type MinikubeClusterProvisioner struct {
	spec       *v1alpha1.ClusterSpec
	kubeConfig string
	runner     runner.ExecRunner
}

// NewMinikubeClusterProvisioner constructs a MinikubeClusterProvisioner for the
// given cluster spec, streaming minikube output to the console.
func NewMinikubeClusterProvisioner(
	spec *v1alpha1.ClusterSpec,
	kubeConfig string,
) *MinikubeClusterProvisioner {
	return NewMinikubeClusterProvisionerWithRunner(
		spec,
		kubeConfig,
		runner.NewOSExecRunner(os.Stdout, os.Stderr),
	)
}

// NewMinikubeClusterProvisionerWithRunner constructs a MinikubeClusterProvisioner
// with an explicit exec runner for testing purposes.
func NewMinikubeClusterProvisionerWithRunner(
	spec *v1alpha1.ClusterSpec,
	kubeConfig string,
	execRunner runner.ExecRunner,
) *MinikubeClusterProvisioner {
	return &MinikubeClusterProvisioner{
		spec:       spec,
		kubeConfig: kubeConfig,
		runner:     execRunner,
	}
}

// Create provisions a minikube cluster with the docker driver.
// Returns an error wrapping provider.ErrSkipAction when the profile is
// already running so callers can report instead of re-provisioning.
func (m *MinikubeClusterProvisioner) Create(ctx context.Context, name string) error {
	target := setName(name, m.spec.Name)

	state, err := m.State(ctx, target)
	if err != nil {
		return err
	}

	if state == StateRunning {
		return fmt.Errorf("%w: cluster '%s' is already running", provider.ErrSkipAction, target)
	}

	_, err = m.runner.Run(ctx, minikubeBinary, m.startArgs(target)...)
	if err != nil {
		return fmt.Errorf("failed to create minikube cluster: %w", err)
	}

	for _, addon := range m.spec.Addons {
		_, err = m.runner.Run(ctx, minikubeBinary, "addons", "enable", addon, "--profile", target)
		if err != nil {
			return fmt.Errorf("failed to enable addon '%s': %w", addon, err)
		}
	}

	return nil
}

// Delete deletes a minikube cluster.
// Returns clustererrors.ErrClusterNotFound if the cluster does not exist.
func (m *MinikubeClusterProvisioner) Delete(ctx context.Context, name string) error {
	target := setName(name, m.spec.Name)

	exists, err := m.Exists(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to check cluster existence: %w", err)
	}

	if !exists {
		return fmt.Errorf("%w: %s", clustererrors.ErrClusterNotFound, target)
	}

	_, err = m.runner.Run(ctx, minikubeBinary, "delete", "--profile", target)
	if err != nil {
		return fmt.Errorf("failed to delete minikube cluster: %w", err)
	}

	return m.cleanupKubeconfig(target)
}

// cleanupKubeconfig removes the profile's cluster, context, and user entries
// from the configured kubeconfig. Minikube only rewrites the kubeconfig it
// discovers through KUBECONFIG, so a configured custom path keeps stale
// entries after delete.
func (m *MinikubeClusterProvisioner) cleanupKubeconfig(target string) error {
	if m.kubeConfig == "" {
		return nil
	}

	kubeconfigPath, err := fsutil.ExpandHomePath(m.kubeConfig)
	if err != nil {
		return fmt.Errorf("failed to expand kubeconfig path: %w", err)
	}

	// Minikube names the cluster, context, and user entries after the profile.
	err = k8s.CleanupKubeconfig(kubeconfigPath, target, target, target, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to clean up kubeconfig: %w", err)
	}

	return nil
}

// Start starts a stopped minikube cluster. The saved profile configuration is
// reused, so no provisioning flags are passed.
// Returns an error wrapping provider.ErrSkipAction when already running.
func (m *MinikubeClusterProvisioner) Start(ctx context.Context, name string) error {
	target := setName(name, m.spec.Name)

	state, err := m.State(ctx, target)
	if err != nil {
		return err
	}

	if state == StateRunning {
		return fmt.Errorf("%w: cluster '%s' is already running", provider.ErrSkipAction, target)
	}

	_, err = m.runner.Run(ctx, minikubeBinary, "start", "--profile", target)
	if err != nil {
		return fmt.Errorf("failed to start minikube cluster: %w", err)
	}

	return nil
}

// Stop stops a minikube cluster without deleting it.
func (m *MinikubeClusterProvisioner) Stop(ctx context.Context, name string) error {
	target := setName(name, m.spec.Name)

	_, err := m.runner.Run(ctx, minikubeBinary, "stop", "--profile", target)
	if err != nil {
		return fmt.Errorf("failed to stop minikube cluster: %w", err)
	}

	return nil
}

// List returns all minikube profiles.
func (m *MinikubeClusterProvisioner) List(ctx context.Context) ([]string, error) {
	result, err := m.runner.RunQuiet(ctx, minikubeBinary, "profile", "list", "--output", "json")
	if err != nil {
		return nil, fmt.Errorf("failed to list minikube clusters: %w", err)
	}

	output := strings.TrimSpace(result.Stdout)
	if output == "" {
		return nil, nil
	}

	// `minikube profile list --output json` reports valid and invalid profiles;
	// only valid ones are usable clusters.
	var profiles struct {
		Valid []struct {
			Name string `json:"Name"`
		} `json:"valid"`
	}

	err = json.Unmarshal([]byte(output), &profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to parse minikube profile list output: %w", err)
	}

	clusters := make([]string, 0, len(profiles.Valid))
	for _, profile := range profiles.Valid {
		clusters = append(clusters, profile.Name)
	}

	return clusters, nil
}

// Exists checks if a minikube profile exists.
func (m *MinikubeClusterProvisioner) Exists(ctx context.Context, name string) (bool, error) {
	clusters, err := m.List(ctx)
	if err != nil {
		return false, err
	}

	target := setName(name, m.spec.Name)

	return slices.Contains(clusters, target), nil
}

// State reports the host state of the cluster (Running, Stopped, Nonexistent).
// Minikube exits non-zero whenever any component is not running, so the exit
// code carries no signal beyond what stdout already reports.
func (m *MinikubeClusterProvisioner) State(ctx context.Context, name string) (string, error) {
	target := setName(name, m.spec.Name)

	result, _ := m.runner.RunQuiet(
		ctx,
		minikubeBinary,
		"status",
		"--profile", target,
		"--format", "{{.Host}}",
	)

	state := strings.TrimSpace(result.Stdout)
	if state == "" {
		return StateNonexistent, nil
	}

	return state, nil
}

// --- internals ---

// startArgs assembles the `minikube start` invocation from the cluster spec.
// Zero-valued fields are omitted so minikube applies its own defaults.
func (m *MinikubeClusterProvisioner) startArgs(target string) []string {
	args := []string{"start", "--profile", target, "--driver", "docker"}

	if m.spec.KubernetesVersion != "" {
		args = append(args, "--kubernetes-version", m.spec.KubernetesVersion)
	}

	if m.spec.Nodes > 1 {
		args = append(args, "--nodes", strconv.Itoa(int(m.spec.Nodes)))
	}

	if m.spec.CPUs > 0 {
		args = append(args, "--cpus", strconv.Itoa(int(m.spec.CPUs)))
	}

	if m.spec.Memory != "" {
		args = append(args, "--memory", m.spec.Memory)
	}

	return args
}

func setName(name string, configName string) string {
	target := name
	if target == "" {
		target = configName
	}

	return target
}
