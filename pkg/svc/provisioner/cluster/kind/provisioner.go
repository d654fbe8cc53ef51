package kindprovisioner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	runner "github.com/k8s-rollouts/devctl/pkg/cmd/runner"
	"github.com/k8s-rollouts/devctl/pkg/fsutil"
	"github.com/k8s-rollouts/devctl/pkg/io/marshaller"
	"github.com/k8s-rollouts/devctl/pkg/svc/provider"
	clustererrors "github.com/k8s-rollouts/devctl/pkg/svc/provisioner/cluster/errors"
	"sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
	kindcmd "sigs.k8s.io/kind/pkg/cmd"
	createcluster "sigs.k8s.io/kind/pkg/cmd/kind/create/cluster"
	deletecluster "sigs.k8s.io/kind/pkg/cmd/kind/delete/cluster"
	getclusters "sigs.k8s.io/kind/pkg/cmd/kind/get/clusters"
	"sigs.k8s.io/kind/pkg/log"
)

// This allows kind's console output to be displayed in real-time.
// Only info-level messages (V(0)) are enabled to avoid verbose debug output.
type streamLogger struct {
	writer io.Writer
}

func (l *streamLogger) Warn(message string) {
	l.write(message)
}

func (l *streamLogger) Warnf(format string, args ...any) {
	l.write(fmt.Sprintf(format, args...))
}

func (l *streamLogger) Error(message string) {
	l.write(message)
}

func (l *streamLogger) Errorf(format string, args ...any) {
	l.write(fmt.Sprintf(format, args...))
}

// noopInfoLogger discards verbose/debug messages (V(1) and higher).
type noopInfoLogger struct{}

func (noopInfoLogger) Info(string)          {}
func (noopInfoLogger) Infof(string, ...any) {}
func (noopInfoLogger) Enabled() bool        { return false }

func (l *streamLogger) V(level log.Level) log.InfoLogger {
	// Only enable info-level messages (V(0)), suppress verbose/debug (V(1+))
	if level > 0 {
		return noopInfoLogger{}
	}

	return l
}

func (l *streamLogger) Info(message string) {
	l.write(message)
}

func (l *streamLogger) Infof(format string, args ...any) {
	l.write(fmt.Sprintf(format, args...))
}

func (l *streamLogger) Enabled() bool {
	return true
}

func (l *streamLogger) write(message string) {
	if l == nil {
		return
	}

	if message == "" {
		_, _ = io.WriteString(l.writer, "\n")

		return
	}

	if strings.ContainsRune(message, '\r') || strings.HasSuffix(message, "\n") {
		_, _ = io.WriteString(l.writer, message)

		return
	}

	_, _ = io.WriteString(l.writer, message+"\n")
}

// KindClusterProvisioner is an implementation of the ClusterProvisioner interface for provisioning kind clusters.
// It uses kind's Cobra commands where available (create, delete, list) and delegates
// infrastructure operations (start, stop) to the injected Provider since kind has
// no native start/stop commands.
type KindClusterProvisioner struct {
	kubeConfig    string
	kindConfig    *v1alpha4.Cluster
	infraProvider provider.Provider
	runner        runner.CommandRunner
}

// NewKindClusterProvisioner constructs a KindClusterProvisioner for the given
// cluster spec with an explicit infrastructure provider for node operations.
func NewKindClusterProvisioner(
	spec *v1alpha1.ClusterSpec,
	kubeConfig string,
	infraProvider provider.Provider,
) *KindClusterProvisioner {
	return NewKindClusterProvisionerWithRunner(
		spec,
		kubeConfig,
		infraProvider,
		runner.NewCobraCommandRunner(os.Stdout, os.Stderr),
	)
}

// NewKindClusterProvisionerWithRunner constructs a KindClusterProvisioner with
// an explicit command runner for testing purposes.
func NewKindClusterProvisionerWithRunner(
	spec *v1alpha1.ClusterSpec,
	kubeConfig string,
	infraProvider provider.Provider,
	commandRunner runner.CommandRunner,
) *KindClusterProvisioner {
	return &KindClusterProvisioner{
		kubeConfig:    kubeConfig,
		kindConfig:    buildKindConfig(spec),
		infraProvider: infraProvider,
		runner:        commandRunner,
	}
}

// SetProvider sets the infrastructure provider for node operations.
// This implements the ProviderAware interface.
func (k *KindClusterProvisioner) SetProvider(p provider.Provider) {
	k.infraProvider = p
}

// Create creates a kind cluster using kind's Cobra command.
// Returns an error wrapping provider.ErrSkipAction when the cluster already
// exists so callers can report instead of re-provisioning.
func (k *KindClusterProvisioner) Create(ctx context.Context, name string) error {
	target := setName(name, k.kindConfig.Name)

	exists, err := k.Exists(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to check cluster existence: %w", err)
	}

	if exists {
		return fmt.Errorf("%w: cluster '%s' already exists", provider.ErrSkipAction, target)
	}

	// Serialize config to temp file (required by kind's Cobra command)
	tmpFile, err := os.CreateTemp("", "kind-config-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}

	defer func() { _ = tmpFile.Close() }()
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	yamlMarshaller := marshaller.NewYAMLMarshaller[*v1alpha4.Cluster]()

	configYAML, err := yamlMarshaller.Marshal(k.kindConfig)
	if err != nil {
		return fmt.Errorf("marshal kind config: %w", err)
	}

	const configFilePerms = 0o600

	err = os.WriteFile(tmpFile.Name(), []byte(configYAML), configFilePerms)
	if err != nil {
		return fmt.Errorf("write temp config file: %w", err)
	}

	// Kind writes output through its logger interface - send directly to stdout
	logger := &streamLogger{writer: os.Stdout}

	// Set up IOStreams - kind commands may also write here
	streams := kindcmd.IOStreams{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}

	cmd := createcluster.NewCommand(logger, streams)

	args := []string{"--name", target, "--config", tmpFile.Name()}

	kubeconfigPath, err := k.expandedKubeconfig()
	if err != nil {
		return err
	}

	if kubeconfigPath != "" {
		args = append(args, "--kubeconfig", kubeconfigPath)
	}

	_, err = k.runner.Run(ctx, cmd, args)
	if err != nil {
		return fmt.Errorf("failed to create kind cluster: %w", err)
	}

	return nil
}

// Delete deletes a kind cluster using kind's Cobra command.
// Returns clustererrors.ErrClusterNotFound if the cluster does not exist.
func (k *KindClusterProvisioner) Delete(ctx context.Context, name string) error {
	target := setName(name, k.kindConfig.Name)

	exists, err := k.Exists(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to check cluster existence: %w", err)
	}

	if !exists {
		return fmt.Errorf("%w: %s", clustererrors.ErrClusterNotFound, target)
	}

	kubeconfigPath, err := k.expandedKubeconfig()
	if err != nil {
		return err
	}

	// Kind writes output through its logger interface - send directly to stdout
	logger := &streamLogger{writer: os.Stdout}

	// Set up IOStreams - kind commands may also write here
	streams := kindcmd.IOStreams{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}

	cmd := deletecluster.NewCommand(logger, streams)

	args := []string{"--name", target}
	if kubeconfigPath != "" {
		args = append(args, "--kubeconfig", kubeconfigPath)
	}

	_, err = k.runner.Run(ctx, cmd, args)
	if err != nil {
		return fmt.Errorf("failed to delete kind cluster: %w", err)
	}

	return nil
}

// Start starts a kind cluster.
// Delegates to the infrastructure provider for container operations.
func (k *KindClusterProvisioner) Start(ctx context.Context, name string) error {
	target := setName(name, k.kindConfig.Name)

	return clustererrors.RunProviderOp(ctx, k.infraProvider, target, "start", k.startNodes)
}

// Stop stops a kind cluster.
// Delegates to the infrastructure provider for container operations.
func (k *KindClusterProvisioner) Stop(ctx context.Context, name string) error {
	target := setName(name, k.kindConfig.Name)

	return clustererrors.RunProviderOp(ctx, k.infraProvider, target, "stop", k.stopNodes)
}

// List returns all kind clusters using kind's Cobra command.
func (k *KindClusterProvisioner) List(ctx context.Context) ([]string, error) {
	// Use a buffer to capture output without displaying it
	var outBuf bytes.Buffer

	// Kind writes output through its logger interface - capture to buffer
	logger := &streamLogger{writer: &outBuf}

	// Set up IOStreams - capture kind commands output to buffer
	// Note: Kind's getclusters command writes to streams.Out directly (via fmt.Fprintln),
	// not through cmd.SetOut(), so we read from outBuf primarily.
	streams := kindcmd.IOStreams{
		Out:    &outBuf,
		ErrOut: io.Discard,
	}

	cmd := getclusters.NewCommand(logger, streams)

	result, err := k.runner.Run(ctx, cmd, []string{})
	if err != nil {
		return nil, fmt.Errorf("failed to list kind clusters: %w", err)
	}

	const noKindClustersMsg = "No kind clusters found."

	// Parse output - Kind writes cluster names via fmt.Fprintln(streams.Out, ...)
	// which goes to outBuf. If outBuf is empty (e.g., in mocked tests), fall back
	// to result.Stdout for compatibility.
	output := outBuf.Bytes()
	if len(output) == 0 {
		output = []byte(result.Stdout)
	}

	lines := bytes.Split(output, []byte("\n"))

	var clusters []string

	for _, line := range lines {
		name := string(bytes.TrimSpace(line))
		if name != "" && name != noKindClustersMsg {
			clusters = append(clusters, name)
		}
	}

	return clusters, nil
}

// Exists checks if a kind cluster exists.
func (k *KindClusterProvisioner) Exists(ctx context.Context, name string) (bool, error) {
	clusters, err := k.List(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list kind clusters: %w", err)
	}

	target := setName(name, k.kindConfig.Name)

	if slices.Contains(clusters, target) {
		return true, nil
	}

	return false, nil
}

// --- internals ---

func (k *KindClusterProvisioner) startNodes(ctx context.Context, clusterName string) error {
	return k.infraProvider.StartNodes(ctx, clusterName) //nolint:wrapcheck // wrapped by RunProviderOp
}

func (k *KindClusterProvisioner) stopNodes(ctx context.Context, clusterName string) error {
	return k.infraProvider.StopNodes(ctx, clusterName) //nolint:wrapcheck // wrapped by RunProviderOp
}

func (k *KindClusterProvisioner) expandedKubeconfig() (string, error) {
	if k.kubeConfig == "" {
		return "", nil
	}

	kubeconfigPath, err := fsutil.ExpandHomePath(k.kubeConfig)
	if err != nil {
		return "", fmt.Errorf("failed to expand kubeconfig path: %w", err)
	}

	return kubeconfigPath, nil
}

// buildKindConfig translates the cluster spec into a kind cluster config.
// The first node is the control plane; additional nodes join as workers.
// CPU, memory and addon settings are minikube concepts and are ignored here.
func buildKindConfig(spec *v1alpha1.ClusterSpec) *v1alpha4.Cluster {
	config := &v1alpha4.Cluster{
		TypeMeta: v1alpha4.TypeMeta{
			Kind:       "Cluster",
			APIVersion: "kind.x-k8s.io/v1alpha4",
		},
		Name: spec.Name,
	}

	nodes := int(spec.Nodes)
	if nodes < 1 {
		nodes = 1
	}

	image := nodeImage(spec.KubernetesVersion)

	for i := range nodes {
		role := v1alpha4.WorkerRole
		if i == 0 {
			role = v1alpha4.ControlPlaneRole
		}

		config.Nodes = append(config.Nodes, v1alpha4.Node{Role: role, Image: image})
	}

	return config
}

// nodeImage maps a Kubernetes version to the kindest node image. An empty
// version lets kind pick the default image for its release.
func nodeImage(version string) string {
	if version == "" {
		return ""
	}

	return "kindest/node:v" + strings.TrimPrefix(version, "v")
}

func setName(name string, kindConfigName string) string {
	target := name
	if target == "" {
		target = kindConfigName
	}

	return target
}

// Config returns the generated kind cluster configuration.
func (k *KindClusterProvisioner) Config() *v1alpha4.Cluster {
	return k.kindConfig
}
