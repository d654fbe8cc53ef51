package docker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/k8s-rollouts/devctl/pkg/svc/provider"
	"github.com/k8s-rollouts/devctl/pkg/utils/labels"
)

// LabelScheme defines how to identify and filter node containers for a provisioner.
type LabelScheme string

const (
	// LabelSchemeMinikube uses the "name.minikube.sigs.k8s.io" label to identify nodes.
	LabelSchemeMinikube LabelScheme = "minikube"
	// LabelSchemeKind uses the "io.x-k8s.kind.cluster" label to identify nodes.
	LabelSchemeKind LabelScheme = "kind"
)

// Minikube label constants.
const (
	LabelMinikubeProfile   = "name.minikube.sigs.k8s.io"
	LabelMinikubeCreatedBy = "created_by.minikube.sigs.k8s.io"
)

// Kind label constants.
const (
	LabelKindCluster = "io.x-k8s.kind.cluster"
	LabelKindRole    = "io.x-k8s.kind.role"
)

// Default timeouts for Docker operations.
const (
	DefaultStartTimeout = 30 * time.Second
	DefaultStopTimeout  = 60 * time.Second
)

// Provider implements provider.Provider for Docker-backed cluster nodes.
type Provider struct {
	client      client.APIClient
	labelScheme LabelScheme
}

// NewProvider creates a new Docker provider with the specified label scheme.
func NewProvider(cli client.APIClient, scheme LabelScheme) *Provider {
	return &Provider{
		client:      cli,
		labelScheme: scheme,
	}
}

// IsAvailable returns true when a Docker client is configured.
func (p *Provider) IsAvailable() bool {
	return p.client != nil
}

// StartNodes starts all containers for the given cluster.
func (p *Provider) StartNodes(ctx context.Context, clusterName string) error {
	if p.client == nil {
		return provider.ErrProviderUnavailable
	}

	nodes, err := p.ListNodes(ctx, clusterName)
	if err != nil {
		return fmt.Errorf("failed to list nodes: %w", err)
	}

	if len(nodes) == 0 {
		return fmt.Errorf("%w: %s", provider.ErrNoNodes, clusterName)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, DefaultStartTimeout)
	defer cancel()

	for _, node := range nodes {
		err := p.client.ContainerStart(timeoutCtx, node.Name, container.StartOptions{})
		if err != nil {
			return fmt.Errorf("failed to start container %s: %w", node.Name, err)
		}
	}

	return nil
}

// StopNodes stops all containers for the given cluster.
func (p *Provider) StopNodes(ctx context.Context, clusterName string) error {
	if p.client == nil {
		return provider.ErrProviderUnavailable
	}

	nodes, err := p.ListNodes(ctx, clusterName)
	if err != nil {
		return fmt.Errorf("failed to list nodes: %w", err)
	}

	if len(nodes) == 0 {
		return fmt.Errorf("%w: %s", provider.ErrNoNodes, clusterName)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, DefaultStopTimeout)
	defer cancel()

	for _, node := range nodes {
		err := p.client.ContainerStop(timeoutCtx, node.Name, container.StopOptions{})
		if err != nil {
			return fmt.Errorf("failed to stop container %s: %w", node.Name, err)
		}
	}

	return nil
}

// ListNodes returns all nodes for the given cluster based on the label scheme.
func (p *Provider) ListNodes(ctx context.Context, clusterName string) ([]provider.NodeInfo, error) {
	if p.client == nil {
		return nil, provider.ErrProviderUnavailable
	}

	containers, err := p.listContainers(ctx, clusterName)
	if err != nil {
		return nil, err
	}

	nodes := make([]provider.NodeInfo, 0, len(containers))

	for _, c := range containers {
		node := p.containerToNodeInfo(c, clusterName)
		nodes = append(nodes, node)
	}

	return nodes, nil
}

// ListAllClusters returns the names of all clusters managed by this provider.
func (p *Provider) ListAllClusters(ctx context.Context) ([]string, error) {
	if p.client == nil {
		return nil, provider.ErrProviderUnavailable
	}

	key, err := p.clusterLabelKey()
	if err != nil {
		return nil, err
	}

	containers, err := p.client.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	clusters := labels.UniqueValues(containers, key, func(c container.Summary) map[string]string {
		return c.Labels
	})

	return clusters, nil
}

// NodesExist returns true if any nodes exist for the given cluster.
func (p *Provider) NodesExist(ctx context.Context, clusterName string) (bool, error) {
	if p.client == nil {
		return false, provider.ErrProviderUnavailable
	}

	containers, err := p.listContainers(ctx, clusterName)
	if err != nil {
		return false, err
	}

	return len(containers) > 0, nil
}

// DeleteNodes removes all containers for the given cluster.
// This is a cleanup operation - most provisioners handle deletion through their own tooling.
func (p *Provider) DeleteNodes(ctx context.Context, clusterName string) error {
	if p.client == nil {
		return provider.ErrProviderUnavailable
	}

	containers, err := p.listContainers(ctx, clusterName)
	if err != nil {
		return err
	}

	for _, ctr := range containers {
		// Force remove containers
		err := p.client.ContainerRemove(ctx, ctr.ID, container.RemoveOptions{
			Force:         true,
			RemoveVolumes: true,
		})
		if err != nil {
			return fmt.Errorf("failed to remove container %s: %w", ctr.ID, err)
		}
	}

	return nil
}

// listContainers returns node containers for the given cluster based on the label scheme.
func (p *Provider) listContainers(
	ctx context.Context,
	clusterName string,
) ([]container.Summary, error) {
	key, err := p.clusterLabelKey()
	if err != nil {
		return nil, err
	}

	containers, err := p.client.ContainerList(ctx, container.ListOptions{
		All: true,
		Filters: filters.NewArgs(
			filters.Arg("label", key+"="+clusterName),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	return containers, nil
}

// clusterLabelKey returns the container label holding the cluster name.
func (p *Provider) clusterLabelKey() (string, error) {
	switch p.labelScheme {
	case LabelSchemeMinikube:
		return LabelMinikubeProfile, nil
	case LabelSchemeKind:
		return LabelKindCluster, nil
	default:
		return "", fmt.Errorf("%w: %s", provider.ErrUnknownLabelScheme, p.labelScheme)
	}
}

// containerToNodeInfo converts a Docker container to a NodeInfo.
func (p *Provider) containerToNodeInfo(ctr container.Summary, clusterName string) provider.NodeInfo {
	name := ""
	if len(ctr.Names) > 0 {
		name = strings.TrimPrefix(ctr.Names[0], "/")
	}

	return provider.NodeInfo{
		Name:        name,
		ClusterName: clusterName,
		Role:        p.extractRole(ctr, name, clusterName),
		State:       ctr.State,
	}
}

// extractRole extracts the node role from labels or naming conventions.
func (p *Provider) extractRole(ctr container.Summary, name, clusterName string) string {
	switch p.labelScheme {
	case LabelSchemeKind:
		return ctr.Labels[LabelKindRole]
	case LabelSchemeMinikube:
		// Minikube names the primary node container after the profile;
		// additional nodes get -m02, -m03 suffixes.
		if name == clusterName {
			return "control-plane"
		}

		if name != "" {
			return "worker"
		}

		return ""
	default:
		return ""
	}
}
