package rollouts

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Rollout phases reported by the Argo Rollouts controller.
const (
	PhaseHealthy     = "Healthy"
	PhaseDegraded    = "Degraded"
	PhaseProgressing = "Progressing"
	PhasePaused      = "Paused"
)

// Rollout strategies.
const (
	StrategyBlueGreen = "blueGreen"
	StrategyCanary    = "canary"
)

// Status is a flattened view of a Rollout's progress.
type Status struct {
	Name              string
	Namespace         string
	Phase             string
	Message           string
	Strategy          string
	Paused            bool
	Aborted           bool
	CurrentStep       int64
	TotalSteps        int64
	Replicas          int64
	UpdatedReplicas   int64
	ReadyReplicas     int64
	AvailableReplicas int64
	Images            []string
}

// Healthy reports whether the controller considers the rollout fully rolled
// out and stable.
func (s Status) Healthy() bool {
	return s.Phase == PhaseHealthy
}

// Terminal reports whether a watch loop should stop: the rollout is either
// stable or needs operator intervention.
func (s Status) Terminal() bool {
	return s.Phase == PhaseHealthy || s.Phase == PhaseDegraded || s.Aborted
}

// Status returns the current status of a single rollout.
func (c *Client) Status(ctx context.Context, name string) (Status, error) {
	rollout, err := c.rolloutClient().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return Status{}, fmt.Errorf("get rollout %s: %w", name, err)
	}

	return statusFrom(rollout), nil
}

// ListStatuses returns the status of every rollout in the namespace.
func (c *Client) ListStatuses(ctx context.Context) ([]Status, error) {
	list, err := c.rolloutClient().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list rollouts: %w", err)
	}

	statuses := make([]Status, 0, len(list.Items))
	for idx := range list.Items {
		statuses = append(statuses, statusFrom(&list.Items[idx]))
	}

	return statuses, nil
}

func statusFrom(rollout *unstructured.Unstructured) Status {
	status := Status{
		Name:      rollout.GetName(),
		Namespace: rollout.GetNamespace(),
	}

	status.Phase, _, _ = unstructured.NestedString(rollout.Object, "status", "phase")
	status.Message, _, _ = unstructured.NestedString(rollout.Object, "status", "message")
	status.Paused, _, _ = unstructured.NestedBool(rollout.Object, "spec", "paused")
	status.Aborted, _, _ = unstructured.NestedBool(rollout.Object, "status", "abort")
	status.CurrentStep, _, _ = unstructured.NestedInt64(rollout.Object, "status", "currentStepIndex")
	status.Replicas, _, _ = unstructured.NestedInt64(rollout.Object, "spec", "replicas")
	status.UpdatedReplicas, _, _ = unstructured.NestedInt64(rollout.Object, "status", "updatedReplicas")
	status.ReadyReplicas, _, _ = unstructured.NestedInt64(rollout.Object, "status", "readyReplicas")
	status.AvailableReplicas, _, _ = unstructured.NestedInt64(
		rollout.Object,
		"status",
		"availableReplicas",
	)
	status.Strategy, status.TotalSteps = strategyFrom(rollout)
	status.Images = imagesFrom(rollout)

	return status
}

func strategyFrom(rollout *unstructured.Unstructured) (string, int64) {
	if _, found, _ := unstructured.NestedMap(rollout.Object, "spec", "strategy", "blueGreen"); found {
		return StrategyBlueGreen, 0
	}

	steps, found, _ := unstructured.NestedSlice(rollout.Object, "spec", "strategy", "canary", "steps")
	if found {
		return StrategyCanary, int64(len(steps))
	}

	if _, found, _ := unstructured.NestedMap(rollout.Object, "spec", "strategy", "canary"); found {
		return StrategyCanary, 0
	}

	return "", 0
}

func imagesFrom(rollout *unstructured.Unstructured) []string {
	containers, found, _ := unstructured.NestedSlice(
		rollout.Object,
		"spec", "template", "spec", "containers",
	)
	if !found {
		return nil
	}

	images := make([]string, 0, len(containers))

	for _, item := range containers {
		container, ok := item.(map[string]any)
		if !ok {
			continue
		}

		if image, ok := container["image"].(string); ok && image != "" {
			images = append(images, image)
		}
	}

	return images
}
