package rollouts

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/distribution/reference"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/util/retry"
)

var (
	// ErrContainerNotFound indicates the named container does not exist in
	// the rollout's pod template.
	ErrContainerNotFound = errors.New("container not found in rollout template")

	// ErrImageNotTagged indicates the image reference carries no tag.
	ErrImageNotTagged = errors.New("image reference has no tag")

	// ErrImageTagNotSemver indicates the image tag is not a semantic version.
	ErrImageTagNotSemver = errors.New("image tag is not a valid semantic version")
)

// Merge patches mirroring what kubectl-argo-rollouts sends. Pause conditions
// and the abort flag live under the status subresource.
const (
	unpausePatch              = `{"spec":{"paused":false}}`
	clearPauseConditionsPatch = `{"status":{"pauseConditions":null}}`
	promoteFullPatch          = `{"status":{"pauseConditions":null,"promoteFull":true}}`
	abortPatch                = `{"status":{"abort":true}}`
	retryPatch                = `{"status":{"abort":false}}`
)

// Promote resumes a paused rollout by clearing its pause state. With full set
// it additionally asks the controller to skip the remaining steps and promote
// straight to the new revision.
func (c *Client) Promote(ctx context.Context, name string, full bool) error {
	statusPatch := clearPauseConditionsPatch
	if full {
		statusPatch = promoteFullPatch
	}

	err := c.patchStatus(ctx, name, statusPatch)
	if err != nil {
		return fmt.Errorf("promote rollout %s: %w", name, err)
	}

	_, err = c.rolloutClient().Patch(
		ctx,
		name,
		types.MergePatchType,
		[]byte(unpausePatch),
		metav1.PatchOptions{},
	)
	if err != nil {
		return fmt.Errorf("promote rollout %s: %w", name, err)
	}

	return nil
}

// Abort stops the in-progress update and rolls back to the stable revision.
func (c *Client) Abort(ctx context.Context, name string) error {
	err := c.patchStatus(ctx, name, abortPatch)
	if err != nil {
		return fmt.Errorf("abort rollout %s: %w", name, err)
	}

	return nil
}

// Retry clears the abort flag so the controller restarts the update.
func (c *Client) Retry(ctx context.Context, name string) error {
	err := c.patchStatus(ctx, name, retryPatch)
	if err != nil {
		return fmt.Errorf("retry rollout %s: %w", name, err)
	}

	return nil
}

func (c *Client) patchStatus(ctx context.Context, name, patch string) error {
	//nolint:wrapcheck // callers wrap with the action name
	_, err := c.rolloutClient().Patch(
		ctx,
		name,
		types.MergePatchType,
		[]byte(patch),
		metav1.PatchOptions{},
		"status",
	)

	return err
}

// SetImage updates the image of a container in the rollout's pod template,
// which triggers a new revision. An empty container name updates every
// container. The image tag must parse as a semantic version so typos do not
// silently roll out an unresolvable revision.
func (c *Client) SetImage(ctx context.Context, name, container, image string) error {
	err := validateImage(image)
	if err != nil {
		return err
	}

	err = retry.RetryOnConflict(retry.DefaultRetry, func() error {
		rollout, err := c.rolloutClient().Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return fmt.Errorf("get rollout %s: %w", name, err)
		}

		err = setContainerImage(rollout, container, image)
		if err != nil {
			return err
		}

		_, err = c.rolloutClient().Update(ctx, rollout, metav1.UpdateOptions{})

		//nolint:wrapcheck // conflict errors must reach RetryOnConflict unwrapped
		return err
	})
	if err != nil {
		return fmt.Errorf("set image on rollout %s: %w", name, err)
	}

	return nil
}

func validateImage(image string) error {
	ref, err := reference.ParseNormalizedNamed(image)
	if err != nil {
		return fmt.Errorf("parse image reference %q: %w", image, err)
	}

	tagged, ok := ref.(reference.Tagged)
	if !ok {
		return fmt.Errorf("%w: %s", ErrImageNotTagged, image)
	}

	_, err = semver.NewVersion(tagged.Tag())
	if err != nil {
		return fmt.Errorf("%w: %q", ErrImageTagNotSemver, tagged.Tag())
	}

	return nil
}

func setContainerImage(rollout *unstructured.Unstructured, container, image string) error {
	containers, found, err := unstructured.NestedSlice(
		rollout.Object,
		"spec", "template", "spec", "containers",
	)
	if err != nil || !found {
		return fmt.Errorf("%w: %s", ErrContainerNotFound, container)
	}

	matched := false

	for idx, item := range containers {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}

		containerName, _ := entry["name"].(string)
		if container != "" && containerName != container {
			continue
		}

		entry["image"] = image
		containers[idx] = entry
		matched = true
	}

	if !matched {
		return fmt.Errorf("%w: %s", ErrContainerNotFound, container)
	}

	err = unstructured.SetNestedSlice(rollout.Object, containers, "spec", "template", "spec", "containers")
	if err != nil {
		return fmt.Errorf("update rollout template: %w", err)
	}

	return nil
}
