package installer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/k8s/readiness"
	"golang.org/x/sync/errgroup"
)

// Component pairs an installer with the metadata the stack commands need to
// orchestrate, wait on, and report a stack component.
type Component struct {
	// Name is the component name used on the CLI (e.g. "argo-cd").
	Name string
	// ReleaseName is the Helm release the component installs as.
	ReleaseName string
	// Namespace is the namespace the component's workloads run in.
	Namespace string
	// Stage groups components without install-order dependencies between
	// them. Stages install in ascending order; components within a stage may
	// install concurrently.
	Stage int

	Installer Installer
	// Readiness lists the workloads that must become ready after install.
	Readiness []readiness.Check
}

// InstallComponents installs components stage by stage. Components within a
// stage install concurrently; a failure cancels the remaining installs and
// skips later stages. After each successful install the component's readiness
// checks are awaited against the given cluster.
func InstallComponents(
	ctx context.Context,
	components []Component,
	kubeconfig, kubecontext string,
	timeout time.Duration,
) error {
	for _, stage := range groupByStage(components) {
		group, groupCtx := errgroup.WithContext(ctx)

		for _, component := range stage {
			group.Go(func() error {
				err := component.Installer.Install(groupCtx)
				if err != nil {
					return fmt.Errorf("install %s: %w", component.Name, err)
				}

				if len(component.Readiness) == 0 {
					return nil
				}

				return WaitForResourceReadiness(
					groupCtx,
					kubeconfig,
					kubecontext,
					component.Readiness,
					timeout,
					component.Name,
				)
			})
		}

		err := group.Wait()
		if err != nil {
			return err
		}
	}

	return nil
}

// UninstallComponents removes components in reverse install order. Removal is
// best-effort: a failing component is recorded and the remaining components
// are still uninstalled.
func UninstallComponents(ctx context.Context, components []Component) error {
	var errs []error

	for i := len(components) - 1; i >= 0; i-- {
		component := components[i]

		err := component.Installer.Uninstall(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("uninstall %s: %w", component.Name, err))
		}
	}

	return errors.Join(errs...)
}

// GetImagesFromComponents retrieves container images from all provided
// components. Returns a deduplicated list preserving first-seen order.
func GetImagesFromComponents(ctx context.Context, components []Component) ([]string, error) {
	seen := make(map[string]struct{})

	var result []string

	for _, component := range components {
		images, err := component.Installer.Images(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get images for %s: %w", component.Name, err)
		}

		for _, img := range images {
			if _, exists := seen[img]; !exists {
				seen[img] = struct{}{}
				result = append(result, img)
			}
		}
	}

	return result, nil
}

// groupByStage splits components into consecutive stage slices, ascending.
// Input order is preserved within a stage.
func groupByStage(components []Component) [][]Component {
	stages := make(map[int][]Component)
	maxStage := 0

	for _, component := range components {
		stages[component.Stage] = append(stages[component.Stage], component)

		if component.Stage > maxStage {
			maxStage = component.Stage
		}
	}

	var ordered [][]Component

	for stage := 0; stage <= maxStage; stage++ {
		if members, ok := stages[stage]; ok {
			ordered = append(ordered, members)
		}
	}

	return ordered
}
