package cmd

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	"github.com/k8s-rollouts/devctl/pkg/svc/installer"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/k8s-rollouts/devctl/pkg/utils/timer"
	"github.com/spf13/cobra"
)

// StageComponents groups components by install stage in ascending stage
// order. Components within a stage have no install-order dependencies on
// each other.
func StageComponents(components []installer.Component) [][]installer.Component {
	byStage := make(map[int][]installer.Component)

	for _, component := range components {
		byStage[component.Stage] = append(byStage[component.Stage], component)
	}

	stages := make([]int, 0, len(byStage))
	for stage := range byStage {
		stages = append(stages, stage)
	}

	sort.Ints(stages)

	grouped := make([][]installer.Component, 0, len(stages))
	for _, stage := range stages {
		grouped = append(grouped, byStage[stage])
	}

	return grouped
}

// RunStackInstall installs the components stage by stage with progress
// output. Components within a stage install concurrently; after each install
// the component's readiness checks are awaited.
func RunStackInstall(
	cmd *cobra.Command,
	tmr timer.Timer,
	env *v1alpha1.Environment,
	components []installer.Component,
) error {
	timeout := installer.GetInstallTimeout(env)
	kubeconfig := env.Spec.Connection.Kubeconfig
	kubecontext := env.Spec.Connection.Context

	for _, stage := range StageComponents(components) {
		tasks := make([]notify.ProgressTask, 0, len(stage))

		for _, component := range stage {
			tasks = append(tasks, notify.ProgressTask{
				Name: component.Name,
				Fn: func(ctx context.Context) error {
					err := component.Installer.Install(ctx)
					if err != nil {
						return err
					}

					if len(component.Readiness) == 0 {
						return nil
					}

					return installer.WaitForResourceReadiness(
						ctx,
						kubeconfig,
						kubecontext,
						component.Readiness,
						timeout,
						component.Name,
					)
				},
			})
		}

		group := notify.NewProgressGroup(
			"Installing components...",
			"📦",
			cmd.OutOrStdout(),
			notify.WithLabels(notify.InstallingLabels()),
			notify.WithTimer(MaybeTimer(cmd, tmr)),
		)

		err := group.Run(cmd.Context(), tasks...)
		if err != nil {
			return err
		}
	}

	return nil
}

// RunStackUninstall removes the components stage by stage in reverse install
// order. Removal is best-effort: failures are collected and reported after
// every component has been attempted.
func RunStackUninstall(
	cmd *cobra.Command,
	tmr timer.Timer,
	components []installer.Component,
) error {
	stages := StageComponents(components)

	var (
		mu   sync.Mutex
		errs []error
	)

	for i := len(stages) - 1; i >= 0; i-- {
		tasks := make([]notify.ProgressTask, 0, len(stages[i]))

		for _, component := range stages[i] {
			tasks = append(tasks, notify.ProgressTask{
				Name: component.Name,
				Fn: func(ctx context.Context) error {
					err := component.Installer.Uninstall(ctx)
					if err != nil {
						mu.Lock()
						errs = append(errs, err)
						mu.Unlock()
					}

					return nil
				},
			})
		}

		group := notify.NewProgressGroup(
			"Uninstalling components...",
			"📦",
			cmd.OutOrStdout(),
			notify.WithLabels(notify.UninstallingLabels()),
			notify.WithTimer(MaybeTimer(cmd, tmr)),
		)

		err := group.Run(cmd.Context(), tasks...)
		if err != nil {
			return err
		}
	}

	return errors.Join(errs...)
}
