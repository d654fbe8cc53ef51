package verify

import (
	"context"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	"github.com/k8s-rollouts/devctl/pkg/client/rollouts"
)

const rolloutSuiteName = "rollout"

// RolloutStatusGetter fetches the status of one Rollout.
type RolloutStatusGetter interface {
	Status(ctx context.Context, name string) (rollouts.Status, error)
}

// RolloutSuite checks the sample application's Rollout against the
// environment configuration.
type RolloutSuite struct {
	client      RolloutStatusGetter
	rolloutName string
	spec        v1alpha1.SampleAppSpec
}

// NewRolloutSuite creates the rollout suite.
func NewRolloutSuite(
	client RolloutStatusGetter,
	rolloutName string,
	spec v1alpha1.SampleAppSpec,
) *RolloutSuite {
	return &RolloutSuite{client: client, rolloutName: rolloutName, spec: spec}
}

// Name implements Suite.
func (s *RolloutSuite) Name() string { return rolloutSuiteName }

// Run implements Suite.
func (s *RolloutSuite) Run(ctx context.Context) []Result {
	status, err := s.client.Status(ctx, s.rolloutName)
	if err != nil {
		return []Result{
			fail(rolloutSuiteName, "rollout-healthy", "failed to get rollout %q: %v",
				s.rolloutName, err),
		}
	}

	return []Result{
		s.checkHealthy(status),
		s.checkReplicas(status),
		s.checkStrategy(status),
	}
}

func (s *RolloutSuite) checkHealthy(status rollouts.Status) Result {
	const name = "rollout-healthy"

	if !status.Healthy() {
		detail := status.Phase
		if status.Message != "" {
			detail += ": " + status.Message
		}

		return fail(rolloutSuiteName, name, "%s", detail)
	}

	return pass(rolloutSuiteName, name)
}

func (s *RolloutSuite) checkReplicas(status rollouts.Status) Result {
	const name = "replicas-available"

	desired := int64(s.spec.Replicas)
	if desired == 0 {
		desired = int64(v1alpha1.DefaultReplicas)
	}

	if status.AvailableReplicas < desired {
		return fail(
			rolloutSuiteName, name,
			"%d of %d replicas available", status.AvailableReplicas, desired,
		)
	}

	return pass(rolloutSuiteName, name)
}

func (s *RolloutSuite) checkStrategy(status rollouts.Status) Result {
	const name = "strategy-matches"

	configured := s.spec.Strategy
	if configured == "" {
		configured = v1alpha1.StrategyBlueGreen
	}

	expected := rollouts.StrategyBlueGreen
	if configured == v1alpha1.StrategyCanary {
		expected = rollouts.StrategyCanary
	}

	if status.Strategy != expected {
		return fail(
			rolloutSuiteName, name,
			"rollout uses %s, config wants %s", status.Strategy, configured,
		)
	}

	return pass(rolloutSuiteName, name)
}
