package rollouts_test

import (
	"context"
	"testing"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/client/rollouts"
	"github.com/stretchr/testify/require"
)

func TestClientWatch_ReturnsOnHealthy(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, withPhase(newBlueGreenRollout("sample-api"), rollouts.PhaseHealthy))

	observed := make([]rollouts.Status, 0, 1)

	status, err := client.client.Watch(
		context.Background(),
		"sample-api",
		rollouts.WatchOptions{Timeout: 5 * time.Second},
		func(status rollouts.Status) {
			observed = append(observed, status)
		},
	)
	require.NoError(t, err)
	require.True(t, status.Healthy())
	require.Len(t, observed, 1)
}

func TestClientWatch_StopsOnDegraded(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, withPhase(newCanaryRollout("sample-api"), rollouts.PhaseDegraded))

	status, err := client.client.Watch(
		context.Background(),
		"sample-api",
		rollouts.WatchOptions{Timeout: 5 * time.Second},
		nil,
	)
	require.NoError(t, err)
	require.Equal(t, rollouts.PhaseDegraded, status.Phase)
	require.False(t, status.Healthy())
}

func TestClientWatch_StopsWhenAborted(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, withAbort(newCanaryRollout("sample-api")))

	status, err := client.client.Watch(
		context.Background(),
		"sample-api",
		rollouts.WatchOptions{Timeout: 5 * time.Second},
		nil,
	)
	require.NoError(t, err)
	require.True(t, status.Aborted)
}

func TestClientWatch_TimesOutWhileProgressing(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, newCanaryRollout("sample-api"))

	status, err := client.client.Watch(
		context.Background(),
		"sample-api",
		rollouts.WatchOptions{Interval: 10 * time.Millisecond, Timeout: 100 * time.Millisecond},
		nil,
	)
	require.Error(t, err)
	require.ErrorIs(t, err, rollouts.ErrWatchTimeout)
	require.Equal(t, rollouts.PhaseProgressing, status.Phase)
}

func TestClientWatch_PropagatesCancellation(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, newCanaryRollout("sample-api"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.client.Watch(ctx, "sample-api", rollouts.WatchOptions{}, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	require.NotErrorIs(t, err, rollouts.ErrWatchTimeout)
}

func TestClientWatch_ReturnsErrorForMissingRollout(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)

	_, err := client.client.Watch(
		context.Background(),
		"nonexistent",
		rollouts.WatchOptions{Timeout: time.Second},
		nil,
	)
	require.Error(t, err)
	require.ErrorContains(t, err, "get rollout")
}
