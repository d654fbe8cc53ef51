package helm

import (
	"context"
	"fmt"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/client/netretry"
)

const (
	// ContextTimeoutBuffer is the additional time added to the Helm timeout to ensure
	// the Go context doesn't cancel prematurely while Helm's kstatus wait is running.
	ContextTimeoutBuffer = 5 * time.Minute

	// Retry configuration for chart installation.
	// Transient 429/5xx errors can occur during Helm installs in CI with many
	// parallel jobs hitting the same chart registries.
	chartInstallMaxRetries    = 5
	chartInstallRetryBaseWait = 3 * time.Second
	chartInstallRetryMaxWait  = 30 * time.Second
)

// InstallChartWithRetry attempts to install a chart, retrying on transient
// network errors (429 rate limits, 5xx server errors, connection resets, etc.).
func InstallChartWithRetry(
	ctx context.Context,
	client Interface,
	spec *ChartSpec,
	repoName string,
) error {
	var lastErr error

	for attempt := 1; attempt <= chartInstallMaxRetries; attempt++ {
		_, lastErr = client.InstallOrUpgradeChart(ctx, spec)
		if lastErr == nil {
			return nil
		}

		if !netretry.IsRetryable(lastErr) || attempt == chartInstallMaxRetries {
			break
		}

		delay := netretry.ExponentialDelay(
			attempt,
			chartInstallRetryBaseWait,
			chartInstallRetryMaxWait,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}

			return fmt.Errorf("chart install retry cancelled: %w", ctx.Err())
		case <-timer.C:
		}
	}

	return fmt.Errorf("failed to install %s chart: %w", repoName, lastErr)
}
