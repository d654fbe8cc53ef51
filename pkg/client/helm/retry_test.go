//nolint:testpackage // Internal test needed to verify unexported retry helpers
package helm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateRepoRetryDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		attempt       int
		expectedDelay time.Duration
	}{
		{name: "first attempt", attempt: 1, expectedDelay: 2 * time.Second},
		{name: "second attempt", attempt: 2, expectedDelay: 4 * time.Second},
		{name: "third attempt", attempt: 3, expectedDelay: 8 * time.Second},
		{name: "fourth attempt capped", attempt: 4, expectedDelay: 15 * time.Second},
		{name: "large attempt at max", attempt: 10, expectedDelay: 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := calculateRepoRetryDelay(tt.attempt)
			assert.Equal(t, tt.expectedDelay, result)
		})
	}
}

func TestRetryConstants(t *testing.T) {
	t.Parallel()

	// Verify retry constants have sensible values
	assert.Equal(t, 3, repoIndexMaxRetries, "max retries should be 3")
	assert.Equal(t, 2*time.Second, repoIndexRetryBaseWait, "base wait should be 2s")
	assert.Equal(t, 15*time.Second, repoIndexRetryMaxWait, "max wait should be 15s")
}
