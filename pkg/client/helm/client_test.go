package helm_test

import (
	"testing"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/client/helm"
	"github.com/stretchr/testify/require"
)

func TestDefaultTimeout(t *testing.T) {
	t.Parallel()

	require.Equal(t, 5*time.Minute, helm.DefaultTimeout)
}
