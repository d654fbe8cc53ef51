package notify_test

import (
	"bytes"
	"testing"

	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageSeparatingWriter_FirstTitleHasNoLeadingNewline(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	writer := notify.NewStageSeparatingWriter(&buf)

	_, err := writer.Write([]byte("🚀 Provisioning cluster...\n"))
	require.NoError(t, err)

	assert.Equal(t, "🚀 Provisioning cluster...\n", buf.String())
}

func TestStageSeparatingWriter_SecondTitleGetsSeparated(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	writer := notify.NewStageSeparatingWriter(&buf)

	_, err := writer.Write([]byte("🚀 Provisioning cluster...\n"))
	require.NoError(t, err)

	_, err = writer.Write([]byte("► starting minikube\n"))
	require.NoError(t, err)

	_, err = writer.Write([]byte("📦 Installing components...\n"))
	require.NoError(t, err)

	want := "🚀 Provisioning cluster...\n► starting minikube\n\n📦 Installing components...\n"
	assert.Equal(t, want, buf.String())
}

func TestStageSeparatingWriter_ActivitySymbolsAreNotTitles(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	writer := notify.NewStageSeparatingWriter(&buf)

	for _, line := range []string{"► forwarding argocd\n", "✔ argocd ready\n", "⊘ drift check skipped\n"} {
		_, err := writer.Write([]byte(line))
		require.NoError(t, err)
	}

	assert.Equal(t, "► forwarding argocd\n✔ argocd ready\n⊘ drift check skipped\n", buf.String())
}

func TestStageSeparatingWriter_Reset(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	writer := notify.NewStageSeparatingWriter(&buf)

	_, err := writer.Write([]byte("🚀 First stage...\n"))
	require.NoError(t, err)
	require.True(t, writer.HasWritten())

	writer.Reset()

	_, err = writer.Write([]byte("📦 Second stage...\n"))
	require.NoError(t, err)

	assert.Equal(t, "🚀 First stage...\n📦 Second stage...\n", buf.String())
}
