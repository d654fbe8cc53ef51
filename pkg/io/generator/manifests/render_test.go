package manifests_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	"github.com/k8s-rollouts/devctl/pkg/io/generator/manifests"
)

func TestMain(m *testing.M) {
	exitCode := m.Run()

	_, err := snaps.Clean(m, snaps.CleanOpts{Sort: true})
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to clean snapshots: " + err.Error() + "\n")

		os.Exit(1)
	}

	os.Exit(exitCode)
}

func TestRenderProducesManifestSet(t *testing.T) {
	t.Parallel()

	renderer := manifests.NewRenderer(newEnvironment(v1alpha1.StrategyBlueGreen))

	files, err := renderer.Render()

	require.NoError(t, err)
	require.Len(t, files, 4)
	assert.Equal(t, "rollout.yaml", files[0].Name)
	assert.Equal(t, "services.yaml", files[1].Name)
	assert.Equal(t, "analysis-template.yaml", files[2].Name)
	assert.Equal(t, "ingress.yaml", files[3].Name)

	assert.Contains(t, files[0].Content, "kind: Rollout")
	assert.Equal(t, 3, strings.Count(files[1].Content, "kind: Service"))
	assert.Contains(t, files[2].Content, "kind: AnalysisTemplate")
	assert.Equal(t, 2, strings.Count(files[3].Content, "kind: Ingress"))
}

func TestRenderBlueGreenSnapshot(t *testing.T) {
	t.Parallel()

	renderer := manifests.NewRenderer(newEnvironment(v1alpha1.StrategyBlueGreen))

	files, err := renderer.Render()
	require.NoError(t, err)

	for _, file := range files {
		snaps.MatchSnapshot(t, file.Name, file.Content)
	}
}

func TestRenderCanarySnapshot(t *testing.T) {
	t.Parallel()

	renderer := manifests.NewRenderer(newEnvironment(v1alpha1.StrategyCanary))

	files, err := renderer.Render()
	require.NoError(t, err)

	snaps.MatchSnapshot(t, files[0].Content)
}

func TestWriteFilesCreatesManifests(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "manifests")
	renderer := manifests.NewRenderer(newEnvironment(v1alpha1.StrategyBlueGreen))

	paths, err := renderer.WriteFiles(dir, false)

	require.NoError(t, err)
	require.Len(t, paths, 4)

	for _, path := range paths {
		content, err := os.ReadFile(path) //nolint:gosec // paths come from the test itself
		require.NoError(t, err)
		assert.NotEmpty(t, content)
	}
}

func TestWriteFilesRespectsExistingWithoutForce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rolloutPath := filepath.Join(dir, "rollout.yaml")
	require.NoError(t, os.WriteFile(rolloutPath, []byte("keep me"), 0o600))

	renderer := manifests.NewRenderer(newEnvironment(v1alpha1.StrategyBlueGreen))

	_, err := renderer.WriteFiles(dir, false)
	require.NoError(t, err)

	content, err := os.ReadFile(rolloutPath) //nolint:gosec // path comes from the test itself
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(content))

	_, err = renderer.WriteFiles(dir, true)
	require.NoError(t, err)

	content, err = os.ReadFile(rolloutPath) //nolint:gosec // path comes from the test itself
	require.NoError(t, err)
	assert.Contains(t, string(content), "kind: Rollout")
}
