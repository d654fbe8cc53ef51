package minikubeprovisioner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	runner "github.com/k8s-rollouts/devctl/pkg/cmd/runner"
	"github.com/k8s-rollouts/devctl/pkg/svc/provider"
	clustererrors "github.com/k8s-rollouts/devctl/pkg/svc/provisioner/cluster/errors"
	minikubeprovisioner "github.com/k8s-rollouts/devctl/pkg/svc/provisioner/cluster/minikube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/tools/clientcmd"
)

// testKubeconfig holds entries for the cfg-name profile next to an unrelated
// cluster, mirroring what minikube writes for a profile.
const testKubeconfig = `apiVersion: v1
kind: Config
current-context: cfg-name
clusters:
- cluster:
    server: https://127.0.0.1:6443
  name: cfg-name
- cluster:
    server: https://127.0.0.1:7443
  name: other
contexts:
- context:
    cluster: cfg-name
    user: cfg-name
  name: cfg-name
- context:
    cluster: other
    user: other
  name: other
users:
- name: cfg-name
  user: {}
- name: other
  user: {}
`

var (
	errStartClusterFailed = errors.New("minikube start failed")
	errStopClusterFailed  = errors.New("minikube stop failed")
	errAddonFailed        = errors.New("addon enable failed")
	errListFailed         = errors.New("profile list failed")
)

type scriptedResult struct {
	result runner.CommandResult
	err    error
}

// fakeExecRunner scripts minikube responses per subcommand and records every
// invocation for flag assertions.
type fakeExecRunner struct {
	results map[string]scriptedResult
	calls   [][]string
}

func newFakeExecRunner() *fakeExecRunner {
	return &fakeExecRunner{results: map[string]scriptedResult{}}
}

func (f *fakeExecRunner) on(subcommand string, stdout string, err error) {
	f.results[subcommand] = scriptedResult{
		result: runner.CommandResult{Stdout: stdout},
		err:    err,
	}
}

func (f *fakeExecRunner) Run(
	_ context.Context,
	name string,
	args ...string,
) (runner.CommandResult, error) {
	return f.dispatch(name, args)
}

func (f *fakeExecRunner) RunQuiet(
	_ context.Context,
	name string,
	args ...string,
) (runner.CommandResult, error) {
	return f.dispatch(name, args)
}

func (f *fakeExecRunner) dispatch(name string, args []string) (runner.CommandResult, error) {
	f.calls = append(f.calls, append([]string{name}, args...))

	if len(args) == 0 {
		return runner.CommandResult{}, nil
	}

	scripted, ok := f.results[args[0]]
	if !ok {
		return runner.CommandResult{}, nil
	}

	return scripted.result, scripted.err
}

// callsFor returns the recorded invocations starting with the given subcommand.
func (f *fakeExecRunner) callsFor(subcommand string) [][]string {
	var matched [][]string

	for _, call := range f.calls {
		if len(call) > 1 && call[1] == subcommand {
			matched = append(matched, call)
		}
	}

	return matched
}

func newProvisionerForTest(
	spec *v1alpha1.ClusterSpec,
) (*minikubeprovisioner.MinikubeClusterProvisioner, *fakeExecRunner) {
	if spec == nil {
		spec = &v1alpha1.ClusterSpec{Name: "cfg-name"}
	}

	execRunner := newFakeExecRunner()
	provisioner := minikubeprovisioner.NewMinikubeClusterProvisionerWithRunner(spec, "", execRunner)

	return provisioner, execRunner
}

func assertFlagValue(t *testing.T, args []string, flag string, expected string) {
	t.Helper()

	for idx := range args {
		if args[idx] == flag {
			if idx+1 >= len(args) {
				t.Fatalf("flag %s missing value in args: %v", flag, args)
			}

			require.Equal(t, expected, args[idx+1], "unexpected value for %s", flag)

			return
		}
	}

	t.Fatalf("flag %s not found in args: %v", flag, args)
}

func TestCreateStartsProfileWithSpecFlags(t *testing.T) {
	t.Parallel()

	spec := &v1alpha1.ClusterSpec{
		Name:              "cfg-name",
		KubernetesVersion: "1.31.2",
		Nodes:             2,
		CPUs:              4,
		Memory:            "8g",
		Addons:            []string{"metrics-server", "ingress"},
	}
	provisioner, execRunner := newProvisionerForTest(spec)

	err := provisioner.Create(context.Background(), "")

	require.NoError(t, err, "Create()")

	starts := execRunner.callsFor("start")
	require.Len(t, starts, 1, "Create() should run minikube start once")

	startArgs := starts[0]
	assertFlagValue(t, startArgs, "--profile", "cfg-name")
	assertFlagValue(t, startArgs, "--driver", "docker")
	assertFlagValue(t, startArgs, "--kubernetes-version", "1.31.2")
	assertFlagValue(t, startArgs, "--nodes", "2")
	assertFlagValue(t, startArgs, "--cpus", "4")
	assertFlagValue(t, startArgs, "--memory", "8g")

	addons := execRunner.callsFor("addons")
	require.Len(t, addons, 2, "Create() should enable each configured addon")
	assert.Contains(t, addons[0], "metrics-server")
	assert.Contains(t, addons[1], "ingress")
	assertFlagValue(t, addons[0], "--profile", "cfg-name")
}

func TestCreateOmitsUnsetFlags(t *testing.T) {
	t.Parallel()

	provisioner, execRunner := newProvisionerForTest(&v1alpha1.ClusterSpec{Name: "cfg-name"})

	err := provisioner.Create(context.Background(), "")

	require.NoError(t, err, "Create()")

	starts := execRunner.callsFor("start")
	require.Len(t, starts, 1)
	assert.NotContains(t, starts[0], "--kubernetes-version")
	assert.NotContains(t, starts[0], "--nodes")
	assert.NotContains(t, starts[0], "--cpus")
	assert.NotContains(t, starts[0], "--memory")
}

func TestCreateUsesProvidedName(t *testing.T) {
	t.Parallel()

	provisioner, execRunner := newProvisionerForTest(nil)

	err := provisioner.Create(context.Background(), "custom-cluster")

	require.NoError(t, err, "Create()")

	starts := execRunner.callsFor("start")
	require.Len(t, starts, 1)
	assertFlagValue(t, starts[0], "--profile", "custom-cluster")
}

func TestCreateSkipsWhenAlreadyRunning(t *testing.T) {
	t.Parallel()

	provisioner, execRunner := newProvisionerForTest(nil)
	execRunner.on("status", "Running\n", nil)

	err := provisioner.Create(context.Background(), "")

	require.ErrorIs(t, err, provider.ErrSkipAction, "Create()")
	assert.Contains(t, err.Error(), "cfg-name")
	assert.Empty(t, execRunner.callsFor("start"), "Create() should not start a running cluster")
}

func TestCreateErrorStartFailed(t *testing.T) {
	t.Parallel()

	provisioner, execRunner := newProvisionerForTest(nil)
	execRunner.on("start", "", errStartClusterFailed)

	err := provisioner.Create(context.Background(), "")

	require.ErrorIs(t, err, errStartClusterFailed, "Create()")
	assert.ErrorContains(t, err, "failed to create minikube cluster")
}

func TestCreateErrorAddonFailed(t *testing.T) {
	t.Parallel()

	spec := &v1alpha1.ClusterSpec{Name: "cfg-name", Addons: []string{"metrics-server"}}
	provisioner, execRunner := newProvisionerForTest(spec)
	execRunner.on("addons", "", errAddonFailed)

	err := provisioner.Create(context.Background(), "")

	require.ErrorIs(t, err, errAddonFailed, "Create()")
	assert.ErrorContains(t, err, "failed to enable addon 'metrics-server'")
}

func TestDeleteRemovesExistingProfile(t *testing.T) {
	t.Parallel()

	provisioner, execRunner := newProvisionerForTest(nil)
	execRunner.on("profile", `{"invalid":[],"valid":[{"Name":"cfg-name"}]}`, nil)

	err := provisioner.Delete(context.Background(), "")

	require.NoError(t, err, "Delete()")

	deletes := execRunner.callsFor("delete")
	require.Len(t, deletes, 1)
	assertFlagValue(t, deletes[0], "--profile", "cfg-name")
}

func TestDeleteCleansConfiguredKubeconfig(t *testing.T) {
	t.Parallel()

	kubeconfigPath := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(kubeconfigPath, []byte(testKubeconfig), 0o600))

	execRunner := newFakeExecRunner()
	execRunner.on("profile", `{"invalid":[],"valid":[{"Name":"cfg-name"}]}`, nil)

	provisioner := minikubeprovisioner.NewMinikubeClusterProvisionerWithRunner(
		&v1alpha1.ClusterSpec{Name: "cfg-name"},
		kubeconfigPath,
		execRunner,
	)

	err := provisioner.Delete(context.Background(), "")

	require.NoError(t, err, "Delete()")

	config, err := clientcmd.LoadFromFile(kubeconfigPath)
	require.NoError(t, err)

	assert.NotContains(t, config.Clusters, "cfg-name")
	assert.NotContains(t, config.Contexts, "cfg-name")
	assert.NotContains(t, config.AuthInfos, "cfg-name")
	assert.Empty(t, config.CurrentContext)
	assert.Contains(t, config.Clusters, "other", "unrelated entries must survive")
	assert.Contains(t, config.Contexts, "other")
}

func TestDeleteErrorClusterNotFound(t *testing.T) {
	t.Parallel()

	provisioner, execRunner := newProvisionerForTest(nil)
	execRunner.on("profile", `{"invalid":[],"valid":[{"Name":"other"}]}`, nil)

	err := provisioner.Delete(context.Background(), "")

	require.ErrorIs(t, err, clustererrors.ErrClusterNotFound, "Delete()")
	assert.Empty(t, execRunner.callsFor("delete"), "Delete() should not run for a missing cluster")
}

func TestStartRestartsStoppedCluster(t *testing.T) {
	t.Parallel()

	provisioner, execRunner := newProvisionerForTest(nil)
	execRunner.on("status", "Stopped\n", nil)

	err := provisioner.Start(context.Background(), "")

	require.NoError(t, err, "Start()")

	starts := execRunner.callsFor("start")
	require.Len(t, starts, 1)
	assertFlagValue(t, starts[0], "--profile", "cfg-name")
	// Restart reuses the saved profile configuration
	assert.NotContains(t, starts[0], "--driver")
}

func TestStartSkipsWhenAlreadyRunning(t *testing.T) {
	t.Parallel()

	provisioner, execRunner := newProvisionerForTest(nil)
	execRunner.on("status", "Running\n", nil)

	err := provisioner.Start(context.Background(), "")

	require.ErrorIs(t, err, provider.ErrSkipAction, "Start()")
	assert.Empty(t, execRunner.callsFor("start"))
}

func TestStartErrorStartFailed(t *testing.T) {
	t.Parallel()

	provisioner, execRunner := newProvisionerForTest(nil)
	execRunner.on("status", "Stopped\n", nil)
	execRunner.on("start", "", errStartClusterFailed)

	err := provisioner.Start(context.Background(), "")

	require.ErrorIs(t, err, errStartClusterFailed, "Start()")
	assert.ErrorContains(t, err, "failed to start minikube cluster")
}

func TestStopStopsCluster(t *testing.T) {
	t.Parallel()

	provisioner, execRunner := newProvisionerForTest(nil)

	err := provisioner.Stop(context.Background(), "custom")

	require.NoError(t, err, "Stop()")

	stops := execRunner.callsFor("stop")
	require.Len(t, stops, 1)
	assertFlagValue(t, stops[0], "--profile", "custom")
}

func TestStopErrorStopFailed(t *testing.T) {
	t.Parallel()

	provisioner, execRunner := newProvisionerForTest(nil)
	execRunner.on("stop", "", errStopClusterFailed)

	err := provisioner.Stop(context.Background(), "")

	require.ErrorIs(t, err, errStopClusterFailed, "Stop()")
	assert.ErrorContains(t, err, "failed to stop minikube cluster")
}

func TestListParsesProfiles(t *testing.T) {
	t.Parallel()

	provisioner, execRunner := newProvisionerForTest(nil)
	execRunner.on(
		"profile",
		`{"invalid":[{"Name":"broken"}],"valid":[{"Name":"a"},{"Name":"b"}]}`,
		nil,
	)

	got, err := provisioner.List(context.Background())

	require.NoError(t, err, "List()")
	assert.Equal(t, []string{"a", "b"}, got, "List() should only report valid profiles")
}

func TestListEmptyOutput(t *testing.T) {
	t.Parallel()

	provisioner, execRunner := newProvisionerForTest(nil)
	execRunner.on("profile", "", nil)

	got, err := provisioner.List(context.Background())

	require.NoError(t, err, "List()")
	assert.Empty(t, got)
}

func TestListErrorListFailed(t *testing.T) {
	t.Parallel()

	provisioner, execRunner := newProvisionerForTest(nil)
	execRunner.on("profile", "", errListFailed)

	_, err := provisioner.List(context.Background())

	require.ErrorIs(t, err, errListFailed, "List()")
	assert.ErrorContains(t, err, "failed to list minikube clusters")
}

func TestListErrorMalformedOutput(t *testing.T) {
	t.Parallel()

	provisioner, execRunner := newProvisionerForTest(nil)
	execRunner.on("profile", "not-json", nil)

	_, err := provisioner.List(context.Background())

	require.Error(t, err, "List()")
	assert.ErrorContains(t, err, "failed to parse minikube profile list output")
}

func TestExistsSuccessTrue(t *testing.T) {
	t.Parallel()

	provisioner, execRunner := newProvisionerForTest(nil)
	execRunner.on("profile", `{"invalid":[],"valid":[{"Name":"x"},{"Name":"cfg-name"}]}`, nil)

	exists, err := provisioner.Exists(context.Background(), "")

	require.NoError(t, err, "Exists()")
	assert.True(t, exists)
}

func TestExistsSuccessFalse(t *testing.T) {
	t.Parallel()

	provisioner, execRunner := newProvisionerForTest(nil)
	execRunner.on("profile", `{"invalid":[],"valid":[{"Name":"x"}]}`, nil)

	exists, err := provisioner.Exists(context.Background(), "not-here")

	require.NoError(t, err, "Exists()")
	assert.False(t, exists)
}

func TestState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		stdout   string
		expected string
	}{
		{
			name:     "running",
			stdout:   "Running\n",
			expected: minikubeprovisioner.StateRunning,
		},
		{
			name:     "stopped",
			stdout:   "Stopped\n",
			expected: minikubeprovisioner.StateStopped,
		},
		{
			name:     "no_output_means_nonexistent",
			stdout:   "",
			expected: minikubeprovisioner.StateNonexistent,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			provisioner, execRunner := newProvisionerForTest(nil)
			execRunner.on("status", testCase.stdout, nil)

			state, err := provisioner.State(context.Background(), "")

			require.NoError(t, err, "State()")
			assert.Equal(t, testCase.expected, state)
		})
	}
}
