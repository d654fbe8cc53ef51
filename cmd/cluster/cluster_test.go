package cluster_test

import (
	"testing"

	"github.com/k8s-rollouts/devctl/cmd/cluster"
	runtime "github.com/k8s-rollouts/devctl/pkg/di"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClusterCmdRegistersSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cluster.NewClusterCmd(runtime.NewRuntime())

	expected := []string{"up", "down", "start", "stop", "status", "list", "dashboard", "tunnel"}

	for _, name := range expected {
		assert.NotNil(t, findSubcommand(cmd, name), "missing subcommand %q", name)
	}
}

func TestBackgroundCmdsRegisterStopFlag(t *testing.T) {
	t.Parallel()

	for _, newCmd := range []func(*runtime.Runtime) *cobra.Command{
		cluster.NewDashboardCmd,
		cluster.NewTunnelCmd,
	} {
		cmd := newCmd(runtime.NewRuntime())

		flag := cmd.Flags().Lookup("stop")

		require.NotNil(t, flag, "missing --stop on %q", cmd.Name())
		assert.Equal(t, "false", flag.DefValue)
	}
}

func findSubcommand(parent *cobra.Command, name string) *cobra.Command {
	for _, sub := range parent.Commands() {
		if sub.Name() == name {
			return sub
		}
	}

	return nil
}
