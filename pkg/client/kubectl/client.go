// Package kubectl embeds kubectl commands so devctl can pass them through
// without shelling out to a kubectl binary.
package kubectl

import (
	"github.com/spf13/cobra"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/cli-runtime/pkg/genericiooptions"
	"k8s.io/kubectl/pkg/cmd/apply"
	kubectldelete "k8s.io/kubectl/pkg/cmd/delete"
	"k8s.io/kubectl/pkg/cmd/describe"
	"k8s.io/kubectl/pkg/cmd/get"
	"k8s.io/kubectl/pkg/cmd/logs"
	cmdutil "k8s.io/kubectl/pkg/cmd/util"
	"k8s.io/kubectl/pkg/cmd/wait"
)

// parentCommandPath is the command path kubectl renders in usage examples.
const parentCommandPath = "devctl kube"

// Client creates embedded kubectl commands bound to a kubeconfig.
type Client struct {
	ioStreams genericiooptions.IOStreams
}

// NewClient creates a kubectl client writing to the given IO streams.
func NewClient(ioStreams genericiooptions.IOStreams) *Client {
	return &Client{ioStreams: ioStreams}
}

// CreateGetCommand returns the kubectl get command.
func (c *Client) CreateGetCommand(kubeconfigPath string) *cobra.Command {
	return get.NewCmdGet(parentCommandPath, c.factory(kubeconfigPath), c.ioStreams)
}

// CreateApplyCommand returns the kubectl apply command.
func (c *Client) CreateApplyCommand(kubeconfigPath string) *cobra.Command {
	return apply.NewCmdApply(parentCommandPath, c.factory(kubeconfigPath), c.ioStreams)
}

// CreateDeleteCommand returns the kubectl delete command.
func (c *Client) CreateDeleteCommand(kubeconfigPath string) *cobra.Command {
	return kubectldelete.NewCmdDelete(c.factory(kubeconfigPath), c.ioStreams)
}

// CreateDescribeCommand returns the kubectl describe command.
func (c *Client) CreateDescribeCommand(kubeconfigPath string) *cobra.Command {
	return describe.NewCmdDescribe(parentCommandPath, c.factory(kubeconfigPath), c.ioStreams)
}

// CreateLogsCommand returns the kubectl logs command.
func (c *Client) CreateLogsCommand(kubeconfigPath string) *cobra.Command {
	return logs.NewCmdLogs(c.factory(kubeconfigPath), c.ioStreams)
}

// CreateWaitCommand returns the kubectl wait command.
func (c *Client) CreateWaitCommand(kubeconfigPath string) *cobra.Command {
	return wait.NewCmdWait(c.factory(kubeconfigPath), c.ioStreams)
}

// factory builds a kubectl factory whose client config loads from the given
// kubeconfig path instead of the default loading rules.
func (c *Client) factory(kubeconfigPath string) cmdutil.Factory {
	configFlags := genericclioptions.NewConfigFlags(true)
	if kubeconfigPath != "" {
		configFlags.KubeConfig = &kubeconfigPath
	}

	return cmdutil.NewFactory(cmdutil.NewMatchVersionFlags(configFlags))
}
