package portforward

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"sync"

	"github.com/k8s-rollouts/devctl/pkg/k8s"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/httpstream"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/portforward"
	"k8s.io/client-go/transport/spdy"
)

var (
	// ErrNoRunningPod indicates no pod in Running phase matched the selector.
	ErrNoRunningPod = errors.New("no running pod matches selector")

	// ErrSelectorRequired indicates neither a pod name nor a label selector
	// was given.
	ErrSelectorRequired = errors.New("selector or pod name required")
)

// Forwarder creates port-forward tunnels into pods.
type Forwarder struct {
	config    *rest.Config
	clientset kubernetes.Interface
}

// Options selects the target pod and the port pair for a tunnel. LocalPort 0
// binds a random free port. PodName skips selector-based pod discovery.
type Options struct {
	Namespace  string
	Selector   string
	PodName    string
	LocalPort  int
	RemotePort int
}

// Tunnel is a running port-forward. Stop terminates it; Done yields the
// ForwardPorts result once the tunnel ends.
type Tunnel struct {
	Namespace  string
	PodName    string
	LocalPort  int
	RemotePort int

	stopCh   chan struct{}
	errCh    <-chan error
	stopOnce sync.Once
}

// NewForwarder creates a forwarder from a kubeconfig path and context.
func NewForwarder(kubeconfigPath, kubeContext string) (*Forwarder, error) {
	config, err := k8s.BuildRESTConfig(kubeconfigPath, kubeContext)
	if err != nil {
		return nil, fmt.Errorf("failed to build REST config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes client: %w", err)
	}

	return &Forwarder{config: config, clientset: clientset}, nil
}

// NewForwarderWithClient creates a forwarder from existing clients. Used in
// tests with a fake clientset.
func NewForwarderWithClient(config *rest.Config, clientset kubernetes.Interface) *Forwarder {
	return &Forwarder{config: config, clientset: clientset}
}

// Start opens a tunnel and blocks until it is ready to accept connections.
func (f *Forwarder) Start(ctx context.Context, opts Options) (*Tunnel, error) {
	podName, err := f.selectRunningPod(ctx, opts.Namespace, opts.Selector, opts.PodName)
	if err != nil {
		return nil, err
	}

	localPort := opts.LocalPort
	if localPort == 0 {
		localPort, err = freePort()
		if err != nil {
			return nil, fmt.Errorf("find free local port: %w", err)
		}
	}

	dialer, err := f.dialer(opts.Namespace, podName)
	if err != nil {
		return nil, err
	}

	stopCh := make(chan struct{})
	readyCh := make(chan struct{})
	errCh := make(chan error, 1)

	ports := []string{fmt.Sprintf("%d:%d", localPort, opts.RemotePort)}

	forwarder, err := portforward.New(dialer, ports, stopCh, readyCh, io.Discard, io.Discard)
	if err != nil {
		return nil, fmt.Errorf("create port forwarder for pod %s: %w", podName, err)
	}

	go func() {
		errCh <- forwarder.ForwardPorts()
	}()

	select {
	case err := <-errCh:
		return nil, fmt.Errorf("forward port to pod %s/%s: %w", opts.Namespace, podName, err)
	case <-ctx.Done():
		close(stopCh)

		//nolint:wrapcheck // context cancellation passes through untouched
		return nil, ctx.Err()
	case <-readyCh:
	}

	return &Tunnel{
		Namespace:  opts.Namespace,
		PodName:    podName,
		LocalPort:  localPort,
		RemotePort: opts.RemotePort,
		stopCh:     stopCh,
		errCh:      errCh,
	}, nil
}

// Stop terminates the tunnel. Safe to call more than once.
func (t *Tunnel) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopCh)
	})
}

// Done reports the tunnel's ForwardPorts result once it terminates.
func (t *Tunnel) Done() <-chan error {
	return t.errCh
}

// Addr returns the local address the tunnel listens on.
func (t *Tunnel) Addr() string {
	return fmt.Sprintf("127.0.0.1:%d", t.LocalPort)
}

// selectRunningPod resolves the target pod. An explicit pod name wins;
// otherwise the first running, non-terminating pod matching the selector is
// picked (sorted by name so repeated calls hit the same pod).
func (f *Forwarder) selectRunningPod(
	ctx context.Context,
	namespace, selector, podName string,
) (string, error) {
	if podName != "" {
		return podName, nil
	}

	if selector == "" {
		return "", ErrSelectorRequired
	}

	pods, err := f.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: selector,
	})
	if err != nil {
		return "", fmt.Errorf("list pods for selector %q: %w", selector, err)
	}

	candidates := make([]string, 0, len(pods.Items))

	for idx := range pods.Items {
		pod := &pods.Items[idx]
		if pod.Status.Phase == corev1.PodRunning && pod.DeletionTimestamp == nil {
			candidates = append(candidates, pod.Name)
		}
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: %s in namespace %s", ErrNoRunningPod, selector, namespace)
	}

	sort.Strings(candidates)

	return candidates[0], nil
}

// dialer builds the SPDY dialer against the pod's portforward subresource.
func (f *Forwarder) dialer(namespace, podName string) (httpstream.Dialer, error) {
	targetURL := f.clientset.CoreV1().RESTClient().Post().
		Resource("pods").
		Namespace(namespace).
		Name(podName).
		SubResource("portforward").URL()

	transport, upgrader, err := spdy.RoundTripperFor(f.config)
	if err != nil {
		return nil, fmt.Errorf("create SPDY round tripper: %w", err)
	}

	return spdy.NewDialer(upgrader, &http.Client{Transport: transport}, http.MethodPost, targetURL), nil
}

// freePort binds 127.0.0.1:0, reads the assigned port and releases it.
func freePort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("bind local port: %w", err)
	}

	port := listener.Addr().(*net.TCPAddr).Port

	err = listener.Close()
	if err != nil {
		return 0, fmt.Errorf("release local port: %w", err)
	}

	return port, nil
}
