package portforward

import "context"

func (f *Forwarder) SelectRunningPod(
	ctx context.Context,
	namespace, selector, podName string,
) (string, error) {
	return f.selectRunningPod(ctx, namespace, selector, podName)
}

func FreePort() (int, error) {
	return freePort()
}
