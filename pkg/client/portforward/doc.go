// Package portforward tunnels local ports to pods over the Kubernetes
// port-forward subresource, the same SPDY mechanism kubectl port-forward
// uses. Target pods are picked by label selector among running pods, and a
// local port of 0 binds a free port.
package portforward
