// Package installer provides functionality for installing and uninstalling components.
//
// This package defines the Installer interface and provides implementations
// for installing the demo environment stack (Argo CD, Argo Rollouts,
// kube-prometheus-stack, ingress-nginx) on Kubernetes clusters. The Factory
// assembles the stack as ordered Components; InstallComponents runs them
// stage by stage with independent components installing concurrently.
package installer
