// Package image extracts container image references from rendered Kubernetes
// manifests. Helm-based installers use it to report the images a chart pulls
// into the cluster.
package image
