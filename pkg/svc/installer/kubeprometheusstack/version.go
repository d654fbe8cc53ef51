package kubeprometheusstackinstaller

// chartVersion returns the pinned kube-prometheus-stack chart version.
// The chart bundles the operator, Prometheus, Grafana, and the exporters
// under one version number unrelated to any single image tag. This constant
// must be updated manually.
func chartVersion() string {
	return "77.5.0"
}
