package ingressnginxinstaller

// chartVersion returns the pinned ingress-nginx chart version.
// The chart version (4.x) diverges from the controller version (1.x), so it
// cannot be tracked via a Dockerfile image tag. This constant must be updated
// manually.
func chartVersion() string {
	return "4.13.2"
}
