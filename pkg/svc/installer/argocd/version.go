package argocdinstaller

// chartVersion returns the pinned Argo CD chart version.
// The chart version (8.x) diverges from the app version (3.x), so it cannot
// be tracked via a Dockerfile image tag. This constant must be updated
// manually.
func chartVersion() string {
	return "8.6.3"
}
