package argorolloutsinstaller

// chartVersion returns the pinned Argo Rollouts chart version.
// The chart version (2.x) diverges from the controller version (1.x), so it
// cannot be tracked via a Dockerfile image tag. This constant must be updated
// manually.
func chartVersion() string {
	return "2.40.3"
}
