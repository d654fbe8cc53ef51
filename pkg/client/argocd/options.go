package argocd

// BootstrapOptions configures the GitOps resources devctl ensures.
type BootstrapOptions struct {
	// RepositoryURL is the git repository Argo CD pulls manifests from.
	// Example: https://github.com/<owner>/<repo>
	RepositoryURL string

	// Path is the path inside the repository holding the app-of-apps
	// Application manifests.
	//
	// If empty, defaults to "argocd/apps".
	Path string

	// ApplicationName is the root Application name. Defaults to "app-of-apps".
	ApplicationName string

	// TargetRevision is the git revision to track (branch, tag, or commit).
	// Defaults to "main".
	TargetRevision string

	// Project is the Argo CD project of the root Application. Defaults to "default".
	Project string

	// Username for repository authentication (optional, for private repositories).
	Username string

	// Password or access token for repository authentication (optional).
	Password string

	// Insecure skips TLS verification for the repository server. Default is false.
	Insecure bool
}

// SetRevisionOptions configures pointing an Application at a new git revision.
type SetRevisionOptions struct {
	ApplicationName string
	TargetRevision  string
	// HardRefresh requests Argo CD to refresh caches when updating the revision.
	HardRefresh bool
}
