package sampleapi

// changelogEntry describes one released version of the sample service.
type changelogEntry struct {
	Version string   `json:"version"`
	Date    string   `json:"date"`
	Changes []string `json:"changes"`
}

// changelog lists the demo release history, newest first. Rollout demos flip
// the image tag between these versions.
func changelog() []changelogEntry {
	return []changelogEntry{
		{
			Version: "0.2.1",
			Date:    "2025-02-10",
			Changes: []string{
				"Add /demo endpoints for rollout analysis exercises",
				"Expose http_requests_active gauge",
			},
		},
		{
			Version: "0.2.0",
			Date:    "2025-01-27",
			Changes: []string{
				"Add Prometheus metrics and /metrics endpoint",
				"Add startup probe with ready-once semantics",
			},
		},
		{
			Version: "0.1.0",
			Date:    "2025-01-13",
			Changes: []string{
				"Initial release with health and version endpoints",
			},
		},
	}
}
