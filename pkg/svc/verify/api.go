package verify

import (
	"context"
	"net/http"
	"strings"
)

const apiSuiteName = "api"

// APIOptions configures the sample API suite. BaseURL normally points at the
// forwarded localhost port or the ingress host.
type APIOptions struct {
	BaseURL string
	// ExpectedVersion is the image tag from the environment config; the
	// version check is skipped when empty.
	ExpectedVersion string
	// Client is the HTTP client to use; http.DefaultClient when nil.
	Client *http.Client
}

// APISuite checks the deployed sample API: liveness, readiness, version, and
// metrics exposure.
type APISuite struct {
	opts APIOptions
}

// NewAPISuite creates the sample API suite.
func NewAPISuite(opts APIOptions) *APISuite {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}

	return &APISuite{opts: opts}
}

// Name implements Suite.
func (s *APISuite) Name() string { return apiSuiteName }

// Run implements Suite.
func (s *APISuite) Run(ctx context.Context) []Result {
	return []Result{
		s.checkLive(ctx),
		s.checkReady(ctx),
		s.checkVersion(ctx),
		s.checkMetrics(ctx),
	}
}

func (s *APISuite) checkLive(ctx context.Context) Result {
	const name = "health-live"

	statusCode, _, err := fetch(ctx, s.opts.Client, s.opts.BaseURL+"/health/live", nil)
	if err != nil {
		return fail(apiSuiteName, name, "%v", err)
	}

	if statusCode != http.StatusOK {
		return fail(apiSuiteName, name, "liveness returned %d", statusCode)
	}

	return pass(apiSuiteName, name)
}

func (s *APISuite) checkReady(ctx context.Context) Result {
	const name = "health-ready"

	statusCode, body, err := fetch(ctx, s.opts.Client, s.opts.BaseURL+"/health/ready", nil)
	if err != nil {
		return fail(apiSuiteName, name, "%v", err)
	}

	if statusCode != http.StatusOK {
		return fail(apiSuiteName, name, "readiness returned %d: %s", statusCode, string(body))
	}

	return pass(apiSuiteName, name)
}

func (s *APISuite) checkVersion(ctx context.Context) Result {
	const name = "version-matches"

	var response struct {
		Version string `json:"version"`
	}

	err := fetchJSON(ctx, s.opts.Client, s.opts.BaseURL+"/api/version", nil, &response)
	if err != nil {
		return fail(apiSuiteName, name, "%v", err)
	}

	if s.opts.ExpectedVersion == "" {
		return skip(apiSuiteName, name, "no expected version configured (running %s)", response.Version)
	}

	if response.Version != s.opts.ExpectedVersion {
		return fail(
			apiSuiteName, name,
			"running %s, config wants %s", response.Version, s.opts.ExpectedVersion,
		)
	}

	return pass(apiSuiteName, name)
}

// checkMetrics confirms the request counter is exported, which proves the
// Prometheus instrumentation is wired into the handler chain.
func (s *APISuite) checkMetrics(ctx context.Context) Result {
	const name = "metrics-exposed"

	statusCode, body, err := fetch(ctx, s.opts.Client, s.opts.BaseURL+"/metrics", nil)
	if err != nil {
		return fail(apiSuiteName, name, "%v", err)
	}

	if statusCode != http.StatusOK {
		return fail(apiSuiteName, name, "metrics returned %d", statusCode)
	}

	if !strings.Contains(string(body), "http_requests_total") {
		return fail(apiSuiteName, name, "http_requests_total not found in metrics output")
	}

	return pass(apiSuiteName, name)
}
