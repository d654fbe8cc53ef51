package verify

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

const observabilitySuiteName = "observability"

// sampleMetricQuery is the metric the sample service exports; its presence
// proves the scrape pipeline end to end.
const sampleMetricQuery = "http_requests_total"

// ObservabilityOptions configures the observability suite endpoints. The base
// URLs normally point at the forwarded localhost ports.
type ObservabilityOptions struct {
	PrometheusBaseURL    string
	GrafanaBaseURL       string
	GrafanaAdminUser     string
	GrafanaAdminPassword string
	// Client is the HTTP client to use; http.DefaultClient when nil.
	Client *http.Client
}

// ObservabilitySuite checks Prometheus readiness, target health, metric
// queryability, Grafana health, and the provisioned Prometheus datasource.
type ObservabilitySuite struct {
	opts ObservabilityOptions
}

// NewObservabilitySuite creates the observability suite.
func NewObservabilitySuite(opts ObservabilityOptions) *ObservabilitySuite {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}

	if opts.GrafanaAdminUser == "" {
		opts.GrafanaAdminUser = "admin"
	}

	return &ObservabilitySuite{opts: opts}
}

// Name implements Suite.
func (s *ObservabilitySuite) Name() string { return observabilitySuiteName }

// Run implements Suite.
func (s *ObservabilitySuite) Run(ctx context.Context) []Result {
	return []Result{
		s.checkPrometheusReady(ctx),
		s.checkPrometheusTargets(ctx),
		s.checkSampleMetric(ctx),
		s.checkGrafanaHealth(ctx),
		s.checkGrafanaDatasource(ctx),
	}
}

func (s *ObservabilitySuite) checkPrometheusReady(ctx context.Context) Result {
	const name = "prometheus-ready"

	statusCode, _, err := fetch(ctx, s.opts.Client, s.opts.PrometheusBaseURL+"/-/ready", nil)
	if err != nil {
		return fail(observabilitySuiteName, name, "%v", err)
	}

	if statusCode != http.StatusOK {
		return fail(observabilitySuiteName, name, "readiness returned %d", statusCode)
	}

	return pass(observabilitySuiteName, name)
}

func (s *ObservabilitySuite) checkPrometheusTargets(ctx context.Context) Result {
	const name = "prometheus-targets"

	var response struct {
		Status string `json:"status"`
		Data   struct {
			ActiveTargets []struct {
				Health string `json:"health"`
				Labels struct {
					Job string `json:"job"`
				} `json:"labels"`
			} `json:"activeTargets"`
		} `json:"data"`
	}

	err := fetchJSON(
		ctx, s.opts.Client, s.opts.PrometheusBaseURL+"/api/v1/targets", nil, &response,
	)
	if err != nil {
		return fail(observabilitySuiteName, name, "%v", err)
	}

	if len(response.Data.ActiveTargets) == 0 {
		return fail(observabilitySuiteName, name, "no active targets")
	}

	var down []string

	for _, target := range response.Data.ActiveTargets {
		if target.Health != "up" {
			down = append(down, target.Labels.Job)
		}
	}

	if len(down) > 0 {
		return fail(observabilitySuiteName, name, "targets down: %s", strings.Join(down, ", "))
	}

	return pass(observabilitySuiteName, name)
}

func (s *ObservabilitySuite) checkSampleMetric(ctx context.Context) Result {
	const name = "sample-metric-queryable"

	queryURL := s.opts.PrometheusBaseURL + "/api/v1/query?query=" +
		url.QueryEscape(sampleMetricQuery)

	var response struct {
		Status string `json:"status"`
		Data   struct {
			Result []any `json:"result"`
		} `json:"data"`
	}

	err := fetchJSON(ctx, s.opts.Client, queryURL, nil, &response)
	if err != nil {
		return fail(observabilitySuiteName, name, "%v", err)
	}

	if response.Status != "success" {
		return fail(observabilitySuiteName, name, "query status %q", response.Status)
	}

	if len(response.Data.Result) == 0 {
		return fail(
			observabilitySuiteName,
			name,
			"no samples for %s; is the sample app scraped?",
			sampleMetricQuery,
		)
	}

	return pass(observabilitySuiteName, name)
}

func (s *ObservabilitySuite) checkGrafanaHealth(ctx context.Context) Result {
	const name = "grafana-health"

	var response struct {
		Database string `json:"database"`
	}

	err := fetchJSON(ctx, s.opts.Client, s.opts.GrafanaBaseURL+"/api/health", nil, &response)
	if err != nil {
		return fail(observabilitySuiteName, name, "%v", err)
	}

	if response.Database != "ok" {
		return fail(observabilitySuiteName, name, "database status %q", response.Database)
	}

	return pass(observabilitySuiteName, name)
}

func (s *ObservabilitySuite) checkGrafanaDatasource(ctx context.Context) Result {
	const name = "grafana-prometheus-datasource"

	if s.opts.GrafanaAdminPassword == "" {
		return skip(observabilitySuiteName, name, "no grafana admin password configured")
	}

	var datasources []struct {
		Type string `json:"type"`
	}

	err := fetchJSON(
		ctx,
		s.opts.Client,
		s.opts.GrafanaBaseURL+"/api/datasources",
		func(request *http.Request) {
			request.SetBasicAuth(s.opts.GrafanaAdminUser, s.opts.GrafanaAdminPassword)
		},
		&datasources,
	)
	if err != nil {
		return fail(observabilitySuiteName, name, "%v", err)
	}

	for _, datasource := range datasources {
		if datasource.Type == "prometheus" {
			return pass(observabilitySuiteName, name)
		}
	}

	return fail(observabilitySuiteName, name, "no prometheus datasource provisioned")
}
