package helm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	helmv4action "helm.sh/helm/v4/pkg/action"
	helmv4loader "helm.sh/helm/v4/pkg/chart/loader"
	chartv2 "helm.sh/helm/v4/pkg/chart/v2"
	helmv4cli "helm.sh/helm/v4/pkg/cli"
	helmv4getter "helm.sh/helm/v4/pkg/getter"
	helmv4kube "helm.sh/helm/v4/pkg/kube"
	v1 "helm.sh/helm/v4/pkg/release/v1"
	repov1 "helm.sh/helm/v4/pkg/repo/v1"
)

const (
	// DefaultTimeout defines the fallback Helm chart installation timeout.
	DefaultTimeout = 5 * time.Minute
	chartRefParts  = 2
)

var (
	errReleaseNameRequired = errors.New("helm: release name is required")
	errChartSpecRequired   = errors.New("helm: chart spec is required")

	// ErrReleaseNotFound is returned when a release has no recorded history.
	ErrReleaseNotFound = errors.New("helm: release not found")
)

// stderrCaptureMu protects process-wide stderr redirection from concurrent access.
var stderrCaptureMu sync.Mutex //nolint:gochecknoglobals // global lock required to coordinate stderr interception

// ChartSpec describes a chart operation: what to install, where, and how to
// wait for it.
type ChartSpec struct {
	ReleaseName string
	ChartName   string
	Namespace   string
	Version     string

	CreateNamespace bool
	Atomic          bool
	Wait            bool
	WaitForJobs     bool
	Timeout         time.Duration
	Silent          bool
	UpgradeCRDs     bool

	ValuesYaml string

	RepoURL               string
	Username              string
	Password              string
	CertFile              string
	KeyFile               string
	CaFile                string
	InsecureSkipTLSverify bool
}

// RepositoryEntry describes a Helm repository that should be added locally
// before performing chart operations.
type RepositoryEntry struct {
	Name                  string
	URL                   string
	Username              string
	Password              string
	CertFile              string
	KeyFile               string
	CaFile                string
	InsecureSkipTLSverify bool
	PlainHTTP             bool
}

// ReleaseInfo captures metadata about a Helm release after an operation.
type ReleaseInfo struct {
	Name       string
	Namespace  string
	Revision   int
	Status     string
	Chart      string
	AppVersion string
	Updated    time.Time
	Notes      string
}

// Interface defines the subset of Helm functionality required by devctl.
type Interface interface {
	InstallChart(ctx context.Context, spec *ChartSpec) (*ReleaseInfo, error)
	InstallOrUpgradeChart(ctx context.Context, spec *ChartSpec) (*ReleaseInfo, error)
	UninstallRelease(ctx context.Context, releaseName, namespace string) error
	AddRepository(ctx context.Context, entry *RepositoryEntry, timeout time.Duration) error
	TemplateChart(ctx context.Context, spec *ChartSpec) (string, error)
	GetReleaseInfo(ctx context.Context, releaseName, namespace string) (*ReleaseInfo, error)
}

// Client represents the default helm implementation used by devctl.
type Client struct {
	actionConfig *helmv4action.Configuration
	settings     *helmv4cli.EnvSettings
	kubeConfig   string
	kubeContext  string
	debugLog     func(string, ...any)
}

var _ Interface = (*Client)(nil)

// NewClient creates a Helm client using the provided kubeconfig and context.
func NewClient(kubeConfig, kubeContext string) (*Client, error) {
	return newClient(kubeConfig, kubeContext, nil)
}

func newClient(
	kubeConfig, kubeContext string,
	debug func(string, ...any),
) (*Client, error) {
	debugLog := debug
	if debugLog == nil {
		debugLog = func(string, ...any) {}
	}

	settings := helmv4cli.New()
	if kubeConfig != "" {
		settings.KubeConfig = kubeConfig
	}

	if kubeContext != "" {
		settings.KubeContext = kubeContext
	}

	actionConfig := new(helmv4action.Configuration)

	initErr := actionConfig.Init(
		settings.RESTClientGetter(),
		settings.Namespace(),
		os.Getenv("HELM_DRIVER"),
	)
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize helm v4 action config: %w", initErr)
	}

	return &Client{
		actionConfig: actionConfig,
		settings:     settings,
		kubeConfig:   kubeConfig,
		kubeContext:  kubeContext,
		debugLog:     debugLog,
	}, nil
}

// InstallChart installs a Helm chart using the provided specification.
func (c *Client) InstallChart(ctx context.Context, spec *ChartSpec) (*ReleaseInfo, error) {
	return c.installRelease(ctx, spec, false)
}

// InstallOrUpgradeChart upgrades a Helm chart when present and installs it otherwise.
func (c *Client) InstallOrUpgradeChart(ctx context.Context, spec *ChartSpec) (*ReleaseInfo, error) {
	return c.installRelease(ctx, spec, true)
}

// UninstallRelease removes a Helm release by name within the provided namespace.
func (c *Client) UninstallRelease(ctx context.Context, releaseName, namespace string) error {
	if releaseName == "" {
		return errReleaseNameRequired
	}

	ctxErr := ctx.Err()
	if ctxErr != nil {
		return fmt.Errorf("uninstall release context cancelled: %w", ctxErr)
	}

	cleanup, err := c.switchNamespace(namespace)
	if err != nil {
		return err
	}
	defer cleanup()

	client := helmv4action.NewUninstall(c.actionConfig)
	client.KeepHistory = false

	_, uninstallErr := client.Run(releaseName)
	if uninstallErr != nil {
		return fmt.Errorf("uninstall release %q: %w", releaseName, uninstallErr)
	}

	return nil
}

// GetReleaseInfo returns metadata about the latest revision of a release.
// Returns ErrReleaseNotFound when the release has no history in the given
// namespace, which callers use to distinguish "not installed" from failures.
func (c *Client) GetReleaseInfo(
	ctx context.Context,
	releaseName, namespace string,
) (*ReleaseInfo, error) {
	if releaseName == "" {
		return nil, errReleaseNameRequired
	}

	ctxErr := ctx.Err()
	if ctxErr != nil {
		return nil, fmt.Errorf("get release info context cancelled: %w", ctxErr)
	}

	cleanup, err := c.switchNamespace(namespace)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	histClient := helmv4action.NewHistory(c.actionConfig)
	histClient.Max = 1

	releases, histErr := histClient.Run(releaseName)
	if histErr != nil || len(releases) == 0 {
		return nil, fmt.Errorf("%w: %s in namespace %s", ErrReleaseNotFound, releaseName, namespace)
	}

	rel, ok := releases[0].(*v1.Release)
	if !ok {
		return nil, fmt.Errorf("unexpected release type: %T", releases[0])
	}

	return releaseToInfo(rel), nil
}

// TemplateChart renders the chart templates locally and returns the combined
// manifest. Used to extract image references without touching the cluster.
func (c *Client) TemplateChart(ctx context.Context, spec *ChartSpec) (string, error) {
	if spec == nil {
		return "", errChartSpecRequired
	}

	client := helmv4action.NewInstall(c.actionConfig)
	client.ReleaseName = spec.ReleaseName
	client.Namespace = spec.Namespace
	client.Version = spec.Version
	client.DryRunStrategy = helmv4action.DryRunClient
	client.Replace = true

	chart, err := c.locateAndLoadChart(spec, client)
	if err != nil {
		return "", err
	}

	vals, err := chartValues(spec)
	if err != nil {
		return "", err
	}

	releaser, err := client.RunWithContext(ctx, chart, vals)
	if err != nil {
		return "", fmt.Errorf("template chart %q: %w", spec.ChartName, err)
	}

	rel, ok := releaser.(*v1.Release)
	if !ok {
		return "", fmt.Errorf("unexpected release type: %T", releaser)
	}

	return rel.Manifest, nil
}

func (c *Client) installRelease(
	ctx context.Context,
	spec *ChartSpec,
	upgrade bool,
) (*ReleaseInfo, error) {
	if spec == nil {
		return nil, errChartSpecRequired
	}

	cleanup, err := c.switchNamespace(spec.Namespace)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	// Check if release exists when doing upgrade
	var rel *v1.Release

	if upgrade {
		histClient := helmv4action.NewHistory(c.actionConfig)
		histClient.Max = 1

		releases, histErr := histClient.Run(spec.ReleaseName)
		if histErr == nil && len(releases) > 0 {
			rel, err = c.upgradeRelease(ctx, spec)
		} else {
			rel, err = c.performInstall(ctx, spec)
		}
	} else {
		rel, err = c.performInstall(ctx, spec)
	}

	if err != nil {
		return nil, err
	}

	return releaseToInfo(rel), nil
}

func (c *Client) performInstall(ctx context.Context, spec *ChartSpec) (*v1.Release, error) {
	client := helmv4action.NewInstall(c.actionConfig)
	client.ReleaseName = spec.ReleaseName
	client.Namespace = spec.Namespace
	client.CreateNamespace = spec.CreateNamespace

	if spec.Wait {
		client.WaitStrategy = helmv4kube.StatusWatcherStrategy
	}

	client.WaitForJobs = spec.WaitForJobs

	client.Timeout = spec.Timeout
	if client.Timeout == 0 {
		client.Timeout = DefaultTimeout
	}

	// Note: Atomic is not supported in Helm v4 Install action
	client.Version = spec.Version

	chart, err := c.locateAndLoadChart(spec, client)
	if err != nil {
		return nil, err
	}

	vals, err := chartValues(spec)
	if err != nil {
		return nil, err
	}

	run := func() (any, error) {
		return client.RunWithContext(ctx, chart, vals)
	}

	var releaser any
	if spec.Silent {
		releaser, err = runWithSilencedStderr(run)
	} else {
		releaser, err = run()
	}

	if err != nil {
		return nil, fmt.Errorf("install chart %q: %w", spec.ChartName, err)
	}

	rel, ok := releaser.(*v1.Release)
	if !ok {
		return nil, fmt.Errorf("unexpected release type: %T", releaser)
	}

	return rel, nil
}

func (c *Client) upgradeRelease(ctx context.Context, spec *ChartSpec) (*v1.Release, error) {
	client := helmv4action.NewUpgrade(c.actionConfig)
	client.Namespace = spec.Namespace

	if spec.Wait {
		client.WaitStrategy = helmv4kube.StatusWatcherStrategy
	}

	client.WaitForJobs = spec.WaitForJobs

	client.Timeout = spec.Timeout
	if client.Timeout == 0 {
		client.Timeout = DefaultTimeout
	}

	// Note: Atomic is not supported in Helm v4 Upgrade action
	client.Version = spec.Version
	client.SkipCRDs = !spec.UpgradeCRDs // Inverted logic in v4

	chart, err := c.locateAndLoadChart(spec, client)
	if err != nil {
		return nil, err
	}

	vals, err := chartValues(spec)
	if err != nil {
		return nil, err
	}

	run := func() (any, error) {
		return client.RunWithContext(ctx, spec.ReleaseName, chart, vals)
	}

	var releaser any
	if spec.Silent {
		releaser, err = runWithSilencedStderr(run)
	} else {
		releaser, err = run()
	}

	if err != nil {
		return nil, fmt.Errorf("upgrade release %q: %w", spec.ReleaseName, err)
	}

	rel, ok := releaser.(*v1.Release)
	if !ok {
		return nil, fmt.Errorf("unexpected release type: %T", releaser)
	}

	return rel, nil
}

func (c *Client) locateAndLoadChart(spec *ChartSpec, client any) (*chartv2.Chart, error) {
	var (
		chartPath string
		err       error
	)

	if spec.RepoURL != "" {
		chartPath, err = c.locateChartFromRepo(spec, client)
	} else {
		// Local paths and oci:// references load directly.
		chartPath = spec.ChartName
	}

	if err != nil {
		return nil, err
	}

	chartInterface, err := helmv4loader.Load(chartPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart: %w", err)
	}

	chart, ok := chartInterface.(*chartv2.Chart)
	if !ok {
		return nil, fmt.Errorf("unexpected chart type: %T", chartInterface)
	}

	return chart, nil
}

func (c *Client) locateChartFromRepo(spec *ChartSpec, client any) (string, error) {
	_, chartName := parseChartRef(spec.ChartName)
	if chartName == "" {
		chartName = spec.ChartName
	}

	// Set ChartPathOptions for the action client
	switch cl := client.(type) {
	case *helmv4action.Install:
		applyChartPathOptions(&cl.ChartPathOptions, spec)
	case *helmv4action.Upgrade:
		applyChartPathOptions(&cl.ChartPathOptions, spec)
	}

	options := []repov1.FindChartInRepoURLOption{
		repov1.WithChartVersion(spec.Version),
	}

	if spec.Username != "" || spec.Password != "" {
		options = append(options, repov1.WithUsernamePassword(spec.Username, spec.Password))
	}

	if spec.CertFile != "" || spec.KeyFile != "" || spec.CaFile != "" {
		options = append(options, repov1.WithClientTLS(spec.CertFile, spec.KeyFile, spec.CaFile))
	}

	if spec.InsecureSkipTLSverify {
		options = append(options, repov1.WithInsecureSkipTLSVerify(spec.InsecureSkipTLSverify))
	}

	chartURL, err := repov1.FindChartInRepoURL(
		spec.RepoURL,
		chartName,
		helmv4getter.All(c.settings),
		options...,
	)
	if err != nil {
		return "", fmt.Errorf(
			"failed to locate chart %q in repository %s: %w",
			chartName,
			spec.RepoURL,
			err,
		)
	}

	return chartURL, nil
}

func applyChartPathOptions(opts *helmv4action.ChartPathOptions, spec *ChartSpec) {
	opts.RepoURL = spec.RepoURL
	opts.Username = spec.Username
	opts.Password = spec.Password
	opts.CertFile = spec.CertFile
	opts.KeyFile = spec.KeyFile
	opts.CaFile = spec.CaFile
	opts.InsecureSkipTLSVerify = spec.InsecureSkipTLSverify
}

func (c *Client) switchNamespace(namespace string) (func(), error) {
	if namespace == "" {
		return func() {}, nil
	}

	previousNamespace := c.settings.Namespace()
	if previousNamespace == namespace {
		return func() {}, nil
	}

	c.settings.SetNamespace(namespace)

	reinitErr := c.actionConfig.Init(
		c.settings.RESTClientGetter(),
		namespace,
		os.Getenv("HELM_DRIVER"),
	)
	if reinitErr != nil {
		c.settings.SetNamespace(previousNamespace)
		_ = c.actionConfig.Init(
			c.settings.RESTClientGetter(),
			previousNamespace,
			os.Getenv("HELM_DRIVER"),
		)

		return nil, fmt.Errorf("failed to set helm namespace %q: %w", namespace, reinitErr)
	}

	return func() {
		c.settings.SetNamespace(previousNamespace)

		restoreErr := c.actionConfig.Init(
			c.settings.RESTClientGetter(),
			previousNamespace,
			os.Getenv("HELM_DRIVER"),
		)
		if restoreErr != nil {
			c.debugLog("failed to restore helm namespace: %v", restoreErr)
		}
	}, nil
}

func parseChartRef(chartRef string) (string, string) {
	parts := strings.SplitN(chartRef, "/", chartRefParts)
	if len(parts) == 1 {
		return "", parts[0]
	}

	return parts[0], parts[1]
}

func releaseToInfo(rel *v1.Release) *ReleaseInfo {
	if rel == nil {
		return nil
	}

	return &ReleaseInfo{
		Name:       rel.Name,
		Namespace:  rel.Namespace,
		Revision:   rel.Version,
		Status:     rel.Info.Status.String(),
		Chart:      rel.Chart.Metadata.Name,
		AppVersion: rel.Chart.Metadata.AppVersion,
		Updated:    rel.Info.LastDeployed,
		Notes:      rel.Info.Notes,
	}
}

// runWithSilencedStderr redirects process stderr into a buffer for the
// duration of the operation. Helm's kube client writes wait progress straight
// to stderr, which would corrupt the structured command output. The captured
// logs are appended to the error on failure so nothing is lost.
func runWithSilencedStderr(operation func() (any, error)) (result any, err error) {
	readPipe, writePipe, pipeErr := os.Pipe()
	if pipeErr != nil {
		return operation()
	}

	stderrCaptureMu.Lock()
	defer stderrCaptureMu.Unlock()

	originalStderr := os.Stderr

	var (
		stderrBuffer bytes.Buffer
		waitGroup    sync.WaitGroup
	)

	waitGroup.Add(1)

	go func() {
		defer waitGroup.Done()

		_, _ = io.Copy(&stderrBuffer, readPipe)
	}()

	os.Stderr = writePipe

	defer func() {
		_ = writePipe.Close()

		waitGroup.Wait()

		_ = readPipe.Close()
		os.Stderr = originalStderr

		if err != nil {
			logs := strings.TrimSpace(stderrBuffer.String())
			if logs != "" {
				err = fmt.Errorf("%w: %s", err, logs)
			}
		}
	}()

	result, err = operation()

	return result, err
}
