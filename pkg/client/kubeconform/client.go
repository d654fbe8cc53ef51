// Package kubeconform validates Kubernetes manifests against their JSON
// schemas through the kubeconform validator library. Resources without a
// published schema (CRDs like Rollout or AnalysisTemplate) are counted as
// skipped rather than failing validation.
package kubeconform

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yannh/kubeconform/pkg/validator"
)

// Client validates Kubernetes manifests.
type Client struct {
	validator validator.Validator
}

// Options configures schema validation.
type Options struct {
	// KubernetesVersion pins the schema version; "master" when empty.
	KubernetesVersion string
	// Strict rejects fields not present in the schema.
	Strict bool
	// SkipKinds lists kinds excluded from validation entirely.
	SkipKinds []string
}

// NewClient creates a validator against the default upstream schema registry.
func NewClient(opts Options) (*Client, error) {
	return NewClientWithSchemaLocations(nil, opts)
}

// NewClientWithSchemaLocations creates a validator against explicit schema
// locations (URL templates or local paths). Used in tests with local schema
// files.
func NewClientWithSchemaLocations(locations []string, opts Options) (*Client, error) {
	skipKinds := make(map[string]struct{}, len(opts.SkipKinds))
	for _, kind := range opts.SkipKinds {
		skipKinds[kind] = struct{}{}
	}

	inner, err := validator.New(locations, validator.Opts{
		KubernetesVersion:    kubernetesVersion(opts.KubernetesVersion),
		Strict:               opts.Strict,
		SkipKinds:            skipKinds,
		IgnoreMissingSchemas: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kubeconform validator: %w", err)
	}

	return &Client{validator: inner}, nil
}

// Report summarises a validation run.
type Report struct {
	Valid   int
	Invalid int
	Errors  int
	Skipped int

	// Problems carries one entry per invalid or errored resource.
	Problems []Problem
}

// Problem describes a resource that failed validation.
type Problem struct {
	File     string
	Resource string
	Message  string
}

// Failed reports whether any resource was invalid or errored.
func (r *Report) Failed() bool {
	return r.Invalid > 0 || r.Errors > 0
}

// Merge folds another report into this one.
func (r *Report) Merge(other Report) {
	r.Valid += other.Valid
	r.Invalid += other.Invalid
	r.Errors += other.Errors
	r.Skipped += other.Skipped
	r.Problems = append(r.Problems, other.Problems...)
}

// ValidateFile validates every document in a manifest file.
func (c *Client) ValidateFile(path string) (Report, error) {
	file, err := os.Open(path) //nolint:gosec // callers pass rendered manifest paths
	if err != nil {
		return Report{}, fmt.Errorf("failed to open manifest %s: %w", path, err)
	}

	defer func() { _ = file.Close() }()

	return c.validate(path, file), nil
}

// ValidateContent validates YAML content that may contain multiple documents.
// The name labels the content in problem reports.
func (c *Client) ValidateContent(name, content string) Report {
	return c.validate(name, io.NopCloser(strings.NewReader(content)))
}

func (c *Client) validate(name string, reader io.ReadCloser) Report {
	var report Report

	for _, result := range c.validator.Validate(name, reader) {
		switch result.Status {
		case validator.Valid:
			report.Valid++
		case validator.Invalid:
			report.Invalid++
			report.Problems = append(report.Problems, problem(name, result))
		case validator.Error:
			report.Errors++
			report.Problems = append(report.Problems, problem(name, result))
		case validator.Skipped:
			report.Skipped++
		case validator.Empty:
		}
	}

	return report
}

func problem(name string, result validator.Result) Problem {
	resourceName := "unknown resource"

	sig, err := result.Resource.Signature()
	if err == nil {
		resourceName = fmt.Sprintf("%s/%s", sig.Kind, sig.Name)
	}

	message := "validation failed"
	if result.Err != nil {
		message = result.Err.Error()
	}

	return Problem{File: name, Resource: resourceName, Message: message}
}

func kubernetesVersion(version string) string {
	if version == "" {
		return "master"
	}

	return version
}
