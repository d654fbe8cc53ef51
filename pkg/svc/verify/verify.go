package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
)

// Status classifies the outcome of one check.
type Status string

// Check outcomes.
const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// Result is the outcome of one named check.
type Result struct {
	Suite  string `json:"suite"`
	Name   string `json:"name"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Suite is a named group of checks.
type Suite interface {
	// Name returns the suite name as used on the CLI.
	Name() string
	// Run executes the suite's checks. Check failures are reported in the
	// results, not as an error; an error means the suite could not run at all.
	Run(ctx context.Context) []Result
}

// pass builds a passing result.
func pass(suite, name string) Result {
	return Result{Suite: suite, Name: name, Status: StatusPass}
}

// fail builds a failing result with a detail message.
func fail(suite, name, format string, args ...any) Result {
	return Result{
		Suite:  suite,
		Name:   name,
		Status: StatusFail,
		Detail: fmt.Sprintf(format, args...),
	}
}

// skip builds a skipped result with a reason.
func skip(suite, name, format string, args ...any) Result {
	return Result{
		Suite:  suite,
		Name:   name,
		Status: StatusSkip,
		Detail: fmt.Sprintf(format, args...),
	}
}

// Run executes the suites in order and returns all results.
func Run(ctx context.Context, suites ...Suite) []Result {
	var results []Result

	for _, suite := range suites {
		results = append(results, suite.Run(ctx)...)
	}

	return results
}

// Failed reports whether any result failed.
func Failed(results []Result) bool {
	for _, result := range results {
		if result.Status == StatusFail {
			return true
		}
	}

	return false
}

// Render writes one notify line per result plus a summary line.
func Render(writer io.Writer, results []Result) {
	passed, failed, skipped := 0, 0, 0

	for _, result := range results {
		label := result.Suite + "/" + result.Name

		switch result.Status {
		case StatusPass:
			passed++

			notify.Successf(writer, "%s", label)
		case StatusFail:
			failed++

			detail := result.Detail
			if detail == "" {
				detail = "check failed"
			}

			notify.Errorf(writer, "%s: %s", label, detail)
		case StatusSkip:
			skipped++

			notify.Skipf(writer, "%s: %s", label, result.Detail)
		}
	}

	notify.Infof(writer, "%d passed, %d failed, %d skipped", passed, failed, skipped)
}

// RenderJSON writes the results as a JSON array.
func RenderJSON(writer io.Writer, results []Result) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(results)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	return nil
}
