// Package loader provides shared helpers for presenting configuration
// validation results to users.
package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/k8s-rollouts/devctl/pkg/io/validator"
)

// ErrConfigValidation is returned when configuration validation fails.
var ErrConfigValidation = errors.New("config validation failed")

// NewValidationSummaryError creates a summary error for a failed validation run.
// The full error details are expected to have been written to the user already,
// so the summary only carries the counts.
func NewValidationSummaryError(errorCount, warningCount int) error {
	if warningCount > 0 {
		return fmt.Errorf(
			"%w: %d error(s), %d warning(s)",
			ErrConfigValidation, errorCount, warningCount,
		)
	}

	return fmt.Errorf("%w: %d error(s)", ErrConfigValidation, errorCount)
}

// FormatValidationErrorsMultiline renders all errors in the result as a
// multiline string suitable for terminal output.
func FormatValidationErrorsMultiline(result *validator.ValidationResult) string {
	lines := make([]string, 0, len(result.Errors))
	for _, validationError := range result.Errors {
		lines = append(lines, formatValidationError(validationError))
	}

	return strings.Join(lines, "\n")
}

// FormatValidationWarnings renders each warning in the result as a single line.
func FormatValidationWarnings(result *validator.ValidationResult) []string {
	warnings := make([]string, 0, len(result.Warnings))
	for _, warning := range result.Warnings {
		warnings = append(warnings, formatValidationWarning(warning))
	}

	return warnings
}

func formatValidationError(validationError validator.ValidationError) string {
	var builder strings.Builder

	builder.WriteString(validationError.Field)
	builder.WriteString(": ")
	builder.WriteString(validationError.Message)

	if validationError.CurrentValue != "" {
		fmt.Fprintf(&builder, " (got %q", validationError.CurrentValue)

		if validationError.ExpectedValue != "" {
			fmt.Fprintf(&builder, ", expected %s", validationError.ExpectedValue)
		}

		builder.WriteString(")")
	}

	if validationError.FixSuggestion != "" {
		builder.WriteString("\n  fix: ")
		builder.WriteString(validationError.FixSuggestion)
	}

	return builder.String()
}

func formatValidationWarning(warning validator.ValidationError) string {
	if warning.Field == "" {
		return warning.Message
	}

	return warning.Field + ": " + warning.Message
}
