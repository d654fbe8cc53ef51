package loader_test

import (
	"testing"

	"github.com/k8s-rollouts/devctl/pkg/io/config-manager/loader"
	"github.com/k8s-rollouts/devctl/pkg/io/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidationSummaryError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		errorCount   int
		warningCount int
		expected     string
	}{
		{
			name:       "errors_only",
			errorCount: 2,
			expected:   "config validation failed: 2 error(s)",
		},
		{
			name:         "errors_and_warnings",
			errorCount:   1,
			warningCount: 3,
			expected:     "config validation failed: 1 error(s), 3 warning(s)",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := loader.NewValidationSummaryError(testCase.errorCount, testCase.warningCount)

			require.ErrorIs(t, err, loader.ErrConfigValidation)
			assert.Equal(t, testCase.expected, err.Error())
		})
	}
}

func TestFormatValidationErrorsMultiline(t *testing.T) {
	t.Parallel()

	result := validator.NewValidationResult("devctl.yaml")
	result.AddError(validator.ValidationError{
		Field:   "kind",
		Message: "kind is required",
	})
	result.AddError(validator.ValidationError{
		Field:         "spec.cluster.provisioner",
		Message:       "provisioner is not supported",
		CurrentValue:  "docker-desktop",
		ExpectedValue: "Minikube, Kind",
		FixSuggestion: "Set provisioner to 'Minikube' or 'Kind'",
	})

	formatted := loader.FormatValidationErrorsMultiline(result)

	assert.Contains(t, formatted, "kind: kind is required")
	assert.Contains(
		t,
		formatted,
		`spec.cluster.provisioner: provisioner is not supported (got "docker-desktop", expected Minikube, Kind)`,
	)
	assert.Contains(t, formatted, "fix: Set provisioner to 'Minikube' or 'Kind'")
}

func TestFormatValidationErrorsMultiline_Empty(t *testing.T) {
	t.Parallel()

	result := validator.NewValidationResult("devctl.yaml")

	assert.Empty(t, loader.FormatValidationErrorsMultiline(result))
}

func TestFormatValidationWarnings(t *testing.T) {
	t.Parallel()

	result := validator.NewValidationResult("devctl.yaml")
	result.AddWarning(validator.ValidationError{
		Field:   "spec.gitops.repoURL",
		Message: "repository URL is empty, gitops commands will fail",
	})
	result.AddWarning(validator.ValidationError{
		Message: "general warning",
	})

	warnings := loader.FormatValidationWarnings(result)

	require.Len(t, warnings, 2)
	assert.Equal(
		t,
		"spec.gitops.repoURL: repository URL is empty, gitops commands will fail",
		warnings[0],
	)
	assert.Equal(t, "general warning", warnings[1])
	assert.True(t, result.Valid, "warnings must not invalidate the result")
}
