package configmanager

import (
	"github.com/k8s-rollouts/devctl/pkg/io/config-manager/loader"
	"github.com/k8s-rollouts/devctl/pkg/io/validator"
	environmentvalidator "github.com/k8s-rollouts/devctl/pkg/io/validator/environment"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
)

// validateConfig runs validation on the loaded configuration.
func (m *ConfigManager) validateConfig() error {
	result := environmentvalidator.NewValidator().Validate(m.Config)

	if !result.Valid {
		errorMessages := loader.FormatValidationErrorsMultiline(result)
		notify.WriteMessage(notify.Message{
			Type:    notify.ErrorType,
			Content: "%s",
			Args:    []any{errorMessages},
			Writer:  m.Writer,
		})

		m.writeValidationWarnings(result)

		// Return validation summary error instead of full error stack
		return loader.NewValidationSummaryError(len(result.Errors), len(result.Warnings))
	}

	m.writeValidationWarnings(result)

	return nil
}

// writeValidationWarnings outputs all validation warnings to the configured writer.
func (m *ConfigManager) writeValidationWarnings(result *validator.ValidationResult) {
	warnings := loader.FormatValidationWarnings(result)
	for _, warning := range warnings {
		notify.WriteMessage(notify.Message{
			Type:    notify.WarningType,
			Content: warning,
			Writer:  m.Writer,
		})
	}
}
