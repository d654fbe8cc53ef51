package validator

// Validator validates configurations of type T.
type Validator[T any] interface {
	// Validate checks the configuration and returns a structured result.
	Validate(config T) *ValidationResult
}

// FileLocation identifies where in a configuration file a problem was found.
type FileLocation struct {
	// File is the path to the configuration file.
	File string
	// Line is the 1-based line number, or 0 when unknown.
	Line int
	// Column is the 1-based column number, or 0 when unknown.
	Column int
}

// ValidationError describes a single validation problem with enough context
// for users to fix it.
type ValidationError struct {
	// Field is the configuration field path (e.g. "spec.cluster.name").
	Field string
	// Message describes what is wrong.
	Message string
	// CurrentValue is the offending value, when available.
	CurrentValue string
	// ExpectedValue is the value or format that was expected, when available.
	ExpectedValue string
	// FixSuggestion tells the user how to resolve the problem.
	FixSuggestion string
	// Location points at the file position of the problem, when known.
	Location *FileLocation
}

// ValidationResult aggregates errors and warnings from validating a single
// configuration.
type ValidationResult struct {
	// Valid is true while no errors have been recorded.
	Valid bool
	// FilePath is the configuration file the result refers to.
	FilePath string
	// Errors are fatal validation problems.
	Errors []ValidationError
	// Warnings are non-fatal problems the user should know about.
	Warnings []ValidationError
}

// NewValidationResult creates a valid, empty result for the given config file path.
func NewValidationResult(filePath string) *ValidationResult {
	return &ValidationResult{
		Valid:    true,
		FilePath: filePath,
		Errors:   nil,
		Warnings: nil,
	}
}

// AddError records a validation error and marks the result invalid.
func (r *ValidationResult) AddError(validationError ValidationError) {
	r.Errors = append(r.Errors, validationError)
	r.Valid = false
}

// AddWarning records a non-fatal validation warning.
func (r *ValidationResult) AddWarning(warning ValidationError) {
	r.Warnings = append(r.Warnings, warning)
}
