// Package validator lints state machine definitions beyond the structural
// checks performed when they are loaded.
package validator

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/alitto/pond/v2"
	"github.com/amp-labs/amp-fsm/definition"
)

// ValidationResult contains the results of validating a definition.
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// ValidationError represents a problem that would make the class unusable.
type ValidationError struct {
	Code     string   // Error code like "MISSING_TARGET", "INVALID_CONDITION"
	Message  string   // Human-readable error message
	Location Location // Where the error occurred
}

// ValidationWarning represents a non-critical issue.
type ValidationWarning struct {
	Code     string   // Warning code
	Message  string   // Human-readable warning message
	Location Location // Where the warning occurred
}

// Location identifies where an issue occurred.
type Location struct {
	File   string // Definition file path
	Method string // Method name if applicable
	State  string // State name if applicable
}

// FileResult is the validation outcome of one file.
type FileResult struct {
	Path   string
	Result ValidationResult
	Err    error // load failure; Result then carries a LOAD_FAILED error
}

// Validate performs comprehensive validation on a definition.
func Validate(def *definition.Definition) ValidationResult {
	return ValidateWithRules(def, DefaultRules())
}

// ValidateStrict validates and treats warnings as errors.
func ValidateStrict(def *definition.Definition) ValidationResult {
	return ValidateWithRulesStrict(def, DefaultRules())
}

// ValidateFile loads a definition from a file and validates it.
func ValidateFile(path string) (ValidationResult, error) {
	return ValidateFileWithOptions(path, false)
}

// ValidateFileWithOptions loads a definition from a file and validates it.
// The file is parsed without structural validation so every problem is
// reported, not only the first.
func ValidateFileWithOptions(path string, strict bool) (ValidationResult, error) {
	def, err := definition.ParseFile(path)
	if err != nil {
		return ValidationResult{
			Valid: false,
			Errors: []ValidationError{
				{
					Code:     "LOAD_FAILED",
					Message:  fmt.Sprintf("Failed to load definition: %v", err),
					Location: Location{File: path},
				},
			},
		}, err
	}

	var result ValidationResult
	if strict {
		result = ValidateStrict(def)
	} else {
		result = Validate(def)
	}

	// Set file location for all errors and warnings
	for i := range result.Errors {
		if result.Errors[i].Location.File == "" {
			result.Errors[i].Location.File = path
		}
	}

	for i := range result.Warnings {
		if result.Warnings[i].Location.File == "" {
			result.Warnings[i].Location.File = path
		}
	}

	return result, nil
}

// ValidateFiles validates many files concurrently. Results follow the order
// of paths.
func ValidateFiles(paths []string, strict bool) []FileResult {
	if len(paths) == 0 {
		return nil
	}

	pool := pond.NewResultPool[FileResult](min(len(paths), runtime.GOMAXPROCS(0)))
	defer pool.StopAndWait()

	group := pool.NewGroup()

	for _, path := range paths {
		group.Submit(func() FileResult {
			result, err := ValidateFileWithOptions(path, strict)

			return FileResult{Path: path, Result: result, Err: err}
		})
	}

	// Tasks never return errors; load failures are carried in FileResult.
	results, _ := group.Wait()

	return results
}

// ValidateWithRules validates using custom rules.
func ValidateWithRules(def *definition.Definition, rules []Rule) ValidationResult {
	var result ValidationResult

	for _, rule := range rules {
		ruleResult := rule.Check(def)
		result.Errors = append(result.Errors, ruleResult.Errors...)
		result.Warnings = append(result.Warnings, ruleResult.Warnings...)
	}

	result.Valid = len(result.Errors) == 0

	return result
}

// ValidateWithRulesStrict validates with strict mode (treats warnings as errors).
func ValidateWithRulesStrict(def *definition.Definition, rules []Rule) ValidationResult {
	result := ValidateWithRules(def, rules)

	for _, warning := range result.Warnings {
		result.Errors = append(result.Errors, ValidationError(warning))
	}

	// Clear warnings since they're now errors
	result.Warnings = nil
	result.Valid = len(result.Errors) == 0

	return result
}

// HasErrors returns true if the result has any errors.
func (r ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if the result has any warnings.
func (r ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Codes returns all error and warning codes, errors first.
func (r ValidationResult) Codes() []string {
	codes := make([]string, 0, len(r.Errors)+len(r.Warnings))

	for _, err := range r.Errors {
		codes = append(codes, err.Code)
	}

	for _, warn := range r.Warnings {
		codes = append(codes, warn.Code)
	}

	return codes
}

// String returns a human-readable summary of validation results.
func (r ValidationResult) String() string {
	var sb strings.Builder

	if r.Valid {
		sb.WriteString("✓ Definition is valid\n")
	} else {
		sb.WriteString(fmt.Sprintf("✗ Definition has %d error(s)\n", len(r.Errors)))

		for _, err := range r.Errors {
			sb.WriteString(fmt.Sprintf("  [%s] %s%s\n", err.Code, err.Message, err.Location.suffix()))
		}
	}

	if len(r.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("⚠ %d warning(s):\n", len(r.Warnings)))

		for _, warn := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  [%s] %s%s\n", warn.Code, warn.Message, warn.Location.suffix()))
		}
	}

	return sb.String()
}

func (l Location) suffix() string {
	switch {
	case l.Method != "":
		return fmt.Sprintf(" (method: %s)", l.Method)
	case l.State != "":
		return fmt.Sprintf(" (state: %s)", l.State)
	default:
		return ""
	}
}
