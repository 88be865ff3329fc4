package setup

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/barlind/bleurgh/security"
)

// keyPattern is the naming contract: the namespace prefix followed by
// uppercase letters, digits and underscores only.
var keyPattern = regexp.MustCompile(`^FASTLY_[A-Z0-9_]*$`)

// ValidationResult is the aggregated outcome of a validation pass.
// Errors determine the verdict; warnings are advisory and never block.
type ValidationResult struct {
	Valid    bool     `json:"valid" yaml:"valid"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func (r *ValidationResult) addError(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) addWarning(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateOptions adjusts validation behavior.
type ValidateOptions struct {
	// Shell selects the escaping family for the escaping-based detection.
	// Empty means bash-compatible.
	Shell security.Family
}

// Validate runs the full validation pipeline over every entry of the
// configuration: key naming contract, value length cap, security pattern
// checks, advisory keyword scan and role-based format checks. The scan is
// exhaustive rather than fail-fast so the caller sees every problem at once.
// Entries with empty values are treated as not provided and skipped.
func Validate(config Configuration) ValidationResult {
	return ValidateWith(config, ValidateOptions{})
}

// ValidateWith is Validate with explicit options.
func ValidateWith(config Configuration, opts ValidateOptions) ValidationResult {
	result := ValidationResult{}

	for _, key := range config.Keys() {
		value := config[key]
		if value == "" {
			continue
		}

		// A malformed key is fatal for the entry; format and security
		// checks are skipped since the entry can never be exported.
		if !keyPattern.MatchString(key) {
			result.addError("%s: key must start with %s and contain only uppercase letters, digits and underscores", key, Prefix)
			continue
		}

		if len(value) > MaxValueLength {
			result.addError("%s: value exceeds maximum length of %d characters", key, MaxValueLength)
		}

		role := RoleOf(key)

		checkOpts := security.CheckOptions{
			DisplayName: role == RoleDisplayNames,
			Shell:       opts.Shell,
		}
		if err := security.CheckValue(value, checkOpts); err != nil {
			result.addError("%s: %v", key, err)
		}

		for _, hit := range security.ScanKeywords(value) {
			result.addWarning("%s: value contains suspicious keyword %q", key, hit)
		}

		if err := checkFormat(role, value); err != nil {
			result.addError("%s: %v", key, err)
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// JoinedErrors renders every error finding as a single string.
func (r ValidationResult) JoinedErrors() string {
	return strings.Join(r.Errors, "; ")
}
