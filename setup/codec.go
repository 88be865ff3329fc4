package setup

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration indicates the portable string is malformed:
	// not base64, or not the expected structured format. Raw parse errors
	// are never propagated to the caller.
	ErrInvalidConfiguration = errors.New("invalid setup configuration")

	// ErrSecurityValidation indicates the decoded configuration failed
	// validation. The wrapped message embeds every finding.
	ErrSecurityValidation = errors.New("security validation failed")
)

// Encode serializes the configuration into a portable, transport-safe
// opaque string: canonical JSON wrapped in standard base64.
func Encode(config Configuration) (string, error) {
	data, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode inverts Encode and gates the result through the validator: the
// caller never receives an unvalidated configuration. Advisory warnings are
// returned alongside the configuration for the caller to surface.
func Decode(encoded string) (Configuration, []string, error) {
	return DecodeWith(encoded, ValidateOptions{})
}

// DecodeWith is Decode with explicit validation options, letting callers
// that know the target shell validate for its escaping family.
func DecodeWith(encoded string, opts ValidateOptions) (Configuration, []string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: not a valid base64 string", ErrInvalidConfiguration)
	}

	var config Configuration
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, nil, fmt.Errorf("%w: not a valid configuration object", ErrInvalidConfiguration)
	}

	result := ValidateWith(config, opts)
	if !result.Valid {
		return nil, result.Warnings, fmt.Errorf("%w: %s", ErrSecurityValidation, result.JoinedErrors())
	}

	return config, result.Warnings, nil
}
