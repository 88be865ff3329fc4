package purge

import (
	"fmt"
	"strings"

	"github.com/barlind/bleurgh/env"
)

// Environment variable names, with legacy fallbacks kept for configurations
// written by older releases.
var (
	tokenKeys = []string{"FASTLY_API_TOKEN", "FASTLY_TOKEN", "FASTLY_KEY"}

	serviceIDPatterns = []string{
		"FASTLY_%s_SERVICE_IDS",
		"FASTLY_SERVICE_IDS_%s",
		"FASTLY_%s_SERVICES",
	}
)

const (
	serviceNamesKey = "FASTLY_SERVICE_NAMES"
	defaultKeysKey  = "FASTLY_DEFAULT_PURGE_KEYS"
)

// APIToken resolves the Fastly API token, trying the current name first and
// legacy names after.
func APIToken(environ env.Environment) (string, error) {
	_, token := env.Lookup(environ, tokenKeys...)
	if token == "" {
		return "", fmt.Errorf("no Fastly API token found; set %s", tokenKeys[0])
	}
	return token, nil
}

// ServiceIDs resolves the service identifiers for a named environment,
// e.g. "dev" reads FASTLY_DEV_SERVICE_IDS (or a legacy variant).
func ServiceIDs(environ env.Environment, envName string) ([]string, error) {
	upper := strings.ToUpper(strings.TrimSpace(envName))
	if upper == "" {
		return nil, fmt.Errorf("environment name cannot be empty")
	}

	keys := make([]string, 0, len(serviceIDPatterns))
	for _, pattern := range serviceIDPatterns {
		keys = append(keys, fmt.Sprintf(pattern, upper))
	}

	key, value := env.Lookup(environ, keys...)
	if value == "" {
		return nil, fmt.Errorf("no services configured for environment %q; set %s", envName, keys[0])
	}

	ids := splitList(value)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s is set but contains no service ids", key)
	}
	return ids, nil
}

// ServiceNames returns the optional display names parallel to the service
// ID list. Missing or short lists are tolerated; callers fall back to IDs.
func ServiceNames(environ env.Environment) []string {
	return splitList(environ.Get(serviceNamesKey))
}

// DefaultPurgeKeys returns the surrogate keys purged when none are given on
// the command line.
func DefaultPurgeKeys(environ env.Environment) []string {
	return splitList(environ.Get(defaultKeysKey))
}

// DisplayName returns the display name for the i-th service, falling back
// to the service ID when no name is configured.
func DisplayName(names []string, i int, serviceID string) string {
	if i < len(names) && names[i] != "" {
		return names[i]
	}
	return serviceID
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
