package setup

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldRole is the semantic role of a configuration field, inferred from
// its key name suffix.
type FieldRole int

const (
	// RoleFreeform applies no format constraint beyond the security checks.
	RoleFreeform FieldRole = iota
	// RoleServiceIDs is a comma-separated list of service identifiers.
	RoleServiceIDs
	// RoleDisplayNames is a comma-separated list of human-readable names.
	RoleDisplayNames
	// RolePurgeKeys is a comma-separated list of default surrogate keys.
	RolePurgeKeys
)

// Key suffixes that determine a field's role.
const (
	suffixServiceIDs   = "_SERVICE_IDS"
	suffixDisplayNames = "_SERVICE_NAMES"
	suffixPurgeKeys    = "_PURGE_KEYS"
)

var (
	identifierElement  = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	displayNameElement = regexp.MustCompile(`^[A-Za-z0-9 _-]+$`)
)

// RoleOf infers the field role from the key name suffix.
func RoleOf(key string) FieldRole {
	switch {
	case strings.HasSuffix(key, suffixServiceIDs):
		return RoleServiceIDs
	case strings.HasSuffix(key, suffixDisplayNames):
		return RoleDisplayNames
	case strings.HasSuffix(key, suffixPurgeKeys):
		return RolePurgeKeys
	default:
		return RoleFreeform
	}
}

// checkFormat enforces the expected shape of a comma-separated list field
// for the given role. Violations are errors: a malformed identifier cannot
// be tolerated since it will be used to build a purge request path.
func checkFormat(role FieldRole, value string) error {
	switch role {
	case RoleServiceIDs, RolePurgeKeys:
		return checkListElements(value, identifierElement, "letters, digits, underscore or hyphen")
	case RoleDisplayNames:
		return checkListElements(value, displayNameElement, "letters, digits, spaces, underscore or hyphen")
	default:
		return nil
	}
}

func checkListElements(value string, pattern *regexp.Regexp, expected string) error {
	for _, element := range strings.Split(value, ",") {
		element = strings.TrimSpace(element)
		if element == "" {
			return fmt.Errorf("empty list element")
		}
		if !pattern.MatchString(element) {
			return fmt.Errorf("element %q must contain only %s", element, expected)
		}
	}
	return nil
}
