package env

import "strings"

// credentialSegments are key-name segments that mark a variable as a
// credential. Credentials are never part of portable configurations and
// must never be echoed in diffs or summaries.
var credentialSegments = map[string]struct{}{
	"TOKEN":       {},
	"SECRET":      {},
	"PASSWORD":    {},
	"PASSWD":      {},
	"PASS":        {},
	"CREDENTIAL":  {},
	"CREDENTIALS": {},
	"KEY":         {},
	"PRIVATE":     {},
}

// IsCredentialKey reports whether key names a token- or credential-shaped
// variable. Keys are split on underscores and hyphens so that, for example,
// FASTLY_API_TOKEN and FASTLY_KEY match while FASTLY_DEFAULT_PURGE_KEYS
// does not.
func IsCredentialKey(key string) bool {
	upper := strings.ToUpper(strings.TrimSpace(key))
	if upper == "" {
		return false
	}
	segments := strings.FieldsFunc(upper, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for _, seg := range segments {
		if _, ok := credentialSegments[seg]; ok {
			return true
		}
	}
	return false
}
