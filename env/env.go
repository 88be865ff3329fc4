// Package env abstracts the live process environment behind a small
// read-only interface so the diff engine and validators are unit-testable
// without process-global side effects.
package env

import (
	"os"
	"sort"
	"strings"
)

// Environment is a read-only view over environment variables.
type Environment interface {
	// Get returns the value for key, or "" when unset.
	Get(key string) string

	// KeysWithPrefix returns the set keys starting with prefix, sorted.
	KeysWithPrefix(prefix string) []string
}

// OS returns an Environment backed by the live process environment.
func OS() Environment {
	return osEnvironment{}
}

type osEnvironment struct{}

func (osEnvironment) Get(key string) string {
	return os.Getenv(key)
}

func (osEnvironment) KeysWithPrefix(prefix string) []string {
	var keys []string
	for _, entry := range os.Environ() {
		k, _, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Map is a map-backed Environment for tests and dry runs.
type Map map[string]string

func (m Map) Get(key string) string {
	return m[key]
}

func (m Map) KeysWithPrefix(prefix string) []string {
	var keys []string
	for k := range m {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the first non-empty value among the given keys. It backs
// the legacy naming fallbacks (newer key names are listed first).
func Lookup(environ Environment, keys ...string) (string, string) {
	for _, key := range keys {
		if v := environ.Get(key); v != "" {
			return key, v
		}
	}
	return "", ""
}
