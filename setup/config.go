// Package setup implements the team configuration exchange: encoding a set
// of FASTLY_ environment variables into a portable string, and safely
// decoding, validating, diffing and materializing it on the receiving side.
package setup

import "sort"

// Prefix is the namespace prefix that legitimizes an environment-variable
// key for this tool.
const Prefix = "FASTLY_"

// MaxValueLength caps the length of a single configuration value.
const MaxValueLength = 1000

// Configuration maps environment-variable-style keys to opaque text values.
// Configurations are transient: constructed fresh per invocation and never
// mutated in place. Iteration uses sorted keys for deterministic output.
type Configuration map[string]string

// Keys returns the configuration keys in sorted order.
func (c Configuration) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
