package setup

import (
	"fmt"
	"regexp"

	"github.com/barlind/bleurgh/security"
)

// exportPattern is the exact shape a synthesized command must have. The
// quoted value may not contain a double quote, backslash or dollar sign,
// and the closing quote must be the final character, which also rejects
// any attempt to chain shell syntax after it.
var exportPattern = regexp.MustCompile(`^export (FASTLY_[A-Z0-9_]*)="([^"\\$]*)"$`)

// Synthesize converts a validated configuration into literal shell export
// statements, one per entry with a non-empty value. When allowList is
// non-empty, only listed keys are emitted. No escaping is performed here:
// values reaching this point already passed the pattern checks, and
// ValidateExportCommands enforces the safe shape again before anything is
// materialized.
func Synthesize(config Configuration, allowList []string) []string {
	allowed := map[string]bool{}
	for _, key := range allowList {
		allowed[key] = true
	}

	var commands []string
	for _, key := range config.Keys() {
		value := config[key]
		if value == "" {
			continue
		}
		if len(allowList) > 0 && !allowed[key] {
			continue
		}
		commands = append(commands, fmt.Sprintf(`export %s="%s"`, key, value))
	}
	return commands
}

// ValidateExportCommands is the defense-in-depth second pass: it treats the
// synthesized commands as opaque text and re-derives name and value through
// the strict export pattern, trusting nothing from upstream. Commands that
// match still get an escaping-based second opinion for the target shell
// family, recorded as warnings since stricter checks already passed
// upstream.
func ValidateExportCommands(commands []string, shell security.Family) ValidationResult {
	result := ValidationResult{}

	for _, command := range commands {
		m := exportPattern.FindStringSubmatch(command)
		if m == nil {
			result.addError("command %q does not match safe export pattern", command)
			continue
		}

		if security.NeedsEscaping(m[2], shell) {
			result.addWarning("%s: value would require shell escaping", m[1])
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}
