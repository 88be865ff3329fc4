package security

import "strings"

// Family identifies a shell escaping family. Bash-compatible shells (bash,
// zsh, sh) are treated uniformly; the Windows command shell and PowerShell
// have their own quoting rules and are recognized as distinct families.
type Family string

const (
	// FamilyBash covers bash, zsh, sh and other POSIX-compatible shells.
	FamilyBash Family = "bash"
	// FamilyCmd is the Windows command shell (cmd.exe).
	FamilyCmd Family = "cmd"
	// FamilyPowerShell covers Windows PowerShell and PowerShell Core.
	FamilyPowerShell Family = "powershell"
)

// Escaper quotes a value for safe use as a single shell word.
// Implementations return the input unchanged when no quoting is needed,
// which is what the escaping-based detection relies on.
type Escaper interface {
	Name() string
	Escape(value string) (string, error)
}

// EscaperFor returns the escaping strategy for a shell family, defaulting
// to the bash-compatible strategy for unrecognized families.
func EscaperFor(family Family) Escaper {
	switch family {
	case FamilyCmd:
		return cmdEscaper{}
	case FamilyPowerShell:
		return powerShellEscaper{}
	default:
		return bashEscaper{}
	}
}

// bashSafe are bytes that never need quoting in a POSIX shell word.
const bashSafe = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_@%+=:,./-"

type bashEscaper struct{}

func (bashEscaper) Name() string { return string(FamilyBash) }

func (bashEscaper) Escape(value string) (string, error) {
	if value == "" {
		return "''", nil
	}
	safe := true
	for i := 0; i < len(value); i++ {
		if !strings.ContainsRune(bashSafe, rune(value[i])) {
			safe = false
			break
		}
	}
	if safe {
		return value, nil
	}
	// Single-quote, closing and reopening around embedded single quotes.
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'", nil
}

// cmdSpecial are bytes cmd.exe treats specially outside double quotes.
const cmdSpecial = "&|<>^%\"! \t"

type cmdEscaper struct{}

func (cmdEscaper) Name() string { return string(FamilyCmd) }

func (cmdEscaper) Escape(value string) (string, error) {
	if value == "" {
		return `""`, nil
	}
	if !strings.ContainsAny(value, cmdSpecial) {
		return value, nil
	}
	escaped := strings.ReplaceAll(value, `"`, `""`)
	return `"` + escaped + `"`, nil
}

// psSpecial are bytes PowerShell treats specially in a bare word.
const psSpecial = "`$\"'&|<>(){}[];,@# \t"

type powerShellEscaper struct{}

func (powerShellEscaper) Name() string { return string(FamilyPowerShell) }

func (powerShellEscaper) Escape(value string) (string, error) {
	if value == "" {
		return "''", nil
	}
	if !strings.ContainsAny(value, psSpecial) {
		return value, nil
	}
	// Single quotes are literal in PowerShell except for the quote itself.
	return "'" + strings.ReplaceAll(value, "'", "''") + "'", nil
}
