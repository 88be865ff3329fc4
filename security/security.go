// Package security provides stateless predicates for detecting content that
// would be dangerous if interpolated unescaped into a shell command or written
// verbatim into a file that is later sourced by a shell.
package security

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrShellMetacharacter indicates a value contains a shell metacharacter.
	ErrShellMetacharacter = errors.New("shell metacharacter detected")
	// ErrCommandSubstitution indicates $(...)- or backtick-style command substitution.
	ErrCommandSubstitution = errors.New("command substitution detected")
	// ErrRedirection indicates a shell redirection operator.
	ErrRedirection = errors.New("redirection operator detected")
	// ErrPathTraversal indicates a path traversal sequence.
	ErrPathTraversal = errors.New("path traversal detected")
	// ErrControlCharacter indicates a NUL byte or other control character.
	ErrControlCharacter = errors.New("control character detected")
	// ErrUnsafeForShell indicates the value would require shell escaping.
	ErrUnsafeForShell = errors.New("value requires shell escaping")
)

// shellMetacharacters are bytes a POSIX shell treats specially outside quotes.
var shellMetacharacters = []string{";", "&", "|", "`", "$", "(", ")", "{", "}", "[", "]", "<", ">"}

// redirectionOperators are multi-byte redirection forms checked in addition to
// the single-character metacharacters above.
var redirectionOperators = []string{">>", "<<", ">&", "<&"}

// CheckOptions adjusts the per-field behavior of the pattern checks.
type CheckOptions struct {
	// DisplayName marks a human-readable name field. Spaces are legitimate
	// in display names, so the escaping check tolerates escaping that is
	// required solely for literal spaces. Every other check still applies.
	DisplayName bool

	// Shell selects the escaping strategy used by the escaping-based
	// detection. When empty, the bash-compatible family is used.
	Shell Family
}

// CheckValue runs every blocking pattern check against a single value.
// It returns nil when the value is safe, or the first matching sentinel
// error wrapped with a description of what was found.
func CheckValue(value string, opts CheckOptions) error {
	if err := checkControlCharacters(value); err != nil {
		return err
	}
	if err := checkCommandSubstitution(value); err != nil {
		return err
	}
	if err := checkRedirection(value); err != nil {
		return err
	}
	if err := checkMetacharacters(value); err != nil {
		return err
	}
	if strings.Contains(value, "../") {
		return fmt.Errorf("%w: contains \"../\"", ErrPathTraversal)
	}
	return checkEscaping(value, opts)
}

func checkMetacharacters(value string) error {
	for _, ch := range shellMetacharacters {
		if strings.Contains(value, ch) {
			return fmt.Errorf("%w: %q", ErrShellMetacharacter, ch)
		}
	}
	return nil
}

func checkCommandSubstitution(value string) error {
	if strings.Contains(value, "$(") {
		return fmt.Errorf("%w: contains \"$(\"", ErrCommandSubstitution)
	}
	if strings.Contains(value, "`") {
		return fmt.Errorf("%w: contains backtick", ErrCommandSubstitution)
	}
	return nil
}

func checkRedirection(value string) error {
	for _, op := range redirectionOperators {
		if strings.Contains(value, op) {
			return fmt.Errorf("%w: %q", ErrRedirection, op)
		}
	}
	return nil
}

// checkControlCharacters rejects NUL bytes and the control ranges
// 0x00-0x08, 0x0B, 0x0C, 0x0E-0x1F and 0x7F. Tab, LF and CR are left to
// the escaping and format layers.
func checkControlCharacters(value string) error {
	for i := 0; i < len(value); i++ {
		b := value[i]
		switch {
		case b == 0x00:
			return fmt.Errorf("%w: NUL byte at offset %d", ErrControlCharacter, i)
		case b <= 0x08, b == 0x0B, b == 0x0C, b >= 0x0E && b <= 0x1F, b == 0x7F:
			return fmt.Errorf("%w: byte 0x%02X at offset %d", ErrControlCharacter, b, i)
		}
	}
	return nil
}

// checkEscaping runs the shell-escaping-based detection: if escaping the
// value for the target shell family changes it, the value contains
// characters that shell would treat specially. Escaper failures never crash
// validation; the static checks above already ran, so the value is accepted
// on that basis alone.
func checkEscaping(value string, opts CheckOptions) error {
	esc := EscaperFor(opts.Shell)

	escaped, err := esc.Escape(value)
	if err != nil {
		return nil
	}
	if escaped == value {
		return nil
	}

	if opts.DisplayName {
		// Spaces are legitimate in display names. Accept the value when
		// removing them leaves nothing that needs escaping.
		stripped := strings.ReplaceAll(value, " ", "")
		if again, err := esc.Escape(stripped); err == nil && again == stripped {
			return nil
		}
	}

	return fmt.Errorf("%w (%s)", ErrUnsafeForShell, esc.Name())
}

// NeedsEscaping reports whether escaping value for the given shell family
// would change it. It is used as a non-blocking second opinion on content
// that already passed the stricter checks above. Escaper failures report
// false rather than propagating.
func NeedsEscaping(value string, shell Family) bool {
	esc := EscaperFor(shell)
	escaped, err := esc.Escape(value)
	if err != nil {
		return false
	}
	return escaped != value
}
