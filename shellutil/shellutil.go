// Package shellutil detects the user's shell and resolves the startup file
// that shell sources on launch.
package shellutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/barlind/bleurgh/security"
)

// Shell identifiers recognized by detection.
const (
	// ShellBash is the Bourne Again Shell (default on most Unix systems).
	ShellBash = "bash"

	// ShellZsh is the Z Shell (default on macOS).
	ShellZsh = "zsh"

	// ShellSh is the POSIX shell.
	ShellSh = "sh"

	// ShellCmd is the Windows Command Prompt.
	ShellCmd = "cmd"

	// ShellPowerShell is Windows PowerShell (5.1 and earlier).
	ShellPowerShell = "powershell"

	// ShellPwsh is PowerShell Core (6.0+, cross-platform).
	ShellPwsh = "pwsh"
)

// osWindows identifies the Windows operating system.
const osWindows = "windows"

// Shell describes a detected shell: its name, the escaping family it
// belongs to, and how it was identified.
type Shell struct {
	Name   string
	Family security.Family
	Method string
}

// Detect identifies the current shell. Detection priority:
//  1. $SHELL environment variable
//  2. Parent process name (via gopsutil)
//  3. OS default (Windows: cmd, Unix: bash)
//
// Detection never fails; unknown shells fall back to the OS default family.
func Detect() Shell {
	if path := os.Getenv("SHELL"); path != "" {
		if name := normalizeShellName(filepath.Base(path)); name != "" {
			return Shell{Name: name, Family: familyOf(name), Method: "$SHELL"}
		}
	}

	if name := parentProcessShell(); name != "" {
		return Shell{Name: name, Family: familyOf(name), Method: "parent process"}
	}

	if runtime.GOOS == osWindows {
		return Shell{Name: ShellCmd, Family: security.FamilyCmd, Method: "os default"}
	}
	return Shell{Name: ShellBash, Family: security.FamilyBash, Method: "os default"}
}

// parentProcessShell walks up the process tree looking for a known shell.
// Returns "" when no shell ancestor is found or process inspection fails.
func parentProcessShell() string {
	proc, err := process.NewProcess(int32(os.Getppid()))
	if err != nil {
		return ""
	}

	// Bounded walk; deep trees mean we are not under an interactive shell.
	for depth := 0; depth < 5 && proc != nil; depth++ {
		name, err := proc.Name()
		if err != nil {
			return ""
		}
		if shell := normalizeShellName(name); shell != "" {
			return shell
		}
		proc, err = proc.Parent()
		if err != nil {
			return ""
		}
	}

	return ""
}

// normalizeShellName maps a process or binary name to a known shell
// identifier, or "" when unrecognized.
func normalizeShellName(name string) string {
	name = strings.ToLower(strings.TrimSuffix(name, ".exe"))
	// Login shells are prefixed with a dash (e.g. "-zsh").
	name = strings.TrimPrefix(name, "-")

	switch name {
	case ShellBash, ShellZsh, ShellSh, ShellCmd, ShellPowerShell, ShellPwsh:
		return name
	default:
		return ""
	}
}

// familyOf maps a shell identifier to its escaping family. Bash-compatible
// shells are treated uniformly.
func familyOf(name string) security.Family {
	switch name {
	case ShellCmd:
		return security.FamilyCmd
	case ShellPowerShell, ShellPwsh:
		return security.FamilyPowerShell
	default:
		return security.FamilyBash
	}
}

// StartupFile resolves the startup file the given shell sources on launch,
// relative to the user's home directory. cmd has no startup file; callers
// should fall back to printing instructions.
func StartupFile(shell Shell) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	switch shell.Name {
	case ShellBash, ShellSh:
		return filepath.Join(home, ".bashrc"), nil
	case ShellZsh:
		return filepath.Join(home, ".zshrc"), nil
	case ShellPwsh:
		if runtime.GOOS == osWindows {
			return filepath.Join(home, "Documents", "PowerShell", "Microsoft.PowerShell_profile.ps1"), nil
		}
		return filepath.Join(home, ".config", "powershell", "Microsoft.PowerShell_profile.ps1"), nil
	case ShellPowerShell:
		return filepath.Join(home, "Documents", "WindowsPowerShell", "Microsoft.PowerShell_profile.ps1"), nil
	case ShellCmd:
		return "", fmt.Errorf("cmd has no startup file")
	default:
		return filepath.Join(home, ".profile"), nil
	}
}
