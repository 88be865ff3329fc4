// Package cliout provides structured output formatting for CLI commands.
// It supports human-readable text, JSON and YAML output, with consistent
// styling using ANSI colors and Unicode symbols.
package cliout

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	// FormatDefault is the default human-readable format.
	FormatDefault Format = "default"
	// FormatJSON is JSON format.
	FormatJSON Format = "json"
	// FormatYAML is YAML format.
	FormatYAML Format = "yaml"
)

// ANSI color codes for consistent styling
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"

	BrightRed    = "\033[91m"
	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
	BrightBlue   = "\033[94m"
)

// Unicode symbols for modern CLI output
const (
	SymbolCheck   = "✓"
	SymbolCross   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
	SymbolDot     = "•"
)

// ASCII fallback symbols for terminals that don't support Unicode
const (
	ASCIICheck   = "[+]"
	ASCIICross   = "[-]"
	ASCIIWarning = "[!]"
	ASCIIInfo    = "[i]"
	ASCIIDot     = "*"
)

var (
	// mu protects global state variables
	mu sync.RWMutex

	globalFormat = FormatDefault
	noColor      = !term.IsTerminal(int(os.Stdout.Fd()))
)

// supportsUnicode detects if the terminal supports Unicode symbols.
var supportsUnicode = detectUnicodeSupport()

func detectUnicodeSupport() bool {
	if runtime.GOOS == "windows" {
		// Windows Terminal, VS Code and PowerShell handle Unicode fine;
		// plain cmd consoles often do not.
		return os.Getenv("WT_SESSION") != "" ||
			os.Getenv("TERM_PROGRAM") == "vscode" ||
			os.Getenv("PSModulePath") != "" ||
			os.Getenv("TERM") != ""
	}
	return true
}

// ForceColor enables color output regardless of terminal detection.
func ForceColor() {
	mu.Lock()
	noColor = false
	mu.Unlock()
}

// NoColor disables color output.
func NoColor() {
	mu.Lock()
	noColor = true
	mu.Unlock()
}

func paint(color string) string {
	mu.RLock()
	defer mu.RUnlock()
	if noColor {
		return ""
	}
	return color
}

func getIcon(unicode, ascii string) string {
	if supportsUnicode {
		return unicode
	}
	return ascii
}

// SetFormat sets the global output format.
func SetFormat(format string) error {
	mu.Lock()
	defer mu.Unlock()
	switch format {
	case "default", "":
		globalFormat = FormatDefault
	case "json":
		globalFormat = FormatJSON
	case "yaml":
		globalFormat = FormatYAML
	default:
		return fmt.Errorf("invalid output format: %s (valid options: default, json, yaml)", format)
	}
	return nil
}

// GetFormat returns the current output format.
func GetFormat() Format {
	mu.RLock()
	defer mu.RUnlock()
	return globalFormat
}

// PrintJSON prints data as indented JSON to stdout.
func PrintJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// PrintYAML prints data as YAML to stdout.
func PrintYAML(data interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer func() { _ = encoder.Close() }()
	return encoder.Encode(data)
}

// Print outputs data in the configured format. For the default format the
// formatter function renders; json and yaml marshal the data object.
func Print(data interface{}, formatter func()) error {
	switch GetFormat() {
	case FormatJSON:
		return PrintJSON(data)
	case FormatYAML:
		return PrintYAML(data)
	default:
		formatter()
		return nil
	}
}

// Header prints a bold header with a divider
func Header(text string) {
	fmt.Printf("\n%s%s%s\n", paint(Bold), text, paint(Reset))
	fmt.Println(strings.Repeat("=", len(text)))
}

// Success prints a success message with green checkmark
func Success(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	check := getIcon(SymbolCheck, ASCIICheck)
	fmt.Printf("%s%s%s %s\n", paint(BrightGreen), check, paint(Reset), msg)
}

// Error prints an error message with red X
func Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	cross := getIcon(SymbolCross, ASCIICross)
	fmt.Printf("%s%s%s %s\n", paint(BrightRed), cross, paint(Reset), msg)
}

// Warning prints a warning message with yellow triangle
func Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	warning := getIcon(SymbolWarning, ASCIIWarning)
	fmt.Printf("%s%s%s  %s\n", paint(BrightYellow), warning, paint(Reset), msg)
}

// Info prints an info message with blue info icon
func Info(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	info := getIcon(SymbolInfo, ASCIIInfo)
	fmt.Printf("%s%s%s  %s\n", paint(BrightBlue), info, paint(Reset), msg)
}

// Item prints an indented item
func Item(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("   %s\n", msg)
}

// Bullet prints a bulleted list item
func Bullet(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	bullet := getIcon(SymbolDot, ASCIIDot)
	fmt.Printf("  %s %s\n", bullet, msg)
}

// Label prints a label and value pair
func Label(label, value string) {
	fmt.Printf("   %s%-12s%s %s\n", paint(Dim), label+":", paint(Reset), value)
}

// Plain prints plain text without any formatting.
func Plain(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

// Newline prints a blank line
func Newline() {
	fmt.Println()
}
