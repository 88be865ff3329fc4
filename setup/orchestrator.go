package setup

import (
	"fmt"
	"strings"

	"github.com/barlind/bleurgh/cliout"
	"github.com/barlind/bleurgh/env"
	"github.com/barlind/bleurgh/fileutil"
	"github.com/barlind/bleurgh/logutil"
	"github.com/barlind/bleurgh/shellutil"
)

// Markers delimiting the block this tool manages inside a shell startup
// file. The begin marker doubles as the idempotency guard.
const (
	beginMarker = "# BEGIN bleurgh setup"
	endMarker   = "# END bleurgh setup"
)

// Options controls a setup run.
type Options struct {
	// AllowExecution writes the export block to the shell startup file.
	// When false the commands are printed for manual application instead.
	AllowExecution bool

	// Force proceeds past conflicting (changed) variables.
	Force bool

	// ExportKeys, when non-empty, restricts synthesis to these keys.
	ExportKeys []string
}

// Executor sequences decode, diff, synthesis, re-validation and
// materialization. The environment and shell detection are injected so the
// whole flow is testable without process-global side effects.
type Executor struct {
	Environ     env.Environment
	Log         cliout.Logger
	Shell       shellutil.Shell
	StartupFile string
}

// NewExecutor builds an Executor over the live environment and the
// detected shell.
func NewExecutor(log cliout.Logger) *Executor {
	shell := shellutil.Detect()
	startup, err := shellutil.StartupFile(shell)
	if err != nil {
		// No startup file for this shell; materialization degrades to
		// printing instructions.
		startup = ""
	}
	return &Executor{
		Environ:     env.OS(),
		Log:         log,
		Shell:       shell,
		StartupFile: startup,
	}
}

// Execute runs the setup flow end to end:
//
//	decode -> diff -> synthesize -> validate commands -> materialize
//
// Conflicting changes stop the run unless opts.Force is set; that stop is
// recoverable and returns nil. Validation and decode failures return errors.
func (e *Executor) Execute(encoded string, opts Options) error {
	config, warnings, err := DecodeWith(encoded, ValidateOptions{Shell: e.Shell.Family})
	if err != nil {
		e.Log.Error("Setup failed: %v", err)
		return err
	}
	for _, w := range warnings {
		e.Log.Warn("%s", w)
	}

	diff := Analyze(config, e.Environ)
	e.reportDiff(diff)

	if diff.HasChanges() && !opts.Force {
		e.Log.Warn("Some variables differ from your current environment. Resolve manually or re-run with --force.")
		return nil
	}

	commands := Synthesize(config, opts.ExportKeys)
	if len(commands) == 0 {
		e.Log.Info("Nothing to export.")
		return nil
	}

	result := ValidateExportCommands(commands, e.Shell.Family)
	for _, w := range result.Warnings {
		e.Log.Warn("%s", w)
	}
	if !result.Valid {
		err := fmt.Errorf("%w: %s", ErrSecurityValidation, result.JoinedErrors())
		e.Log.Error("Setup failed: %v", err)
		return err
	}

	if !opts.AllowExecution || e.StartupFile == "" {
		e.printCommands(commands)
		return nil
	}

	return e.writeStartupFile(commands)
}

func (e *Executor) reportDiff(diff Diff) {
	logutil.Debug("environment diff",
		"existing", len(diff.ExistingVars),
		"new", len(diff.NewVars),
		"changed", len(diff.ChangedVars),
		"unchanged", len(diff.UnchangedVars))

	if len(diff.ExistingVars) > 0 {
		e.Log.Info("Existing %s variables: %s", Prefix, strings.Join(diff.ExistingVars, ", "))
	}
	for _, key := range diff.NewVars {
		e.Log.Info("new:       %s", key)
	}
	for _, change := range diff.ChangedVars {
		e.Log.Warn("changed:   %s (%q -> %q)", change.Key, change.Old, change.New)
	}
	for _, key := range diff.UnchangedVars {
		e.Log.Info("unchanged: %s", key)
	}
}

// printCommands is materialization mode (a): print every export command
// plus the target file path as a suggestion, making no filesystem change.
func (e *Executor) printCommands(commands []string) {
	e.Log.Info("Run the following in your shell, or add them to your shell config:")
	for _, command := range commands {
		cliout.Plain("%s", command)
	}
	if e.StartupFile != "" {
		e.Log.Info("Suggested file: %s", e.StartupFile)
	}
	e.Log.Success("Setup complete (no files were modified).")
}

// writeStartupFile is materialization mode (b): append a marker-delimited
// block of export commands to the shell startup file. A file that already
// carries the marker is left untouched. On filesystem failure the flow
// degrades to mode (a) so the user is never left with nothing.
func (e *Executor) writeStartupFile(commands []string) error {
	if fileutil.ContainsText(e.StartupFile, beginMarker) {
		e.Log.Warn("%s already contains a bleurgh setup block; not writing a duplicate.", e.StartupFile)
		return nil
	}

	var block strings.Builder
	block.WriteString("\n")
	block.WriteString(beginMarker + "\n")
	for _, command := range commands {
		block.WriteString(command + "\n")
	}
	block.WriteString(endMarker + "\n")
	block.WriteString("\n")

	if err := fileutil.AppendText(e.StartupFile, block.String()); err != nil {
		e.Log.Error("Failed to update %s: %v", e.StartupFile, err)
		e.printCommands(commands)
		return nil
	}

	e.Log.Success("Added %d export(s) to %s. Restart your shell or source the file to apply.", len(commands), e.StartupFile)
	return nil
}
