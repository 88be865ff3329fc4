package cliout

import "fmt"

// Logger is the four-sink text logger consumed by the setup orchestrator
// and the purge commands.
type Logger interface {
	Info(format string, args ...interface{})
	Success(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Console returns a Logger that renders through this package's styled
// output functions.
func Console() Logger {
	return consoleLogger{}
}

type consoleLogger struct{}

func (consoleLogger) Info(format string, args ...interface{})    { Info(format, args...) }
func (consoleLogger) Success(format string, args ...interface{}) { Success(format, args...) }
func (consoleLogger) Warn(format string, args ...interface{})    { Warning(format, args...) }
func (consoleLogger) Error(format string, args ...interface{})   { Error(format, args...) }

// Recorder is a Logger that captures messages for assertions in tests.
type Recorder struct {
	Infos     []string
	Successes []string
	Warnings  []string
	Errors    []string
}

func (r *Recorder) Info(format string, args ...interface{}) {
	r.Infos = append(r.Infos, fmt.Sprintf(format, args...))
}

func (r *Recorder) Success(format string, args ...interface{}) {
	r.Successes = append(r.Successes, fmt.Sprintf(format, args...))
}

func (r *Recorder) Warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Recorder) Error(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}
