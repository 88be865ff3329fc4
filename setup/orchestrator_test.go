package setup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barlind/bleurgh/cliout"
	"github.com/barlind/bleurgh/env"
	"github.com/barlind/bleurgh/security"
	"github.com/barlind/bleurgh/shellutil"
)

func testExecutor(t *testing.T, environ env.Environment) (*Executor, *cliout.Recorder, string) {
	t.Helper()
	rec := &cliout.Recorder{}
	startup := filepath.Join(t.TempDir(), ".bashrc")
	executor := &Executor{
		Environ:     environ,
		Log:         rec,
		Shell:       shellutil.Shell{Name: shellutil.ShellBash, Family: security.FamilyBash},
		StartupFile: startup,
	}
	return executor, rec, startup
}

func mustEncode(t *testing.T, config Configuration) string {
	t.Helper()
	encoded, err := Encode(config)
	require.NoError(t, err)
	return encoded
}

func TestExecuteWritesMarkedBlock(t *testing.T) {
	executor, rec, startup := testExecutor(t, env.Map{})
	encoded := mustEncode(t, Configuration{"FASTLY_DEV_SERVICE_IDS": "dev-svc-1"})

	err := executor.Execute(encoded, Options{AllowExecution: true})
	require.NoError(t, err)

	content, err := os.ReadFile(startup)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# BEGIN bleurgh setup")
	assert.Contains(t, string(content), `export FASTLY_DEV_SERVICE_IDS="dev-svc-1"`)
	assert.Contains(t, string(content), "# END bleurgh setup")
	assert.NotEmpty(t, rec.Successes)
}

func TestExecuteIdempotentWrite(t *testing.T) {
	executor, rec, startup := testExecutor(t, env.Map{})
	encoded := mustEncode(t, Configuration{"FASTLY_DEV_SERVICE_IDS": "dev-svc-1"})

	require.NoError(t, executor.Execute(encoded, Options{AllowExecution: true}))
	require.NoError(t, executor.Execute(encoded, Options{AllowExecution: true}))

	content, err := os.ReadFile(startup)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(content), "# BEGIN bleurgh setup"),
		"second write must be a no-op")
	assert.NotEmpty(t, rec.Warnings, "duplicate write must warn")
}

func TestExecuteStopsOnConflictWithoutForce(t *testing.T) {
	executor, rec, startup := testExecutor(t, env.Map{"FASTLY_DEV_SERVICE_IDS": "old"})
	encoded := mustEncode(t, Configuration{"FASTLY_DEV_SERVICE_IDS": "new"})

	err := executor.Execute(encoded, Options{AllowExecution: true})
	require.NoError(t, err, "conflict stop is recoverable")

	_, statErr := os.Stat(startup)
	assert.True(t, os.IsNotExist(statErr), "conflict stop must not write anything")

	joined := strings.Join(append(rec.Warnings, rec.Infos...), "\n")
	assert.Contains(t, joined, "FASTLY_DEV_SERVICE_IDS")
	assert.Contains(t, joined, `"old"`)
	assert.Contains(t, joined, `"new"`)
}

func TestExecuteProceedsOnConflictWithForce(t *testing.T) {
	executor, _, startup := testExecutor(t, env.Map{"FASTLY_DEV_SERVICE_IDS": "old"})
	encoded := mustEncode(t, Configuration{"FASTLY_DEV_SERVICE_IDS": "new"})

	err := executor.Execute(encoded, Options{AllowExecution: true, Force: true})
	require.NoError(t, err)

	content, err := os.ReadFile(startup)
	require.NoError(t, err)
	assert.Contains(t, string(content), `export FASTLY_DEV_SERVICE_IDS="new"`)
}

func TestExecuteNewOnlyProceedsWithoutForce(t *testing.T) {
	executor, _, startup := testExecutor(t, env.Map{})
	encoded := mustEncode(t, Configuration{"FASTLY_PROD_SERVICE_IDS": "prod-svc-1"})

	err := executor.Execute(encoded, Options{AllowExecution: true})
	require.NoError(t, err)

	content, err := os.ReadFile(startup)
	require.NoError(t, err)
	assert.Contains(t, string(content), "FASTLY_PROD_SERVICE_IDS")
}

func TestExecutePrintOnlyMakesNoFilesystemChange(t *testing.T) {
	executor, rec, startup := testExecutor(t, env.Map{})
	encoded := mustEncode(t, Configuration{"FASTLY_DEV_SERVICE_IDS": "dev-svc-1"})

	err := executor.Execute(encoded, Options{AllowExecution: false})
	require.NoError(t, err)

	_, statErr := os.Stat(startup)
	assert.True(t, os.IsNotExist(statErr))
	assert.Contains(t, strings.Join(rec.Infos, "\n"), startup, "target file suggested to the user")
}

func TestExecuteAllowListRestrictsExports(t *testing.T) {
	executor, _, startup := testExecutor(t, env.Map{})
	encoded := mustEncode(t, Configuration{
		"FASTLY_DEV_SERVICE_IDS":  "a",
		"FASTLY_TEST_SERVICE_IDS": "b",
	})

	err := executor.Execute(encoded, Options{
		AllowExecution: true,
		ExportKeys:     []string{"FASTLY_DEV_SERVICE_IDS"},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(startup)
	require.NoError(t, err)
	assert.Contains(t, string(content), "FASTLY_DEV_SERVICE_IDS")
	assert.NotContains(t, string(content), "FASTLY_TEST_SERVICE_IDS")
}

func TestExecuteValidatesForDetectedShellFamily(t *testing.T) {
	executor, rec, startup := testExecutor(t, env.Map{})
	executor.Shell = shellutil.Shell{Name: shellutil.ShellPwsh, Family: security.FamilyPowerShell}
	// "@" is a safe bash word but PowerShell treats it specially; the
	// detected family must drive the verdict.
	encoded := mustEncode(t, Configuration{"FASTLY_NOTES": "svc@1"})

	err := executor.Execute(encoded, Options{AllowExecution: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSecurityValidation)
	assert.NotEmpty(t, rec.Errors)

	_, statErr := os.Stat(startup)
	assert.True(t, os.IsNotExist(statErr), "rejected configuration must never be written")
}

func TestExecuteRejectsInvalidConfiguration(t *testing.T) {
	executor, rec, _ := testExecutor(t, env.Map{})

	err := executor.Execute("!!!not-base64!!!", Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.NotEmpty(t, rec.Errors)
}

func TestExecuteDegradesToPrintOnWriteFailure(t *testing.T) {
	executor, rec, _ := testExecutor(t, env.Map{})
	// A directory as the startup file makes the append fail.
	executor.StartupFile = t.TempDir()
	encoded := mustEncode(t, Configuration{"FASTLY_DEV_SERVICE_IDS": "dev-svc-1"})

	err := executor.Execute(encoded, Options{AllowExecution: true})
	require.NoError(t, err, "write failure degrades to print mode")
	assert.NotEmpty(t, rec.Errors, "filesystem failure reported")

	joined := strings.Join(rec.Infos, "\n")
	assert.Contains(t, joined, "shell", "fallback instructions printed")
}

func TestCollectFromEnvironment(t *testing.T) {
	environ := env.Map{
		"FASTLY_DEV_SERVICE_IDS": "svc",
		"FASTLY_API_TOKEN":       "secret",
		"FASTLY_EMPTY":           "",
		"HOME":                   "/home/x",
	}

	config := CollectFromEnvironment(environ)
	assert.Equal(t, Configuration{"FASTLY_DEV_SERVICE_IDS": "svc"}, config)
}
