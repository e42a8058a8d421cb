package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prasetyowira/qrgen/constant"
	"github.com/prasetyowira/qrgen/infrastructure/db"
	"github.com/prasetyowira/qrgen/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv points logs at a temp dir and clears the other variables
func setupEnv(t *testing.T) string {
	t.Helper()

	for _, key := range []string{constant.EnvURL, constant.EnvOutputDir, constant.EnvLogLevel, constant.EnvHistoryDB} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	logDir := filepath.Join(t.TempDir(), "logs")
	t.Setenv(constant.EnvLogDir, logDir)
	return logDir
}

func run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Success(t *testing.T) {
	// Arrange
	logDir := setupEnv(t)
	out := filepath.Join(t.TempDir(), "q")

	// Act
	code, stdout, stderr := run("--url", "https://example.com", "--out", out, "--filename", "t.png")

	// Assert
	want := filepath.Join(out, "t.png")
	assert.Equal(t, ExitOK, code)
	assert.FileExists(t, want)
	assert.Contains(t, stdout, "QR Code saved to "+want+"\n")
	assert.Empty(t, stderr)

	logs, err := os.ReadFile(filepath.Join(logDir, constant.LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(logs), constant.MsgStarting)
	assert.Contains(t, string(logs), "QR Code saved to "+want)
}

func TestRun_InvalidURL(t *testing.T) {
	setupEnv(t)
	out := filepath.Join(t.TempDir(), "q")

	code, _, stderr := run("--url", "not-a-url", "--out", out)

	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, "ERROR: URL must start with http:// or https://\n", stderr)
	assert.NoDirExists(t, out)
}

func TestRun_EmptyURL(t *testing.T) {
	setupEnv(t)

	code, _, stderr := run("--url", "", "--out", t.TempDir())

	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, "ERROR: URL cannot be empty.\n", stderr)
}

func TestRun_FailureIsLogged(t *testing.T) {
	logDir := setupEnv(t)

	code, _, _ := run("--url", "ftp://example.com", "--out", t.TempDir())

	require.Equal(t, ExitFailure, code)
	logs, err := os.ReadFile(filepath.Join(logDir, constant.LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(logs), constant.MsgFailed)
	assert.Contains(t, string(logs), constant.ErrCodeURLScheme)
}

func TestRun_URLFromEnvironment(t *testing.T) {
	setupEnv(t)
	out := t.TempDir()
	t.Setenv(constant.EnvURL, "https://env.example.com")
	t.Setenv(constant.EnvOutputDir, out)

	code, stdout, _ := run("--filename", "env.png")

	assert.Equal(t, ExitOK, code)
	assert.FileExists(t, filepath.Join(out, "env.png"))
	assert.Contains(t, stdout, "QR Code saved to "+filepath.Join(out, "env.png"))
}

func TestRun_TimestampedFilename(t *testing.T) {
	setupEnv(t)
	out := t.TempDir()

	code, _, _ := run("--url", "https://example.com", "--out", out)

	require.Equal(t, ExitOK, code)
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	name := entries[0].Name()
	assert.True(t, strings.HasPrefix(name, "qr_"), name)
	assert.True(t, strings.HasSuffix(name, ".png"), name)
	assert.Len(t, name, len("qr_20060102-150405.png"))
}

func TestRun_RerunOverwritesExplicitFilename(t *testing.T) {
	setupEnv(t)
	out := t.TempDir()

	code, _, _ := run("--url", "https://example.com", "--out", out, "--filename", "same.png")
	require.Equal(t, ExitOK, code)
	code, _, stderr := run("--url", "https://example.com/other", "--out", out, "--filename", "same.png")

	assert.Equal(t, ExitOK, code)
	assert.Empty(t, stderr)
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRun_InvalidBoxSize(t *testing.T) {
	setupEnv(t)

	code, _, stderr := run("--url", "https://example.com", "--out", t.TempDir(), "--box-size", "0")

	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, "ERROR: "+constant.ErrBoxSizeNotPositive+"\n", stderr)
}

func TestRun_OversizedImageRejected(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "box size overflowing int64 math", args: []string{"--box-size", "4611686018427387904"}},
		{name: "box size allocating terabytes", args: []string{"--box-size", "100000"}},
		{name: "border too wide", args: []string{"--border", "20000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupEnv(t)
			out := filepath.Join(t.TempDir(), "q")
			args := append([]string{"--url", "https://example.com", "--out", out}, tt.args...)

			code, _, stderr := run(args...)

			assert.Equal(t, ExitFailure, code)
			assert.Equal(t, "ERROR: "+constant.ErrImageTooLarge+"\n", stderr)
			assert.NoDirExists(t, out)
		})
	}
}

func TestRun_ValidationFailureLoggedOnce(t *testing.T) {
	logDir := setupEnv(t)

	code, _, _ := run("--url", "ftp://example.com", "--out", t.TempDir())

	require.Equal(t, ExitFailure, code)
	logs, err := os.ReadFile(filepath.Join(logDir, constant.LogFileName))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(logs), constant.ErrCodeURLScheme))
}

func TestRun_FilenameWithPath(t *testing.T) {
	setupEnv(t)

	code, _, stderr := run("--url", "https://example.com", "--out", t.TempDir(), "--filename", "../escape.png")

	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, "ERROR: "+constant.ErrFilenameHasPath+"\n", stderr)
}

func TestRun_MalformedFlag(t *testing.T) {
	setupEnv(t)

	code, _, stderr := run("--box-size", "abc")

	assert.Equal(t, ExitFailure, code)
	assert.True(t, strings.HasPrefix(stderr, "ERROR: "), stderr)
}

func TestRun_Help(t *testing.T) {
	setupEnv(t)

	code, stdout, stderr := run("--help")

	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "--box-size")
	assert.Empty(t, stderr)
}

func TestRun_ContentTooLong(t *testing.T) {
	setupEnv(t)
	out := t.TempDir()

	code, _, stderr := run("--url", "https://example.com/"+strings.Repeat("a", 5000), "--out", out)

	assert.Equal(t, ExitFailure, code)
	assert.True(t, strings.HasPrefix(stderr, "ERROR: "), stderr)
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_OutputDirIsAFile(t *testing.T) {
	setupEnv(t)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	code, _, stderr := run("--url", "https://example.com", "--out", blocker)

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "create output directory")
}

func TestRun_RecordsHistory(t *testing.T) {
	setupEnv(t)
	out := t.TempDir()
	historyPath := filepath.Join(t.TempDir(), "history.db")
	t.Setenv(constant.EnvHistoryDB, historyPath)

	code, _, _ := run("--url", "https://example.com", "--out", out, "--filename", "t.png")
	require.Equal(t, ExitOK, code)

	repo, err := db.NewSQLiteRepository(context.Background(), historyPath, logger.NewNop())
	require.NoError(t, err)
	defer repo.Close()

	records, err := repo.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "https://example.com", records[0].URL)
	assert.Equal(t, filepath.Join(out, "t.png"), records[0].Path)
	assert.Len(t, records[0].RunID, 36)
}

func TestRun_HistoryUnavailableStillSucceeds(t *testing.T) {
	setupEnv(t)
	out := t.TempDir()
	t.Setenv(constant.EnvHistoryDB, "/invalid/path/history.db")

	code, _, stderr := run("--url", "https://example.com", "--out", out, "--filename", "t.png")

	assert.Equal(t, ExitOK, code)
	assert.Empty(t, stderr)
	assert.FileExists(t, filepath.Join(out, "t.png"))
}
