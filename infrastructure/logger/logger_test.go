package logger

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/prasetyowira/qrgen/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}(Z|[+-]\d{4})\tINFO\thello`)

func readLog(t *testing.T, dir string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, constant.LogFileName))
	require.NoError(t, err)
	return string(data)
}

func TestNew_WritesConsoleAndFile(t *testing.T) {
	// Arrange
	dir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer

	// Act
	log, err := New(Options{LogDir: dir, Level: "INFO", Console: &console})
	require.NoError(t, err)
	log.CtxInfo(WithRequestID(context.Background(), "abc"), "hello", LoggerInfo{
		ContextFunction: constant.CtxMain,
		Data: map[string]interface{}{
			constant.DataPath: "/tmp/q/t.png",
		},
	})
	require.NoError(t, log.Close())

	// Assert
	fileOut := readLog(t, dir)
	assert.Regexp(t, linePrefix, console.String())
	assert.Regexp(t, linePrefix, fileOut)
	assert.Equal(t, console.String(), fileOut)
	assert.Contains(t, fileOut, `"request_id": "abc"`)
	assert.Contains(t, fileOut, `"path": "/tmp/q/t.png"`)
}

func TestNew_AppendsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	for _, msg := range []string{"first run", "second run"} {
		log, err := New(Options{LogDir: dir, Console: &bytes.Buffer{}})
		require.NoError(t, err)
		log.CtxInfo(context.Background(), msg, LoggerInfo{})
		require.NoError(t, log.Close())
	}

	out := readLog(t, dir)
	assert.Contains(t, out, "first run")
	assert.Contains(t, out, "second run")
	assert.Less(t, strings.Index(out, "first run"), strings.Index(out, "second run"))
}

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
	}{
		{level: "INFO", wantDebug: false},
		{level: "DEBUG", wantDebug: true},
		{level: "debug", wantDebug: true},
		{level: "bogus", wantDebug: false},
		{level: "", wantDebug: false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var console bytes.Buffer
			log, err := New(Options{Level: tt.level, Console: &console})
			require.NoError(t, err)

			log.CtxDebug(context.Background(), "debug entry", LoggerInfo{})
			log.CtxInfo(context.Background(), "info entry", LoggerInfo{})
			require.NoError(t, log.Close())

			assert.Contains(t, console.String(), "info entry")
			assert.Equal(t, tt.wantDebug, strings.Contains(console.String(), "debug entry"))
		})
	}
}

func TestCtxError_CarriesErrorDetail(t *testing.T) {
	var console bytes.Buffer
	log, err := New(Options{Console: &console})
	require.NoError(t, err)

	log.CtxError(context.Background(), "failed", LoggerInfo{
		Error: &CustomError{Code: "GEN201", Message: "boom", Type: constant.ErrTypeEncoding},
		Cause: errors.New("boom"),
	})
	require.NoError(t, log.Close())

	out := console.String()
	assert.Contains(t, out, "\tERROR\tfailed")
	assert.Contains(t, out, `"error_code": "GEN201"`)
	assert.Contains(t, out, `"error": "boom"`)
	// the stack trace follows the entry on its own lines
	assert.Greater(t, strings.Count(out, "\n"), 1)
}

func TestNilLoggerIsSafe(t *testing.T) {
	var log *Logger

	assert.NotPanics(t, func() {
		log.CtxInfo(context.Background(), "ignored", LoggerInfo{})
		assert.NoError(t, log.Close())
	})
}

func TestRunContext(t *testing.T) {
	ctx := NewRunContext()

	assert.Len(t, RequestID(ctx), 36)
	assert.NotEqual(t, RequestID(ctx), RequestID(NewRunContext()))
	assert.Empty(t, RequestID(context.Background()))
}

func TestNew_UnwritableLogDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	log, err := New(Options{LogDir: blocker, Console: &bytes.Buffer{}})

	assert.Error(t, err)
	assert.Nil(t, log)
}
