package logger

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/prasetyowira/qrgen/constant"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the application logger. One instance is built per process and
// handed to every component that logs.
type Logger struct {
	zl   *zap.Logger
	file *os.File
}

// Options configures a Logger
type Options struct {
	// LogDir receives the append-only app.log file. Empty disables the file sink.
	LogDir string
	// Level is a zap level name (DEBUG, INFO, WARN, ERROR); unknown values mean INFO.
	Level string
	// Console is the console sink, usually os.Stdout.
	Console io.Writer
}

// LoggerInfo contains structured logging information
type LoggerInfo struct {
	ContextFunction string
	Error           *CustomError
	Cause           error
	Data            map[string]interface{}
}

// CustomError represents a structured error for logging
type CustomError struct {
	Code    string
	Message string
	Type    string
}

// New builds a logger writing the same line format to the console and to
// <LogDir>/app.log.
func New(opts Options) (*Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		level = zapcore.InfoLevel
	}
	enabler := zap.NewAtomicLevelAt(level)

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	cores := []zapcore.Core{
		zapcore.NewCore(newEncoder(), zapcore.Lock(zapcore.AddSync(console)), enabler),
	}

	var file *os.File
	if opts.LogDir != "" {
		if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
			return nil, err
		}
		file, err = os.OpenFile(filepath.Join(opts.LogDir, constant.LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(newEncoder(), zapcore.AddSync(file), enabler))
	}

	zl := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.ErrorLevel))

	return &Logger{zl: zl, file: file}, nil
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{zl: zap.NewNop()}
}

// newEncoder creates the shared "<time> <LEVEL> <message> <fields>" console encoder
func newEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        constant.LogTimeKey,
		LevelKey:       constant.LogLevelKey,
		NameKey:        constant.LogNameKey,
		CallerKey:      zapcore.OmitKey,
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     constant.LogMessageKey,
		StacktraceKey:  constant.LogStacktraceKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	})
}

// Close flushes buffered entries and closes the log file
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	_ = l.zl.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// createFields creates zap fields with proper structure
func createFields(ctx context.Context, info LoggerInfo) []zap.Field {
	fields := []zap.Field{}

	if requestID := getRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String(constant.LogRequestIDKey, requestID))
	}

	if info.ContextFunction != "" {
		fields = append(fields, zap.String(constant.LogFunctionKey, info.ContextFunction))
	}

	if info.Error != nil {
		fields = append(fields, zap.String(constant.LogErrorCodeKey, info.Error.Code))
		fields = append(fields, zap.String(constant.LogErrorTypeKey, info.Error.Type))
		fields = append(fields, zap.String(constant.LogErrorMessageKey, info.Error.Message))
	}

	// zap.Error adds errorVerbose with the wrapped stack when the error carries one
	if info.Cause != nil {
		fields = append(fields, zap.Error(info.Cause))
	}

	for k, v := range info.Data {
		fields = append(fields, zap.Any(k, v))
	}

	return fields
}

// CtxDebug logs a debug message with context
func (l *Logger) CtxDebug(ctx context.Context, msg string, info LoggerInfo) {
	if l == nil {
		return
	}
	l.zl.Debug(msg, createFields(ctx, info)...)
}

// CtxInfo logs an info message with context
func (l *Logger) CtxInfo(ctx context.Context, msg string, info LoggerInfo) {
	if l == nil {
		return
	}
	l.zl.Info(msg, createFields(ctx, info)...)
}

// CtxWarn logs a warning message with context
func (l *Logger) CtxWarn(ctx context.Context, msg string, info LoggerInfo) {
	if l == nil {
		return
	}
	l.zl.Warn(msg, createFields(ctx, info)...)
}

// CtxError logs an error message with context
func (l *Logger) CtxError(ctx context.Context, msg string, info LoggerInfo) {
	if l == nil {
		return
	}
	l.zl.Error(msg, createFields(ctx, info)...)
}

// NewRunContext creates a context tagged with a fresh run ID
func NewRunContext() context.Context {
	return WithRequestID(context.Background(), uuid.New().String())
}

// RequestID returns the run ID stored in ctx, or an empty string
func RequestID(ctx context.Context) string {
	return getRequestID(ctx)
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, constant.RequestIDKey, requestID)
}

// getRequestID gets the request ID from the context
func getRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if reqID, ok := ctx.Value(constant.RequestIDKey).(string); ok {
		return reqID
	}

	return ""
}
