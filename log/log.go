package log

import (
	"context"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

type (
	Level  = zapcore.Level
	Field  = zap.Field
	Option = zap.Option
)

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
	FatalLevel = zapcore.FatalLevel
)

var (
	WithCaller    = zap.WithCaller
	AddCallerSkip = zap.AddCallerSkip
	AddStacktrace = zap.AddStacktrace
)

// Logger is a thin wrapper around zap.Logger.
type Logger struct {
	l     *zap.Logger
	level zap.AtomicLevel
}

var (
	std = New(os.Stderr, InfoLevel)
	mu  sync.RWMutex
)

// Default returns the package logger
func Default() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return std
}

// ResetDefault replaces the package logger. Not safe to call while other
// goroutines log via the package functions.
func ResetDefault(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	std = l
}

// New creates a logger producing json output
func New(writer io.Writer, level Level, opts ...Option) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	return newLogger(zapcore.NewJSONEncoder(cfg.EncoderConfig), writer, level, opts...)
}

// DevLogger creates a logger producing human readable console output
func DevLogger(writer io.Writer, level Level, opts ...Option) *Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return newLogger(zapcore.NewConsoleEncoder(cfg.EncoderConfig), writer, level, opts...)
}

func newLogger(enc zapcore.Encoder, writer io.Writer, level Level, opts ...Option) *Logger {
	if writer == nil {
		panic("the writer is nil")
	}
	atomicLevel := zap.NewAtomicLevelAt(level)
	core := zapcore.NewCore(enc, zapcore.AddSync(writer), atomicLevel)
	return &Logger{
		l:     zap.New(core, opts...),
		level: atomicLevel,
	}
}

// WithFilterRules returns an option which filters log entries by zapfilter
// rules, e.g. "*:scoring.* debug+:*"
func WithFilterRules(rules string) (Option, error) {
	filter, err := zapfilter.ParseRules(rules)
	if err != nil {
		return nil, err
	}
	return zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapfilter.NewFilteringCore(c, filter)
	}), nil
}

func ParseLevel(text string) (Level, error) {
	return zapcore.ParseLevel(text)
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l.Named(name), level: l.level}
}

func (l *Logger) WithOptions(opts ...Option) *Logger {
	return &Logger{l: l.l.WithOptions(opts...), level: l.level}
}

func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{l: l.l.With(fields...), level: l.level}
}

func (l *Logger) SetLevel(level Level) {
	l.level.SetLevel(level)
}

func (l *Logger) Enabled(level Level) bool {
	return l.level.Enabled(level)
}

// Log logs on the given level
func (l *Logger) Log(level Level, msg string, fields ...Field) {
	l.l.Log(level, msg, fields...)
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.l.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.l.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.l.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.l.Error(msg, fields...)
}

func (l *Logger) Fatal(msg string, fields ...Field) {
	l.l.Fatal(msg, fields...)
}

func (l *Logger) Fatalf(format string, args ...any) {
	l.l.Sugar().Fatalf(format, args...)
}

func (l *Logger) Sugar() *zap.SugaredLogger {
	return l.l.Sugar()
}

func (l *Logger) Sync() error {
	return l.l.Sync()
}

type loggerKey struct{}

func AddToContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// GetFromContext returns the logger stored in ctx or the default logger
func GetFromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*Logger); ok {
			return l
		}
	}
	return Default()
}

func Debug(msg string, fields ...Field) { Default().Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { Default().Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { Default().Warn(msg, fields...) }
func Error(msg string, fields ...Field) { Default().Error(msg, fields...) }
func Fatal(msg string, fields ...Field) { Default().Fatal(msg, fields...) }

func Fatalf(format string, args ...any) { Default().Fatalf(format, args...) }

func Sync() error {
	return Default().Sync()
}
