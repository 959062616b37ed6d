package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// FormatPretty is accepted as an alias of the console format.
const FormatPretty = "pretty"

// Logger is a zerolog logger tagged with the tool name.
type Logger struct {
	zl      zerolog.Logger
	service string
}

// Init builds the process-wide logger from cfg. Console output also replaces
// zerolog's global log.Logger so third-party code writes the same format.
func Init(cfg Config, serviceName string) {
	cfg.ApplyDefaults()
	l := New(&cfg, serviceName)
	SetGlobalLogger(l)
	if isConsole(cfg.Format) {
		log.Logger = l.zl
	}
}

// New writes to the stream named by cfg.Output.
func New(cfg *Config, serviceName string) *Logger {
	return NewWithWriter(cfg, serviceName, outputWriter(cfg.Output))
}

// NewWithWriter ignores cfg.Output and writes to w. An unknown level falls
// back to info.
func NewWithWriter(cfg *Config, serviceName string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if isConsole(cfg.Format) {
		w = consoleWriter(w, cfg.NoColor)
	}
	zc := zerolog.New(w).Level(level).With()
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if serviceName != "" {
		zc = zc.Str("service", serviceName)
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	return &Logger{zl: zc.Logger(), service: serviceName}
}

// NewDefault logs info and above to stderr in console format.
func NewDefault(serviceName string) *Logger {
	cfg := Config{}
	cfg.ApplyDefaults()
	return New(&cfg, serviceName)
}

type contextKey struct{}

// ContextWithRunID returns ctx carrying a sample run id.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, contextKey{}, runID)
}

// RunIDFromContext returns the run id stored by ContextWithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok
}

func (l *Logger) derive(zc zerolog.Context) *Logger {
	return &Logger{zl: zc.Logger(), service: l.service}
}

// WithContext adds the run id and the active span of ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	zc := l.zl.With()
	if id, ok := RunIDFromContext(ctx); ok {
		zc = zc.Str(FieldRunID, id)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		zc = zc.Stringer(FieldTraceID, sc.TraceID()).Stringer(FieldSpanID, sc.SpanID())
	}
	return l.derive(zc)
}

func (l *Logger) WithComponent(name string) *Logger {
	return l.derive(l.zl.With().Str(FieldComponent, name))
}

func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return l.derive(l.zl.With().Fields(fields))
}

func (l *Logger) WithError(err error) *Logger {
	return l.derive(l.zl.With().Err(err))
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Error(), msg, fields)
}

// emit is a no-op for disabled levels, where zerolog returns a nil event.
func emit(ev *zerolog.Event, msg string, fields []map[string]interface{}) {
	for _, f := range fields {
		ev = ev.Fields(f)
	}
	ev.Msg(msg)
}

var global atomic.Pointer[Logger]

// SetGlobalLogger replaces the logger behind the package-level functions.
func SetGlobalLogger(l *Logger) { global.Store(l) }

// GetGlobalLogger returns the logger set by Init, or a default console
// logger before Init has run.
func GetGlobalLogger() *Logger {
	if l := global.Load(); l != nil {
		return l
	}
	global.CompareAndSwap(nil, NewDefault(""))
	return global.Load()
}

func Debug(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Debug(msg, fields...)
}

func Info(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Info(msg, fields...)
}

func Warn(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Warn(msg, fields...)
}

func Error(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Error(msg, fields...)
}

func WithContext(ctx context.Context) *Logger {
	return GetGlobalLogger().WithContext(ctx)
}

func WithComponent(name string) *Logger {
	return GetGlobalLogger().WithComponent(name)
}

func isConsole(format string) bool {
	switch strings.ToLower(format) {
	case "console", FormatPretty:
		return true
	}
	return false
}

func outputWriter(output string) *os.File {
	if strings.EqualFold(output, "stdout") {
		return os.Stdout
	}
	return os.Stderr
}

var levelTags = map[zerolog.Level]struct{ tag, color string }{
	zerolog.DebugLevel: {"DBG", "\033[36m"},
	zerolog.InfoLevel:  {"INF", "\033[32m"},
	zerolog.WarnLevel:  {"WRN", "\033[33m"},
	zerolog.ErrorLevel: {"ERR", "\033[31m"},
	zerolog.FatalLevel: {"FTL", "\033[35m"},
}

// consoleWriter prints "15:04:05 [WRN] message key=value". Sample output
// goes to stdout, so the log stays short.
func consoleWriter(w io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			name, _ := i.(string)
			level, err := zerolog.ParseLevel(name)
			t, ok := levelTags[level]
			switch {
			case err != nil || !ok:
				return "[" + strings.ToUpper(name) + "]"
			case noColor:
				return "[" + t.tag + "]"
			default:
				return t.color + "[" + t.tag + "]\033[0m"
			}
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s=", i)
		},
		FieldsExclude: []string{"service"},
	}
}
