package logger

import (
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes one JSON line per event. Every entry carries the service
// name and the action that produced it.
type Logger struct {
	z *zap.Logger
}

var (
	baseMu sync.RWMutex
	base   = zap.NewNop()
)

// Configure builds the process-wide zap core used by New. Call it once from
// main before creating service loggers.
func Configure(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "action"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = true
	z, err := cfg.Build()
	if err != nil {
		return err
	}

	baseMu.Lock()
	base = z
	baseMu.Unlock()
	return nil
}

func New(service string) *Logger {
	baseMu.RLock()
	z := base
	baseMu.RUnlock()
	return FromZap(z, service)
}

// FromZap wraps an existing zap logger, mostly for tests.
func FromZap(z *zap.Logger, service string) *Logger {
	return &Logger{z: z.With(zap.String("service", service), zap.String("hostname", hostname()))}
}

func (l *Logger) Debug(action string, fields map[string]any) { l.z.Debug(action, toZap(fields)...) }
func (l *Logger) Info(action string, fields map[string]any)  { l.z.Info(action, toZap(fields)...) }
func (l *Logger) Warn(action string, fields map[string]any)  { l.z.Warn(action, toZap(fields)...) }

func (l *Logger) Error(action string, err error, fields map[string]any) {
	zf := toZap(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	l.z.Error(action, zf...)
}

// With returns a child logger that adds fields to every entry.
func (l *Logger) With(fields map[string]any) *Logger {
	return &Logger{z: l.z.With(toZap(fields)...)}
}

func (l *Logger) Sync() error { return l.z.Sync() }

// keys are sorted so output is stable across runs
func toZap(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}

func hostname() string { h, _ := os.Hostname(); return h }
