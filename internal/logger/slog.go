package logger

import (
	"context"
	"log/slog"
)

var slogLevels = map[Level]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

// slogLogger implements Logger using log/slog
type slogLogger struct {
	logger *slog.Logger
	level  Level
}

// NewSlogLogger creates a new Logger backed by slog
func NewSlogLogger(cfg Config) Logger {
	opts := &slog.HandlerOptions{
		Level:     slogLevels[cfg.Level],
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler = slog.NewJSONHandler(cfg.output(), opts)
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.output(), opts)
	}

	return &slogLogger{logger: slog.New(handler), level: cfg.Level}
}

// keyValues flattens fields into the alternating key/value form slog and
// zerolog both accept
func keyValues(fields []Field) []any {
	kv := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}

func (l *slogLogger) log(level Level, msg string, fields []Field) {
	l.logger.Log(context.Background(), slogLevels[level], msg, keyValues(fields)...)
}

func (l *slogLogger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields) }
func (l *slogLogger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields) }
func (l *slogLogger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields) }
func (l *slogLogger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields) }

func (l *slogLogger) With(fields ...Field) Logger {
	return &slogLogger{logger: l.logger.With(keyValues(fields)...), level: l.level}
}

func (l *slogLogger) WithContext(ctx context.Context) Logger {
	return withContextFields(l, ctx)
}

func (l *slogLogger) Level() Level {
	return l.level
}
