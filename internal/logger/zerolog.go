package logger

import (
	"context"
	"io"

	"github.com/rs/zerolog"
)

var zerologLevels = map[Level]zerolog.Level{
	LevelDebug: zerolog.DebugLevel,
	LevelInfo:  zerolog.InfoLevel,
	LevelWarn:  zerolog.WarnLevel,
	LevelError: zerolog.ErrorLevel,
}

// zerologLogger implements Logger using zerolog
type zerologLogger struct {
	logger zerolog.Logger
	level  Level
}

// NewZerologLogger creates a new Logger backed by zerolog
func NewZerologLogger(cfg Config) Logger {
	var w io.Writer = cfg.output()
	if cfg.Format == "text" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}

	level, ok := zerologLevels[cfg.Level]
	if !ok {
		level = zerolog.InfoLevel
	}
	zctx := zerolog.New(w).Level(level).With().Timestamp()
	if cfg.AddSource {
		// skip log() and the level method that called it
		zctx = zctx.CallerWithSkipFrameCount(zerolog.CallerSkipFrameCount + 2)
	}

	return &zerologLogger{logger: zctx.Logger(), level: cfg.Level}
}

func (l *zerologLogger) log(level Level, msg string, fields []Field) {
	zl, ok := zerologLevels[level]
	if !ok {
		zl = zerolog.InfoLevel
	}
	l.logger.WithLevel(zl).Fields(keyValues(fields)).Msg(msg)
}

func (l *zerologLogger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields) }
func (l *zerologLogger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields) }
func (l *zerologLogger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields) }
func (l *zerologLogger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields) }

func (l *zerologLogger) With(fields ...Field) Logger {
	return &zerologLogger{
		logger: l.logger.With().Fields(keyValues(fields)).Logger(),
		level:  l.level,
	}
}

func (l *zerologLogger) WithContext(ctx context.Context) Logger {
	return withContextFields(l, ctx)
}

func (l *zerologLogger) Level() Level {
	return l.level
}
