package bfrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	slogmulti "github.com/samber/slog-multi"
	gorm "gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewLogger builds a text logger on w, fanned out to a JSON log file when
// config.File is set. The returned close func releases that file.
func NewLogger(config LogConfig, w io.Writer) (*slog.Logger, func() error, error) {
	var level slog.Level
	if config.Level != "" {
		if err := level.UnmarshalText([]byte(config.Level)); err != nil {
			return nil, nil, fmt.Errorf("invalid log level [%s]: %w", config.Level, err)
		}
	}
	opts := &slog.HandlerOptions{Level: level}

	handlers := []slog.Handler{
		slog.NewTextHandler(w, opts),
	}

	closer := func() error { return nil }
	if config.File != "" {
		f, err := os.OpenFile(config.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file [%s]: %w", config.File, err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, opts))
		closer = f.Close
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// discardLogger is used when a caller passes a nil logger.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// gormLogger sends journal queries to slog. Failed queries are errors, the
// rest are debug lines. A missing record is left to the caller to report.
type gormLogger struct {
	logger *slog.Logger
}

func newGormLogger(logger *slog.Logger) gormlogger.Interface {
	return &gormLogger{logger: logger.With("component", "journal")}
}

// LogMode is a no-op; the slog handler level decides what is written.
func (l *gormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return l
}

func (l *gormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.logger.InfoContext(ctx, fmt.Sprintf(msg, args...))
}

func (l *gormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.logger.WarnContext(ctx, fmt.Sprintf(msg, args...))
}

func (l *gormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.logger.ErrorContext(ctx, fmt.Sprintf(msg, args...))
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.logger.ErrorContext(ctx, "journal query failed",
			"sql", sql,
			"rows", rows,
			"elapsed", time.Since(begin),
			"error", err)
	case l.logger.Enabled(ctx, slog.LevelDebug):
		sql, rows := fc()
		l.logger.DebugContext(ctx, "journal query",
			"sql", sql,
			"rows", rows,
			"elapsed", time.Since(begin))
	}
}
