package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type fieldsKey struct{}

type implLogger struct {
	logger *logrus.Logger
}

// New creates a Logger writing to stdout. format is "json" or "text".
func New(level, format string) Logger {
	return newLogger(os.Stdout, level, format)
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return newLogger(io.Discard, "error", "text")
}

func newLogger(out io.Writer, level, format string) *implLogger {
	l := logrus.New()
	l.SetOutput(out)

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return &implLogger{logger: l}
}

// WithFields returns a copy of ctx carrying fields merged over any already present.
func WithFields(ctx context.Context, fields logrus.Fields) context.Context {
	merged := logrus.Fields{}
	for k, v := range fieldsFrom(ctx) {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return context.WithValue(ctx, fieldsKey{}, merged)
}

func fieldsFrom(ctx context.Context) logrus.Fields {
	if ctx == nil {
		return nil
	}
	f, _ := ctx.Value(fieldsKey{}).(logrus.Fields)
	return f
}

func (l *implLogger) shouldLog(level string) bool {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return true
	}
	return l.logger.IsLevelEnabled(lvl)
}

func (l *implLogger) entry(ctx context.Context) *logrus.Entry {
	return l.logger.WithFields(fieldsFrom(ctx))
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("debug") {
		l.entry(ctx).Debugf(msg, args...)
	}
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("info") {
		l.entry(ctx).Infof(msg, args...)
	}
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("warn") {
		l.entry(ctx).Warnf(msg, args...)
	}
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("error") {
		l.entry(ctx).Errorf(msg, args...)
	}
}
