package logger

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// correlationIDKey is the context key the HTTP middleware stores the request
// correlation id under.
type contextKey string

const CorrelationIDKey contextKey = "correlation_id"

// Logger interface for structured logging
type Logger interface {
	Info(ctx context.Context, message string, fields map[string]interface{})
	Warn(ctx context.Context, message string, fields map[string]interface{})
	Error(ctx context.Context, message string, err error, fields map[string]interface{})
	Debug(ctx context.Context, message string, fields map[string]interface{})
	WithFields(fields map[string]interface{}) Logger
}

// Config configuration for the logger
type Config struct {
	Level       string
	Format      string // json, text
	ServiceName string
}

// structuredLogger implements Logger with logrus
type structuredLogger struct {
	logger *logrus.Logger
	fields map[string]interface{}
}

// New creates a logrus-backed structured logger
func New(config Config) Logger {
	logrusLogger := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrusLogger.SetLevel(level)

	if config.Format == "text" {
		logrusLogger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339Nano,
			FullTimestamp:   true,
		})
	} else {
		logrusLogger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	}

	logrusLogger.SetOutput(os.Stdout)

	return &structuredLogger{
		logger: logrusLogger,
		fields: map[string]interface{}{
			"service": config.ServiceName,
		},
	}
}

func (l *structuredLogger) Info(ctx context.Context, message string, fields map[string]interface{}) {
	l.entry(ctx, nil, fields).Info(message)
}

func (l *structuredLogger) Warn(ctx context.Context, message string, fields map[string]interface{}) {
	l.entry(ctx, nil, fields).Warn(message)
}

func (l *structuredLogger) Error(ctx context.Context, message string, err error, fields map[string]interface{}) {
	l.entry(ctx, err, fields).Error(message)
}

func (l *structuredLogger) Debug(ctx context.Context, message string, fields map[string]interface{}) {
	l.entry(ctx, nil, fields).Debug(message)
}

// WithFields creates a logger carrying additional base fields
func (l *structuredLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &structuredLogger{logger: l.logger, fields: merged}
}

func (l *structuredLogger) entry(ctx context.Context, err error, fields map[string]interface{}) *logrus.Entry {
	merged := logrus.Fields{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	if correlationID, ok := ctx.Value(CorrelationIDKey).(string); ok && correlationID != "" {
		merged["correlation_id"] = correlationID
	}
	entry := l.logger.WithFields(merged)
	if err != nil {
		entry = entry.WithError(err)
	}
	return entry
}

// nopLogger discards everything; used in tests
type nopLogger struct{}

// NewNop returns a logger that drops all output
func NewNop() Logger { return nopLogger{} }

func (nopLogger) Info(context.Context, string, map[string]interface{})         {}
func (nopLogger) Warn(context.Context, string, map[string]interface{})         {}
func (nopLogger) Error(context.Context, string, error, map[string]interface{}) {}
func (nopLogger) Debug(context.Context, string, map[string]interface{})        {}
func (n nopLogger) WithFields(map[string]interface{}) Logger                   { return n }
