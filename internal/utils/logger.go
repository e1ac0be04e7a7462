package utils

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

type Fields = logrus.Fields

const (
	CorrelationIDKey contextKey = "correlation_id"
	RequestIDKey     contextKey = "request_id"
)

// logger starts at info on stdout; ConfigureLogger applies the loaded config.
var logger = newLogger(os.Stdout)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	l.SetLevel(logrus.InfoLevel)
	l.SetOutput(w)
	return l
}

// ConfigureLogger sets the shared logger's level. An empty level means info.
// On an unknown level the logger keeps its current level.
func ConfigureLogger(level string) error {
	if level == "" {
		level = logrus.InfoLevel.String()
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(parsed)
	return nil
}

func GetLogger() *logrus.Logger {
	return logger
}

// SetLogOutput redirects the shared logger, e.g. away from a terminal UI.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, correlationID)
}

func GetCorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(CorrelationIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func GenerateCorrelationID() string {
	return uuid.New().String()
}

func GenerateRequestID() string {
	return "req_" + uuid.New().String()
}

// LoggerFromContext returns an entry tagged with the IDs carried by ctx.
func LoggerFromContext(ctx context.Context) *logrus.Entry {
	ids := logrus.Fields{}
	if correlationID := GetCorrelationID(ctx); correlationID != "" {
		ids["correlation_id"] = correlationID
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		ids["request_id"] = requestID
	}
	return logger.WithFields(ids)
}

func entryFor(ctx context.Context, fields []logrus.Fields) *logrus.Entry {
	entry := LoggerFromContext(ctx)
	for _, f := range fields {
		entry = entry.WithFields(f)
	}
	return entry
}

func LogInfo(ctx context.Context, message string, fields ...logrus.Fields) {
	entryFor(ctx, fields).Info(message)
}

func LogError(ctx context.Context, message string, err error, fields ...logrus.Fields) {
	entryFor(ctx, fields).WithError(err).Error(message)
}

func LogWarn(ctx context.Context, message string, fields ...logrus.Fields) {
	entryFor(ctx, fields).Warn(message)
}

func LogDebug(ctx context.Context, message string, fields ...logrus.Fields) {
	entryFor(ctx, fields).Debug(message)
}
