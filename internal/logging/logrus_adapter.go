package logging

import (
	"github.com/sirupsen/logrus"
)

// LogrusAdapter is the Logger used by the importer at runtime. The CLI and
// the container share one logrus.Logger; every WithField/WithFields/WithError
// call returns an adapter around a derived entry of that same logger, so
// import_id and account_id fields stay attached through a stage or confirm.
type LogrusAdapter struct {
	logger *logrus.Logger
	entry  *logrus.Entry
}

// NewLogrusAdapter builds a Logger from the log.level and log.format
// settings. An unknown level falls back to info; any format other than
// "json" prints text with full timestamps.
func NewLogrusAdapter(level, format string) Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return wrap(logger)
}

// NewLogrusAdapterFromLogger wraps the logger configured by the root
// command. A nil logger gets logrus defaults.
func NewLogrusAdapterFromLogger(logger *logrus.Logger) Logger {
	if logger == nil {
		logger = logrus.New()
	}
	return wrap(logger)
}

func wrap(logger *logrus.Logger) *LogrusAdapter {
	return &LogrusAdapter{logger: logger, entry: logrus.NewEntry(logger)}
}

func (l *LogrusAdapter) derive(entry *logrus.Entry) Logger {
	return &LogrusAdapter{logger: l.logger, entry: entry}
}

func (l *LogrusAdapter) Debug(msg string, fields ...Field) {
	l.entry.WithFields(convertFields(fields)).Debug(msg)
}

func (l *LogrusAdapter) Info(msg string, fields ...Field) {
	l.entry.WithFields(convertFields(fields)).Info(msg)
}

func (l *LogrusAdapter) Warn(msg string, fields ...Field) {
	l.entry.WithFields(convertFields(fields)).Warn(msg)
}

func (l *LogrusAdapter) Error(msg string, fields ...Field) {
	l.entry.WithFields(convertFields(fields)).Error(msg)
}

// WithError attaches err under logrus' "error" key.
func (l *LogrusAdapter) WithError(err error) Logger {
	return l.derive(l.entry.WithError(err))
}

func (l *LogrusAdapter) WithField(key string, value interface{}) Logger {
	return l.derive(l.entry.WithField(key, value))
}

func (l *LogrusAdapter) WithFields(fields ...Field) Logger {
	return l.derive(l.entry.WithFields(convertFields(fields)))
}

// Fatal and Fatalf log and then exit the process.
func (l *LogrusAdapter) Fatal(msg string, fields ...Field) {
	l.entry.WithFields(convertFields(fields)).Fatal(msg)
}

func (l *LogrusAdapter) Fatalf(msg string, args ...interface{}) {
	l.entry.Fatalf(msg, args...)
}

// Logrus exposes the underlying logger, e.g. to redirect output in the CLI.
func (l *LogrusAdapter) Logrus() *logrus.Logger {
	return l.logger
}

func convertFields(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}
