// Package logging hides the concrete logging backend behind a small structured
// logging interface so that importer components can be tested with a mock.
package logging

// Logger is the structured logger every component receives through its constructor.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a child logger carrying err.
	WithError(err error) Logger

	// WithField returns a child logger carrying a single key/value pair.
	WithField(key string, value interface{}) Logger

	// WithFields returns a child logger carrying all given fields.
	WithFields(fields ...Field) Logger

	// Fatal logs and exits the process. Only the CLI layer should call it.
	Fatal(msg string, fields ...Field)
	Fatalf(msg string, args ...interface{})
}

// Field is a key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// OrDefault returns logger, or an info level text logger when logger is nil.
func OrDefault(logger Logger) Logger {
	if logger == nil {
		return NewLogrusAdapter("info", "text")
	}
	return logger
}
