// Package logging provides the structured logging abstraction used by every stage
// of the budget analysis. Components depend on Logger, never on logrus directly,
// so tests can swap in MockLogger.
package logging

// Logger is the structured logger handed to components through their constructors.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a child logger that carries err on every entry.
	WithError(err error) Logger

	// WithField returns a child logger that carries a single field on every entry.
	WithField(key string, value interface{}) Logger

	// WithFields returns a child logger that carries fields on every entry.
	WithFields(fields ...Field) Logger
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
