package tinyframe

// Logger is an optional logging interface for engine diagnostics. This
// allows integration with any logging framework; see the transport
// package for a zerolog adapter.
//
// Example with the standard log package:
//
//	type StdLogger struct{}
//	func (l StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}

// logDebug logs a debug message if a logger is configured.
func (e *Engine) logDebug(msg string, keysAndValues ...interface{}) {
	if e.log != nil {
		e.log.Debug(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (e *Engine) logError(msg string, keysAndValues ...interface{}) {
	if e.log != nil {
		e.log.Error(msg, keysAndValues...)
	}
}
