// Package logger is a small logging facade: the engine logs through
// package-level functions and one or more pluggable backends receive every
// record. Call Init once at process start; logging before Init is a no-op.
package logger

// LoggerInstance is the interface a logging backend implements.
type LoggerInstance interface {
	Log(message string, keyvals ...any)
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
	Fatal(message string, keyvals ...any)
}

var instances []LoggerInstance

// Init installs the logging backends. It must be called before any logging
// function for output to appear.
func Init(backends ...LoggerInstance) {
	instances = backends
}

func dispatch(fn func(LoggerInstance)) {
	for _, instance := range instances {
		fn(instance)
	}
}

// Log writes a message at the default level to all backends.
func Log(message string, keyvals ...any) {
	dispatch(func(i LoggerInstance) { i.Log(message, keyvals...) })
}

// Debug writes a message at DEBUG level to all backends.
func Debug(message string, keyvals ...any) {
	dispatch(func(i LoggerInstance) { i.Debug(message, keyvals...) })
}

// Info writes a message at INFO level to all backends.
func Info(message string, keyvals ...any) {
	dispatch(func(i LoggerInstance) { i.Info(message, keyvals...) })
}

// Warn writes a message at WARN level to all backends.
func Warn(message string, keyvals ...any) {
	dispatch(func(i LoggerInstance) { i.Warn(message, keyvals...) })
}

// Error writes a message at ERROR level to all backends.
func Error(message string, keyvals ...any) {
	dispatch(func(i LoggerInstance) { i.Error(message, keyvals...) })
}

// Fatal writes a message at FATAL level and terminates the program.
func Fatal(message string, keyvals ...any) {
	dispatch(func(i LoggerInstance) { i.Fatal(message, keyvals...) })
}
