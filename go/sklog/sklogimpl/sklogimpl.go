// Package sklogimpl holds the pluggable backend behind package sklog. It is
// separate from sklog so that backends can import it without a cycle.
package sklogimpl

import (
	"sync"
)

// Severity is the level of a log line.
type Severity int

// Severities, from least to most severe.
const (
	Debug Severity = iota
	Info
	Warning
	Error
	Fatal
)

// String returns the name of the severity.
func (s Severity) String() string {
	switch s {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case Fatal:
		return "FATAL"
	}
	return "UNKNOWN"
}

// Logger is implemented by logging backends.
type Logger interface {
	// Log writes one log line. depth is the number of stack frames between
	// the user's call site and Log; fmt is empty when args should be joined
	// with fmt.Sprint.
	Log(depth int, severity Severity, fmt string, args ...interface{})

	// Flush flushes any buffered output.
	Flush()
}

var (
	mtx    sync.RWMutex
	logger Logger
)

// SetLogger replaces the active backend.
func SetLogger(l Logger) {
	mtx.Lock()
	defer mtx.Unlock()
	logger = l
}

// Log forwards to the active backend.
func Log(depth int, severity Severity, fmt string, args ...interface{}) {
	mtx.RLock()
	l := logger
	mtx.RUnlock()
	if l == nil {
		return
	}
	l.Log(depth+1, severity, fmt, args...)
}

// Flush flushes the active backend.
func Flush() {
	mtx.RLock()
	l := logger
	mtx.RUnlock()
	if l != nil {
		l.Flush()
	}
}
