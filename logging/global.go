package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	globalLogger Logger
	globalMu     sync.RWMutex
)

// Global returns the process logger, creating a terminal logger on first use.
func Global() Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = NewLogger(DefaultConfig())
	}
	return globalLogger
}

// SetGlobal replaces the global logger with the given logger.
func SetGlobal(logger Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}

// Init initializes the global logger with the given config.
func Init(config Config) Logger {
	l := NewLogger(config)
	SetGlobal(l)
	return l
}

func Info(msg string, fields ...zap.Field)  { Global().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Global().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Global().Error(msg, fields...) }

// Named creates a child logger from the global logger with the given name.
func Named(name string) Logger {
	return Global().Named(name)
}

// Sync flushes any buffered log entries from the global logger.
func Sync() error {
	return Global().Sync()
}
