package logger

import "sync"

// registry is the global named-logger registry. Its mutex also guards
// globalLogger.
var registry = &loggerRegistry{
	loggers: make(map[string]*Logger),
}

type loggerRegistry struct {
	mu      sync.Mutex
	loggers map[string]*Logger
}

// Register stores a named logger in the registry.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.loggers[name] = l
}

// Get retrieves a named logger. If the name is not registered it returns the
// global logger tagged with the requested component name.
func Get(name string) *Logger {
	registry.mu.Lock()
	l, ok := registry.loggers[name]
	registry.mu.Unlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}
