package logging

import (
	"log"
	"os"
)

// Level represents logging verbosity.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// Logger provides leveled logging with a component prefix.
type Logger struct {
	level     Level
	component string
}

// New creates a logger with the specified level.
func New(level Level) *Logger {
	return &Logger{level: level}
}

// NewDefault creates a logger based on the LOG_LEVEL environment variable.
func NewDefault() *Logger {
	level := LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "ERROR":
		level = LevelError
	case "WARN":
		level = LevelWarn
	case "INFO":
		level = LevelInfo
	case "DEBUG":
		level = LevelDebug
	}
	return &Logger{level: level}
}

// WithComponent returns a logger whose lines carry a [Component] prefix.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{level: l.level, component: name}
}

func (l *Logger) prefix(tag string) string {
	if l.component != "" {
		return tag + " [" + l.component + "] "
	}
	return tag + " "
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LevelError {
		log.Printf(l.prefix("[ERROR]")+format, args...)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LevelWarn {
		log.Printf(l.prefix("[WARN]")+format, args...)
	}
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LevelInfo {
		log.Printf(l.prefix("[INFO]")+format, args...)
	}
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LevelDebug {
		log.Printf(l.prefix("[DEBUG]")+format, args...)
	}
}

// Default is the package-level logger used when none is injected.
var Default = NewDefault()
