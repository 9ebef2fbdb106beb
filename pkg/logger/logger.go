package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Level is the minimum severity a logger emits
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// ParseLevel maps a level name to a Level, defaulting to LevelInfo
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// minLevel is shared by every logger so one setting controls the whole process
var minLevel atomic.Int32

func init() {
	minLevel.Store(int32(LevelInfo))
}

// SetLevel sets the minimum level for all loggers
func SetLevel(level Level) {
	minLevel.Store(int32(level))
}

// Logger is a wrapper around the standard library logger
type Logger struct {
	*log.Logger
	component string
}

// New creates a new logger tagged with the given component
func New(component string) *Logger {
	return NewWithWriter(component, os.Stdout)
}

// NewWithWriter creates a logger that writes to w
func NewWithWriter(component string, w io.Writer) *Logger {
	return &Logger{
		Logger:    log.New(w, "", 0),
		component: component,
	}
}

// With returns a logger for a sub-component, e.g. "api" -> "api/course"
func (l *Logger) With(component string) *Logger {
	name := component
	if l.component != "" {
		name = l.component + "/" + component
	}
	return &Logger{Logger: l.Logger, component: name}
}

// formatMessage formats a log message with timestamp and component
func (l *Logger) formatMessage(level Level, format string, v ...interface{}) string {
	timestamp := time.Now().Format(time.RFC3339)
	message := fmt.Sprintf(format, v...)

	if l.component != "" {
		return fmt.Sprintf("[%s] [%s] [%s] %s", timestamp, levelNames[level], l.component, message)
	}

	return fmt.Sprintf("[%s] [%s] %s", timestamp, levelNames[level], message)
}

func (l *Logger) emit(level Level, format string, v ...interface{}) {
	if int32(level) < minLevel.Load() {
		return
	}
	l.Logger.Println(l.formatMessage(level, format, v...))
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.emit(LevelInfo, format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.emit(LevelError, format, v...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.emit(LevelDebug, format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.emit(LevelWarn, format, v...)
}

// Global logger instance for application-wide logging
var Global = New("")
