// Package logging provides leveled structured logging in JSON or
// human-readable form.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Level represents the severity of a log message
type Level string

const (
	// DebugLevel for debug messages
	DebugLevel Level = "debug"
	// InfoLevel for informational messages
	InfoLevel Level = "info"
	// WarnLevel for warning messages
	WarnLevel Level = "warn"
	// ErrorLevel for error messages
	ErrorLevel Level = "error"
)

var levelPriority = map[Level]int{
	DebugLevel: 0,
	InfoLevel:  1,
	WarnLevel:  2,
	ErrorLevel: 3,
}

// Format represents the output format for logs
type Format string

const (
	// JSONFormat outputs one JSON object per line
	JSONFormat Format = "json"
	// HumanFormat outputs logs in human-readable form
	HumanFormat Format = "human"
)

// Fields carries structured key/value context for a log entry
type Fields map[string]interface{}

// Config holds logger configuration
type Config struct {
	Format Format
	Level  Level
	Output io.Writer // Optional, defaults to stderr
}

// Logger provides structured logging
type Logger struct {
	config Config
	writer io.Writer
}

// NewLogger creates a new logger with the given configuration
func NewLogger(config Config) *Logger {
	writer := config.Output
	if writer == nil {
		writer = os.Stderr
	}
	return &Logger{config: config, writer: writer}
}

type entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
}

func (l *Logger) shouldLog(level Level) bool {
	return levelPriority[level] >= levelPriority[l.config.Level]
}

func (l *Logger) log(level Level, message string, fields Fields) {
	if !l.shouldLog(level) {
		return
	}

	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    fields,
	}

	if l.config.Format == JSONFormat {
		data, err := json.Marshal(e)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to marshal log entry: %v\n", err)
			return
		}
		_, _ = fmt.Fprintln(l.writer, string(data))
		return
	}

	_, _ = fmt.Fprintf(l.writer, "%s [%s] %s", e.Timestamp, e.Level, e.Message)
	if len(e.Fields) > 0 {
		_, _ = fmt.Fprint(l.writer, " |")
		for k, v := range e.Fields {
			_, _ = fmt.Fprintf(l.writer, " %s=%v", k, v)
		}
	}
	_, _ = fmt.Fprintln(l.writer)
}

// Debug logs a debug message
func (l *Logger) Debug(message string, fields Fields) {
	l.log(DebugLevel, message, fields)
}

// Info logs an info message
func (l *Logger) Info(message string, fields Fields) {
	l.log(InfoLevel, message, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, fields Fields) {
	l.log(WarnLevel, message, fields)
}

// Error logs an error message
func (l *Logger) Error(message string, fields Fields) {
	l.log(ErrorLevel, message, fields)
}

// ParseLevel converts a string to a Level, defaulting to info
func ParseLevel(s string) Level {
	switch Level(s) {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return Level(s)
	default:
		return InfoLevel
	}
}
