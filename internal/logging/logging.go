package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Logger exposes the minimal structured logging surface used across the service.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Error(msg string)
	With(fields ...Field) Logger
}

// Field represents a structured logging key/value pair.
type Field struct {
	Key   string
	Value any
}

// stdLogger is a simple Logger implementation backed by the standard library log package.
type stdLogger struct {
	base  *log.Logger
	mu    sync.Mutex
	scope []Field
	debug bool
}

// NewStdLogger creates a logger writing to stdout.
func NewStdLogger() Logger {
	return NewStdLoggerWithWriter(os.Stdout)
}

// NewStdLoggerWithWriter creates a logger that writes to the provided io.Writer.
func NewStdLoggerWithWriter(w io.Writer) Logger {
	return &stdLogger{
		base:  log.New(w, "future-workshop ", log.LstdFlags|log.Lmicroseconds),
		debug: os.Getenv("WORKSHOP_DEBUG") != "",
	}
}

func (l *stdLogger) Debug(msg string) {
	if !l.debug {
		return
	}
	l.logWithLevel("DEBUG", msg)
}

func (l *stdLogger) Info(msg string) {
	l.logWithLevel("INFO", msg)
}

func (l *stdLogger) Error(msg string) {
	l.logWithLevel("ERROR", msg)
}

func (l *stdLogger) With(fields ...Field) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	return &stdLogger{
		base:  l.base,
		scope: append(append([]Field{}, l.scope...), fields...),
		debug: l.debug,
	}
}

func (l *stdLogger) logWithLevel(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.scope) == 0 {
		l.base.Printf("[%s] %s", level, msg)
		return
	}

	l.base.Printf("[%s] %s %s", level, msg, renderFields(l.scope))
}

func renderFields(fields []Field) string {
	builder := strings.Builder{}
	builder.WriteString("[")
	for idx, f := range fields {
		if idx > 0 {
			builder.WriteString(" ")
		}
		builder.WriteString(fmt.Sprintf("%s=%v", f.Key, f.Value))
	}
	builder.WriteString("]")
	return builder.String()
}
