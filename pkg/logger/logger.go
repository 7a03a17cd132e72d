// pkg/logger/logger.go
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

const timeLayout = "2006-01-02 15:04:05,000"

// Logger is a wrapper around the standard log.Logger that writes
// "<timestamp> - <LEVEL> - <message>" lines.
type Logger struct {
	*log.Logger
	now func() time.Time
}

// New creates a new logger instance writing to w.
func New(w io.Writer) *Logger {
	return &Logger{
		Logger: log.New(w, "", 0),
		now:    time.Now,
	}
}

// Open appends to the log file at path, creating it if needed.
// The returned closer releases the file.
func Open(path string) (*Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	return New(f), f, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard)
}

func (l *Logger) output(level, msg string) {
	l.Printf("%s - %s - %s", l.now().Format(timeLayout), level, msg)
}

// Info logs an informational message.
func (l *Logger) Info(v ...interface{}) {
	l.output("INFO", fmt.Sprint(v...))
}

// Error logs an error message.
func (l *Logger) Error(v ...interface{}) {
	l.output("ERROR", fmt.Sprint(v...))
}

// Warn logs a warning message.
func (l *Logger) Warn(v ...interface{}) {
	l.output("WARNING", fmt.Sprint(v...))
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.output("INFO", fmt.Sprintf(format, v...))
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.output("WARNING", fmt.Sprintf(format, v...))
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.output("ERROR", fmt.Sprintf(format, v...))
}
