package logger

import (
	"io"
	"log"
	"os"
)

// Logger writes leveled, printf-style application logs.
type Logger struct {
	info  *log.Logger
	warn  *log.Logger
	error *log.Logger
}

func New() *Logger {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter sends every level to w.
func NewWithWriter(w io.Writer) *Logger {
	flags := log.Ldate | log.Ltime | log.LUTC
	return &Logger{
		info:  log.New(w, "INFO  ", flags),
		warn:  log.New(w, "WARN  ", flags),
		error: log.New(w, "ERROR ", flags),
	}
}

// Discard returns a Logger that drops everything. Used by tests.
func Discard() *Logger {
	return NewWithWriter(io.Discard)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.info.Printf(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.warn.Printf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.error.Printf(format, args...)
}

// Writer exposes the info stream, for libraries that want an io.Writer.
func (l *Logger) Writer() io.Writer {
	return l.info.Writer()
}
