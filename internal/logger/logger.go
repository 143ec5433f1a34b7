// Package logger writes levelled, component-tagged log lines to stdout
// (coloured) and optionally to a file.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gookit/color"
)

// Level is a log level.
type Level int

// Log levels.
const (
	Debug Level = iota + 1
	Info
	Warn
	Error
)

// ParseLevel accepts debug, info, warn and error.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, nil
	case "", "info":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	}
	return 0, fmt.Errorf("invalid log level %q", s)
}

func (l Level) tag() (string, color.Color) {
	switch l {
	case Debug:
		return "DEB", color.Gray
	case Warn:
		return "WAR", color.Yellow
	case Error:
		return "ERR", color.Red
	default:
		return "INF", color.Green
	}
}

// Logger is a log handler. The zero value is not usable; use New.
type Logger struct {
	level  Level
	stdout io.Writer
	color  bool

	mutex sync.Mutex
	file  *os.File
	buf   bytes.Buffer
}

// New allocates a logger writing to stdout and, when filePath is set, to
// that file as well.
func New(level Level, filePath string) (*Logger, error) {
	l := &Logger{level: level, stdout: os.Stdout, color: true}

	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
	}

	return l, nil
}

// NewWriter allocates a logger that writes uncoloured lines to w only.
func NewWriter(level Level, w io.Writer) *Logger {
	return &Logger{level: level, stdout: w}
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Logger) writeLine(w io.Writer, level Level, component, msg string, doColor bool) {
	l.buf.Reset()

	ts := time.Now().Format("2006/01/02 15:04:05 ")
	tag, c := level.tag()
	if doColor {
		l.buf.WriteString(color.Gray.Render(ts))
		l.buf.WriteString(c.Render(tag))
	} else {
		l.buf.WriteString(ts)
		l.buf.WriteString(tag)
	}
	l.buf.WriteByte(' ')
	if component != "" {
		l.buf.WriteString("[" + component + "] ")
	}
	l.buf.WriteString(msg)
	l.buf.WriteByte('\n')

	w.Write(l.buf.Bytes()) //nolint:errcheck
}

// Log writes a log entry.
func (l *Logger) Log(level Level, component string, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)

	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.stdout != nil {
		l.writeLine(l.stdout, level, component, msg, l.color)
	}
	if l.file != nil {
		l.writeLine(l.file, level, component, msg, false)
	}
}

func (l *Logger) Debugf(component string, format string, args ...interface{}) {
	l.Log(Debug, component, format, args...)
}

func (l *Logger) Infof(component string, format string, args ...interface{}) {
	l.Log(Info, component, format, args...)
}

func (l *Logger) Warnf(component string, format string, args ...interface{}) {
	l.Log(Warn, component, format, args...)
}

func (l *Logger) Errorf(component string, format string, args ...interface{}) {
	l.Log(Error, component, format, args...)
}

// Noop discards everything.
type Noop struct{}

func (Noop) Debugf(string, string, ...interface{}) {}
func (Noop) Infof(string, string, ...interface{})  {}
func (Noop) Warnf(string, string, ...interface{})  {}
func (Noop) Errorf(string, string, ...interface{}) {}
