// Package logger writes levelled messages tagged with the component that
// produced them. All loggers share one destination and one level.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level is the severity of a message.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelStyles = [...]struct {
	name  string
	color string
}{
	DEBUG: {"DEBUG", "\033[36m"},
	INFO:  {"INFO", "\033[32m"},
	WARN:  {"WARN", "\033[33m"},
	ERROR: {"ERROR", "\033[31m"},
}

const colorReset = "\033[0m"

func (l Level) String() string {
	if l < DEBUG || l > ERROR {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelStyles[l].name
}

// ParseLevel converts a level name. Unknown names map to INFO.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

// sink is the destination shared by every Logger.
type sink struct {
	mu    sync.Mutex
	level Level
	out   *log.Logger
	color bool
}

func newSink(w io.Writer, level Level, color bool) *sink {
	return &sink{level: level, out: log.New(w, "", log.LstdFlags), color: color}
}

var std = newSink(os.Stderr, INFO, isTerminal(os.Stderr))

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// Init sets the level of every logger from its name.
func Init(levelName string) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = ParseLevel(levelName)
}

// SetOutput redirects every logger to w.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.out.SetOutput(w)
}

// SetColor turns ANSI colors on the level tag on or off.
func SetColor(enable bool) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.color = enable
}

// Enabled reports whether messages of the given level are written.
func Enabled(level Level) bool {
	std.mu.Lock()
	defer std.mu.Unlock()
	return level >= std.level
}

// Logger writes messages on behalf of one component.
type Logger struct {
	component string
}

// Named returns the logger of a component.
func Named(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) write(level Level, format string, args []interface{}) {
	std.mu.Lock()
	defer std.mu.Unlock()
	if level < std.level {
		return
	}

	tag := "[" + level.String() + "]"
	if std.color {
		tag = levelStyles[level].color + tag + colorReset
	}
	msg := fmt.Sprintf(format, args...)
	if l.component != "" {
		msg = l.component + ": " + msg
	}
	std.out.Print(tag + " " + msg)
}

// Debugf logs a debug message.
func (l *Logger) Debugf(format string, args ...interface{}) { l.write(DEBUG, format, args) }

// Infof logs an informational message.
func (l *Logger) Infof(format string, args ...interface{}) { l.write(INFO, format, args) }

// Warnf logs a warning.
func (l *Logger) Warnf(format string, args ...interface{}) { l.write(WARN, format, args) }

// Errorf logs an error.
func (l *Logger) Errorf(format string, args ...interface{}) { l.write(ERROR, format, args) }
