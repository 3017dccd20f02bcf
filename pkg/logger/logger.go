// Package logger is the levelled stderr logger of the CLI. Lines are either a single pretty
// line per event or one JSON object per event.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Level represents the severity level of log messages
type Level int

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}

var levelColors = [...]string{"37", "36", "32", "33", "31"}

func (l Level) String() string {
	if l < TraceLevel || l > ErrorLevel {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel maps a flag value to a Level. Unknown values fall back to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return TraceLevel
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Config holds the logger configuration
type Config struct {
	Level     Level
	UseColor  bool
	JSON      bool
	Component string
	// DryRun tags every pretty line so validate-only runs are distinguishable from builds.
	DryRun bool
}

// Logger writes entries at or above its configured level. Safe for concurrent use.
type Logger struct {
	config Config
	mu     sync.Mutex
	out    io.Writer
}

// New returns a logger writing to w.
func New(w io.Writer, config Config) *Logger {
	return &Logger{config: config, out: w}
}

// std starts at info level so warnings emitted before Initialize still reach stderr.
var std = New(os.Stderr, Config{Level: InfoLevel, Component: "souffle-content"})

// Initialize replaces the default logger. Output stays on stderr until SetOutput.
func Initialize(config Config) {
	std = New(os.Stderr, config)
}

// SetOutput sets the output writer for the default logger
func SetOutput(w io.Writer) {
	std.mu.Lock()
	std.out = w
	std.mu.Unlock()
}

// ColorSupported reports whether w is a terminal that can render ANSI colours.
func ColorSupported(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Entry is one logged event; it is also the JSON line shape.
type Entry struct {
	Time      time.Time      `json:"time"`
	Level     Level          `json:"-"`
	LevelName string         `json:"level"`
	Message   string         `json:"message"`
	Component string         `json:"component,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Log writes message at level with fields attached.
func (l *Logger) Log(level Level, message string, fields ...Field) {
	if level < l.config.Level {
		return
	}
	e := Entry{
		Time:      time.Now(),
		Level:     level,
		LevelName: level.String(),
		Message:   message,
		Component: l.config.Component,
	}
	if len(fields) > 0 {
		e.Fields = make(map[string]any, len(fields))
		for _, f := range fields {
			e.Fields[f.Key] = f.Value
		}
	}

	var line string
	if l.config.JSON {
		data, err := json.Marshal(e)
		if err != nil {
			line = fmt.Sprintf(`{"level":"ERROR","message":"unencodable log entry: %v"}`, err)
		} else {
			line = string(data)
		}
	} else {
		line = l.pretty(e)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, line+"\n")
}

func (l *Logger) paint(code, s string) string {
	if !l.config.UseColor {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// pretty renders "time [LEVEL] component: [DRY-RUN] message {k=v, ...}" with sorted keys.
func (l *Logger) pretty(e Entry) string {
	var b strings.Builder
	b.WriteString(e.Time.Format("2006-01-02 15:04:05"))

	name := e.LevelName
	if e.Level >= TraceLevel && e.Level <= ErrorLevel {
		name = l.paint(levelColors[e.Level], name)
	}
	fmt.Fprintf(&b, " [%s]", name)
	if e.Component != "" {
		fmt.Fprintf(&b, " %s:", e.Component)
	}
	if l.config.DryRun {
		b.WriteString(" " + l.paint("35", "[DRY-RUN]"))
	}
	b.WriteString(" " + e.Message)

	if len(e.Fields) == 0 {
		return b.String()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%v", k, e.Fields[k])
	}
	b.WriteString(" {" + strings.Join(pairs, ", ") + "}")
	return b.String()
}

// Field is a key/value attached to an entry.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field { return Field{Key: key, Value: value} }

func Int(key string, value int) Field { return Field{Key: key, Value: value} }

func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Strings joins values with commas.
func Strings(key string, values []string) Field {
	return Field{Key: key, Value: strings.Join(values, ",")}
}

// Err records err under the "error" key.
func Err(err error) Field {
	return Field{Key: "error", Value: err.Error()}
}

func Trace(message string, fields ...Field) { std.Log(TraceLevel, message, fields...) }
func Debug(message string, fields ...Field) { std.Log(DebugLevel, message, fields...) }
func Info(message string, fields ...Field) { std.Log(InfoLevel, message, fields...) }
func Warn(message string, fields ...Field) { std.Log(WarnLevel, message, fields...) }
func Error(message string, fields ...Field) { std.Log(ErrorLevel, message, fields...) }
