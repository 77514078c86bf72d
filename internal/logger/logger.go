// Package logger is a small leveled, structured logger writing JSON or
// text lines. Output can be rotated through lumberjack when a log file is
// configured.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/natefinch/lumberjack"
)

// LogLevel is the severity of a log line.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// LogFormat selects the line encoding.
type LogFormat int

const (
	JSONFormat LogFormat = iota
	TextFormat
)

// Fields are structured key/value pairs attached to a line.
type Fields map[string]interface{}

// LogEntry is one encoded line.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Component string `json:"component,omitempty"`
	Caller    string `json:"caller,omitempty"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Logger writes leveled entries. Loggers derived with WithComponent share
// the parent's output and lock.
type Logger struct {
	out       *output
	level     LogLevel
	format    LogFormat
	component string
}

type output struct {
	mu sync.Mutex
	w  io.Writer
}

// Config holds logger configuration. When File is set, lines are also
// written to a size-rotated file.
type Config struct {
	Level      LogLevel
	Format     LogFormat
	Output     io.Writer
	File       string
	MaxSizeMB  int
	MaxBackups int
	Component  string
}

// exit is replaced in tests.
var exit = os.Exit

// New creates a logger from config.
func New(config Config) *Logger {
	w := config.Output
	if w == nil {
		w = os.Stdout
	}
	if config.File != "" {
		w = io.MultiWriter(w, &lumberjack.Logger{
			Filename:   config.File,
			MaxSize:    orDefault(config.MaxSizeMB, 50),
			MaxBackups: orDefault(config.MaxBackups, 5),
			Compress:   true,
		})
	}
	return &Logger{
		out:       &output{w: w},
		level:     config.Level,
		format:    config.Format,
		component: config.Component,
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// NewDefault logs INFO and above as JSON to stdout.
func NewDefault() *Logger {
	return New(Config{Level: INFO, Format: JSONFormat})
}

// Discard returns a logger that drops everything, for tests.
func Discard() *Logger {
	return New(Config{Level: FATAL + 1, Output: io.Discard})
}

// WithComponent returns a logger tagging its lines with component.
func (l *Logger) WithComponent(component string) *Logger {
	c := *l
	c.component = component
	return &c
}

// Level returns the minimum level written.
func (l *Logger) Level() LogLevel {
	return l.level
}

func (l *Logger) log(level LogLevel, message string, fields Fields, err error) {
	if level < l.level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level.String(),
		Message:   message,
		Component: l.component,
		Caller:    caller(3),
		Fields:    fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	var line []byte
	if l.format == JSONFormat {
		b, mErr := json.Marshal(entry)
		if mErr != nil {
			entry.Fields = Fields{"marshal_error": mErr.Error()}
			b, _ = json.Marshal(entry)
		}
		line = append(b, '\n')
	} else {
		line = []byte(formatText(entry))
	}

	l.out.mu.Lock()
	_, _ = l.out.w.Write(line)
	l.out.mu.Unlock()

	if level == FATAL {
		exit(1)
	}
}

func caller(skip int) string {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	if i := strings.LastIndex(file, "/"); i >= 0 {
		file = file[i+1:]
	}
	name := ""
	if fn := runtime.FuncForPC(pc); fn != nil {
		name = fn.Name()
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
	}
	return fmt.Sprintf("%s:%d %s", file, line, name)
}

func formatText(entry LogEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", entry.Timestamp, entry.Level)
	if entry.Component != "" {
		fmt.Fprintf(&b, " [%s]", entry.Component)
	}
	b.WriteString(" ")
	b.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
		}
	}
	if entry.Error != "" {
		fmt.Fprintf(&b, " error=%q", entry.Error)
	}
	if entry.Caller != "" {
		fmt.Fprintf(&b, " (%s)", entry.Caller)
	}
	b.WriteString("\n")
	return b.String()
}

func first(fields []Fields) Fields {
	if len(fields) > 0 {
		return fields[0]
	}
	return nil
}

func (l *Logger) Debug(message string, fields ...Fields) {
	l.log(DEBUG, message, first(fields), nil)
}

func (l *Logger) Info(message string, fields ...Fields) {
	l.log(INFO, message, first(fields), nil)
}

func (l *Logger) Warn(message string, fields ...Fields) {
	l.log(WARN, message, first(fields), nil)
}

func (l *Logger) Error(message string, err error, fields ...Fields) {
	l.log(ERROR, message, first(fields), err)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(message string, err error, fields ...Fields) {
	l.log(FATAL, message, first(fields), err)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(INFO, fmt.Sprintf(format, args...), nil, nil)
}

// Writer returns an io.Writer that logs each written line at level. It is
// meant for libraries that want a plain writer, such as access loggers.
func (l *Logger) Writer(level LogLevel) io.Writer {
	return lineWriter{l: l, level: level}
}

type lineWriter struct {
	l     *Logger
	level LogLevel
}

func (w lineWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line != "" {
			w.l.log(w.level, line, nil, nil)
		}
	}
	return len(p), nil
}
