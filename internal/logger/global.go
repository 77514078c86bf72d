package logger

import (
	"os"
	"strings"
	"sync/atomic"
)

var global atomic.Pointer[Logger]

func init() {
	global.Store(New(Config{
		Level:  ParseLevel(os.Getenv("LOG_LEVEL"), INFO),
		Format: ParseFormat(os.Getenv("LOG_FORMAT"), JSONFormat),
	}))
}

// ParseLevel maps a level name to a LogLevel, returning def for anything
// unrecognized.
func ParseLevel(level string, def LogLevel) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return def
	}
}

// ParseFormat maps "json" or "text" to a LogFormat, returning def otherwise.
func ParseFormat(format string, def LogFormat) LogFormat {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONFormat
	case "text":
		return TextFormat
	default:
		return def
	}
}

// Configure replaces the global logger from level, format and file
// settings and returns it.
func Configure(level, format, file string) *Logger {
	l := New(Config{
		Level:  ParseLevel(level, INFO),
		Format: ParseFormat(format, JSONFormat),
		File:   file,
	})
	global.Store(l)
	return l
}

func GetGlobalLogger() *Logger {
	return global.Load()
}

func SetGlobalLogger(l *Logger) {
	global.Store(l)
}

func Debug(message string, fields ...Fields) {
	global.Load().log(DEBUG, message, first(fields), nil)
}

func Info(message string, fields ...Fields) {
	global.Load().log(INFO, message, first(fields), nil)
}

func Warn(message string, fields ...Fields) {
	global.Load().log(WARN, message, first(fields), nil)
}

func Error(message string, err error, fields ...Fields) {
	global.Load().log(ERROR, message, first(fields), err)
}

func Fatal(message string, err error, fields ...Fields) {
	global.Load().log(FATAL, message, first(fields), err)
}
