package logging

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ANSI color codes for terminal output
const (
	colorRed    = "\033[97;41m" // White text on red background
	colorGreen  = "\033[97;42m" // White text on green background
	colorYellow = "\033[90;43m" // Black text on yellow background
	colorBlue   = "\033[97;44m" // White text on blue background
	colorCyan   = "\033[97;46m" // White text on cyan background
	colorReset  = "\033[0m"
)

// Log levels
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var levelRank = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

type Logger struct {
	*log.Logger
	writer   *lumberjack.Logger
	level    int
	requests bool
}

func NewLogger(config *Config) (*Logger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var out io.Writer = os.Stdout
	var writer *lumberjack.Logger

	if config.File != "" {
		// Expand home directory in log file path
		logFile := config.File
		if strings.HasPrefix(logFile, "~/") {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get home directory: %w", err)
			}
			logFile = filepath.Join(homeDir, logFile[2:])
		}

		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		writer = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    config.MaxSize, // MB
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge, // days
			Compress:   true,
		}
		out = io.MultiWriter(writer, os.Stdout)
	}

	return &Logger{
		Logger:   log.New(out, "", log.LstdFlags),
		writer:   writer,
		level:    levelRank[strings.ToLower(config.Level)],
		requests: config.Requests,
	}, nil
}

// NewWriterLogger creates a logger that writes to w only. Used by tests and
// by commands that should not touch the log file.
func NewWriterLogger(w io.Writer, level string) *Logger {
	rank, ok := levelRank[strings.ToLower(level)]
	if !ok {
		rank = levelRank[LevelInfo]
	}
	return &Logger{
		Logger: log.New(w, "", log.LstdFlags),
		level:  rank,
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWriterLogger(io.Discard, LevelError)
}

func (l *Logger) Close() error {
	if l.writer == nil {
		return nil
	}
	return l.writer.Close()
}

func (l *Logger) enabled(level string) bool {
	return levelRank[level] >= l.level
}

func (l *Logger) Debug(format string, v ...interface{}) {
	if !l.enabled(LevelDebug) {
		return
	}
	prefix := colorBlue + "[DEBUG]" + colorReset
	l.Printf(prefix+" "+format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	if !l.enabled(LevelInfo) {
		return
	}
	prefix := colorGreen + "[INFO]" + colorReset
	l.Printf(prefix+" "+format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	if !l.enabled(LevelWarn) {
		return
	}
	prefix := colorYellow + "[WARN]" + colorReset
	l.Printf(prefix+" "+format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	prefix := colorRed + "[ERROR]" + colorReset
	l.Printf(prefix+" "+format, v...)
}

// FormatHTTPMethod returns a colored string based on the HTTP method
func (l *Logger) FormatHTTPMethod(method string) string {
	var color string
	switch method {
	case http.MethodPost:
		color = colorCyan
	case http.MethodOptions:
		color = colorYellow
	default:
		color = colorBlue
	}
	return fmt.Sprintf("%s %s %s", color, method, colorReset)
}

// FormatHTTPStatus returns a colored string based on the status code
func (l *Logger) FormatHTTPStatus(status int) string {
	var color string
	switch {
	case status >= 500:
		color = colorRed
	case status >= 400:
		color = colorYellow
	case status >= 300:
		color = colorCyan
	case status >= 200:
		color = colorGreen
	default:
		color = colorBlue
	}
	return fmt.Sprintf("%s %d %s", color, status, colorReset)
}

// LogHTTPRequest logs an HTTP request with colored output when request logging is on
func (l *Logger) LogHTTPRequest(method, path, clientIP, requestID string, status, bytes int, latency string) {
	if !l.requests {
		return
	}

	l.Printf("[HTTP] %s | %15s | %-17s | %s | %s | %d bytes | %s",
		l.FormatHTTPStatus(status),
		clientIP,
		l.FormatHTTPMethod(method),
		path,
		requestID,
		bytes,
		latency,
	)
}

// LogHTTPError logs a failed request together with the internal cause.
// The cause never reaches the client.
func (l *Logger) LogHTTPError(method, path, clientIP, requestID string, status int, message string, err error) {
	l.Printf("[HTTP-ERROR] %s | %15s | %-17s | %s | %s | %s: %v",
		l.FormatHTTPStatus(status),
		clientIP,
		l.FormatHTTPMethod(method),
		path,
		requestID,
		message,
		err,
	)
}
