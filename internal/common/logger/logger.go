package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Fields map[string]interface{}

type Level int

const (
	DEBUG Level = iota
	INFO
	WARNING
	ERROR
	CRITICAL
)

var levelNames = map[Level]string{
	DEBUG:    "DEBUG",
	INFO:     "INFO",
	WARNING:  "WARNING",
	ERROR:    "ERROR",
	CRITICAL: "CRITICAL",
}

type Logger struct {
	level       Level
	out         *log.Logger
	serviceName string
}

// New returns a logger writing to stdout, and additionally to a rotated
// file under logDir when logDir is non-empty.
func New(logDir, serviceName, level string) (*Logger, error) {
	var w io.Writer = os.Stdout
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		fileWriter := &lumberjack.Logger{
			Filename:   filepath.Join(logDir, "app.log"),
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		w = io.MultiWriter(os.Stdout, fileWriter)
	}

	return &Logger{
		level:       parseLevel(level),
		out:         log.New(w, "", log.LstdFlags),
		serviceName: serviceName,
	}, nil
}

func (l *Logger) log(level Level, msg string, fields Fields) {
	if level < l.level {
		return
	}

	prefix := fmt.Sprintf("[%s]", levelNames[level])
	if l.serviceName != "" {
		prefix = fmt.Sprintf("%s [%s]", prefix, l.serviceName)
	}

	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
		}
		prefix = fmt.Sprintf("%s [%s]", prefix, strings.Join(parts, " "))
	}

	l.out.Printf("%s %s", prefix, msg)
}

func (l *Logger) Debug(msg string) { l.log(DEBUG, msg, nil) }
func (l *Logger) Info(msg string)  { l.log(INFO, msg, nil) }
func (l *Logger) Warn(msg string)  { l.log(WARNING, msg, nil) }
func (l *Logger) Error(msg string) { l.log(ERROR, msg, nil) }

func (l *Logger) Debugf(format string, args ...any) { l.log(DEBUG, fmt.Sprintf(format, args...), nil) }
func (l *Logger) Infof(format string, args ...any)  { l.log(INFO, fmt.Sprintf(format, args...), nil) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(WARNING, fmt.Sprintf(format, args...), nil) }
func (l *Logger) Errorf(format string, args ...any) { l.log(ERROR, fmt.Sprintf(format, args...), nil) }

func (l *Logger) Criticalf(format string, args ...any) {
	l.log(CRITICAL, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Fatalf(format string, args ...any) {
	l.log(CRITICAL, fmt.Sprintf(format, args...), nil)
	os.Exit(1)
}

func (l *Logger) WithFields(fields Fields) *Entry {
	return &Entry{logger: l, fields: fields}
}

type Entry struct {
	logger *Logger
	fields Fields
}

func (e *Entry) Info(msg string)  { e.logger.log(INFO, msg, e.fields) }
func (e *Entry) Warn(msg string)  { e.logger.log(WARNING, msg, e.fields) }
func (e *Entry) Error(msg string) { e.logger.log(ERROR, msg, e.fields) }

func (e *Entry) Warnf(format string, args ...any) {
	e.logger.log(WARNING, fmt.Sprintf(format, args...), e.fields)
}

func (e *Entry) Errorf(format string, args ...any) {
	e.logger.log(ERROR, fmt.Sprintf(format, args...), e.fields)
}

func parseLevel(value string) Level {
	switch strings.TrimSpace(strings.ToUpper(value)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARNING", "WARN":
		return WARNING
	case "ERROR":
		return ERROR
	case "CRITICAL":
		return CRITICAL
	default:
		return INFO
	}
}
