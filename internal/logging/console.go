package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// ConsoleOptions holds configuration for console logging.
type ConsoleOptions struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	ReportCaller    bool
	Prefix          string
}

// DefaultConsoleOptions returns default options for console logging.
func DefaultConsoleOptions() ConsoleOptions {
	return ConsoleOptions{
		Level:     log.InfoLevel,
		Formatter: log.TextFormatter,
		Prefix:    "todolist",
	}
}

// NewConsoleLogger creates a charmbracelet logger writing to w
// (os.Stderr when w is nil).
func NewConsoleLogger(w io.Writer, opts ConsoleOptions) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		ReportCaller:    opts.ReportCaller,
		Prefix:          opts.Prefix,
	})
}

// NewConsoleLoggerFromConfig creates a console logger from string
// configuration values, as loaded from TOML or environment variables.
func NewConsoleLoggerFromConfig(w io.Writer, level, format string, timestamps, caller bool) *log.Logger {
	return NewConsoleLogger(w, ConsoleOptions{
		Level:           ParseLevel(level),
		Formatter:       ParseFormatter(format),
		ReportTimestamp: timestamps,
		ReportCaller:    caller,
		Prefix:          "todolist",
	})
}

// ParseLevel parses a string log level to a charmbracelet/log Level.
func ParseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter parses a string formatter name to a charmbracelet/log Formatter.
func ParseFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// ConsoleWriter implements EventWriter on top of a charmbracelet logger.
// Commands log at info, queries at debug and failures at error.
type ConsoleWriter struct {
	logger *log.Logger
}

// NewConsoleWriter wraps logger.
func NewConsoleWriter(logger *log.Logger) *ConsoleWriter {
	return &ConsoleWriter{logger: logger}
}

// Write logs the event.
func (c *ConsoleWriter) Write(event Event) error {
	msg := formatMessage(event)
	fields := extractFields(event)

	switch event.Type {
	case EventError:
		c.logger.Error(msg, fields...)
	case EventCommand:
		c.logger.Info(msg, fields...)
	default:
		c.logger.Debug(msg, fields...)
	}
	return nil
}

func extractFields(event Event) []any {
	var fields []any
	if event.Source != "" {
		fields = append(fields, "source", event.Source)
	}
	if event.ID != 0 {
		fields = append(fields, "id", event.ID)
	}
	if event.Description != "" {
		fields = append(fields, "task", event.Description)
	}
	if event.Type == EventCommand || event.Type == EventQuery {
		fields = append(fields, "count", event.Count)
	}
	if event.Error != "" {
		fields = append(fields, "err", event.Error)
	}
	return fields
}

func formatMessage(event Event) string {
	switch event.Type {
	case EventSessionStart:
		return "Session started"
	case EventSessionEnd:
		return "Session ended"
	case EventCommand:
		switch event.Op {
		case "append":
			return "Task appended"
		case "prepend":
			return "Task prepended"
		case "remove":
			return "Task removed"
		case "complete":
			return "Task completed"
		}
	case EventQuery:
		return "Query " + event.Op
	case EventError:
		if event.Op != "" {
			return event.Op + " failed"
		}
		return "Error"
	}
	return event.Type
}
