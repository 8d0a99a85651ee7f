package config

import "flag"

// flagToField maps flag names to config field names for source tracking.
var flagToField = map[string]string{
	"log-dir":        "log_dir",
	"journal":        "journal",
	"schema":         "schema_file",
	"time-format":    "time_format",
	"keep-going":     "keep_going",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines and parses CLI flags on fs, writing straight into cfg.
// If sources is non-nil, every flag set on the command line is recorded.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("todolist", flag.ContinueOnError)
	}

	// Paths
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Session journal directory")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "Path to a command script schema (default: bundled)")

	// Behaviour
	fs.BoolVar(&cfg.Journal, "journal", cfg.Journal, "Write a JSONL journal of list operations")
	fs.StringVar(&cfg.TimeFormat, "time-format", cfg.TimeFormat, "Go time layout used when printing timestamps")
	fs.BoolVar(&cfg.KeepGoing, "keep-going", cfg.KeepGoing, "Continue a script after a failing command")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagToField[f.Name]; ok {
			setSource(sources, field, SourceFlag)
		}
	})
	return nil
}
