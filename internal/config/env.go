package config

import (
	"os"
	"strings"
)

// Environment variable names.
const (
	EnvLogDir        = "TODOLIST_LOG_DIR"
	EnvJournal       = "TODOLIST_JOURNAL"
	EnvSchema        = "TODOLIST_SCHEMA"
	EnvTimeFormat    = "TODOLIST_TIME_FORMAT"
	EnvKeepGoing     = "TODOLIST_KEEP_GOING"
	EnvLogLevel      = "TODOLIST_LOG_LEVEL"
	EnvLogFormat     = "TODOLIST_LOG_FORMAT"
	EnvLogTimestamps = "TODOLIST_LOG_TIMESTAMPS"
	EnvLogCaller     = "TODOLIST_LOG_CALLER"
)

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	setString := func(env, field string, target *string) {
		if v := os.Getenv(env); v != "" {
			*target = v
			setSource(sources, field, SourceEnv)
		}
	}
	setBool := func(env, field string, target *bool) {
		if v := os.Getenv(env); v != "" {
			*target = boolFromString(v)
			setSource(sources, field, SourceEnv)
		}
	}

	setString(EnvLogDir, "log_dir", &cfg.LogDir)
	setBool(EnvJournal, "journal", &cfg.Journal)
	setString(EnvSchema, "schema_file", &cfg.SchemaFile)
	setString(EnvTimeFormat, "time_format", &cfg.TimeFormat)
	setBool(EnvKeepGoing, "keep_going", &cfg.KeepGoing)

	// Logging configuration
	setString(EnvLogLevel, "log_level", &cfg.LogLevel)
	setString(EnvLogFormat, "log_format", &cfg.LogFormat)
	setBool(EnvLogTimestamps, "log_timestamps", &cfg.LogTimestamps)
	setBool(EnvLogCaller, "log_caller", &cfg.LogCaller)
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
