package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were read, in load order.
	Files []string
	// Unknown lists keys found in config files that no field consumed.
	Unknown []string
}

// Default values.
const (
	DefaultLogDir     = "~/.todolist"
	DefaultJournal    = true
	DefaultTimeFormat = "2006-01-02 15:04:05"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Config holds the full configuration for todolist.
type Config struct {
	// Session journal directory (one JSONL file per session)
	LogDir string `toml:"log_dir"`

	// Journal enables the JSONL session journal
	Journal bool `toml:"journal"`

	// SchemaFile overrides the bundled command script schema
	SchemaFile string `toml:"schema_file"`

	// TimeFormat is the Go layout used when printing timestamps
	TimeFormat string `toml:"time_format"`

	// KeepGoing continues a script after a failing command
	KeepGoing bool `toml:"keep_going"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"log_dir",
		"journal",
		"schema_file",
		"time_format",
		"keep_going",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}
