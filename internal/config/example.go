package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todolist configuration file
# Values can be overridden by TODOLIST_* environment variables or CLI flags

# Session journal directory (supports ~ and $VAR expansion)
log_dir = "~/.todolist"

# Write one JSON line per list operation to the session journal
journal = true

# Command script schema (empty uses the bundled schema)
# schema_file = "script.schema.json"

# Go time layout for printed timestamps
time_format = "2006-01-02 15:04:05"

# Continue running a script after a command fails
keep_going = false

# Console logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
