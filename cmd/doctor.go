package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/todolist/internal/config"
	"github.com/nibzard/todolist/internal/logging"
	"github.com/nibzard/todolist/internal/script"
)

// doctorCommand reports configuration values with their sources, the
// schema in use and the journal directory.
func doctorCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("todolist doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg := cws.Config
	allOK := true

	fmt.Fprintln(stdout, "Configuration")
	if file := cws.ActiveFile(); file != "" {
		fmt.Fprintf(stdout, "  File: %s\n", file)
	} else {
		fmt.Fprintln(stdout, "  File: none (using defaults)")
	}
	values := []struct {
		field string
		value any
	}{
		{"log_dir", cfg.LogDir},
		{"journal", cfg.Journal},
		{"schema_file", cfg.SchemaFile},
		{"time_format", cfg.TimeFormat},
		{"keep_going", cfg.KeepGoing},
		{"log_level", cfg.LogLevel},
		{"log_format", cfg.LogFormat},
		{"log_timestamps", cfg.LogTimestamps},
		{"log_caller", cfg.LogCaller},
	}
	for _, v := range values {
		fmt.Fprintf(stdout, "  %-15s %-30v (%s)\n", v.field, v.value, cws.Source(v.field))
	}
	for _, key := range cws.Unknown {
		fmt.Fprintf(stdout, "  ⚠️  Unknown key: %s\n", key)
	}
	fmt.Fprintln(stdout)

	// Compile the schema against an empty script to surface schema problems.
	fmt.Fprintln(stdout, "Script schema")
	probe := &script.Script{SchemaVersion: script.SchemaVersion, Commands: []script.Command{}}
	result := probe.Validate(script.ValidateOptions{SchemaPath: cfg.SchemaFile})
	switch {
	case result.UsedSchema == "bundled":
		fmt.Fprintln(stdout, "  ✅ bundled")
	case result.UsedSchema != "":
		fmt.Fprintf(stdout, "  ✅ %s\n", result.UsedSchema)
	default:
		fmt.Fprintln(stdout, "  ⚠️  minimal checks only")
	}
	for _, w := range result.Warnings {
		if w == "script has no commands" {
			continue
		}
		fmt.Fprintf(stdout, "  ⚠️  %s\n", w)
	}
	if !result.Valid {
		fmt.Fprintln(stdout, "  ❌ schema rejects an empty script")
		allOK = false
	}
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Journal")
	if !cfg.Journal {
		fmt.Fprintln(stdout, "  ⚠️  Disabled")
	}
	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.WorkDir)
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintf(stdout, "  Directory: %s\n", logDir)
		info, err := os.Stat(logDir)
		switch {
		case os.IsNotExist(err):
			fmt.Fprintln(stdout, "  ⚠️  Not found (will be created on run)")
		case err != nil:
			fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
			allOK = false
		case !info.IsDir():
			fmt.Fprintln(stdout, "  ❌ Error: path is not a directory")
			allOK = false
		default:
			runs, err := logging.FindLogRuns(logDir)
			if err != nil {
				fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
				allOK = false
			} else {
				fmt.Fprintf(stdout, "  ✅ OK (%d journals)\n", len(runs))
			}
		}
	}
	fmt.Fprintln(stdout)

	if allOK {
		fmt.Fprintln(stdout, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(stdout, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}
