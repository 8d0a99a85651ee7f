package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/nibzard/todolist/internal/config"
	"github.com/nibzard/todolist/internal/parallel"
	"github.com/nibzard/todolist/internal/script"
)

// runCommand validates scripts, replays them and prints the captured views.
// Several scripts replay concurrently, each on its own list.
func runCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	keepGoing := fs.Bool("keep-going", cfg.KeepGoing, "Continue after a failing command")
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	workers := fs.Int("parallel", 0, "Maximum scripts replayed at once (0 = all)")
	failFast := fs.Bool("fail-fast", false, "Skip remaining scripts after the first failure")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("missing script path")
	}

	logger := newLogger(cfg)
	var scripts []*script.Script
	for _, path := range fs.Args() {
		s, err := script.Load(path)
		if err != nil {
			return err
		}
		result := s.Validate(script.ValidateOptions{SchemaPath: cfg.SchemaFile})
		for _, w := range result.Warnings {
			logger.Warn(w, "script", path)
		}
		if !result.Valid {
			printValidationErrors(stderr, result)
			return fmt.Errorf("invalid script %s: %w", path, result.Err())
		}
		scripts = append(scripts, s)
	}

	sess, err := openSession(cfg, "script")
	if err != nil {
		return err
	}
	if len(scripts) > 1 {
		return runBatch(ctx, cfg, sess, scripts, parallel.Options{
			MaxWorkers: *workers,
			FailFast:   *failFast,
			KeepGoing:  *keepGoing,
			Events:     sess,
		}, *asJSON)
	}

	s := scripts[0]
	runner := &script.Runner{Events: sess, KeepGoing: *keepGoing}
	report, runErr := runner.Run(ctx, s)
	if err := sess.close(runner.List.Len()); err != nil && runErr == nil {
		runErr = err
	}

	if report != nil {
		if *asJSON {
			if err := printReportJSON(stdout, report); err != nil {
				return err
			}
		} else {
			printReport(stdout, report, cfg.TimeFormat)
		}
	}
	if runErr != nil {
		return runErr
	}
	if report.Failed() {
		for _, e := range report.Errors {
			logger.Error("Command failed", "err", e)
		}
		return fmt.Errorf("%d of %d commands failed", len(report.Errors), len(s.Commands))
	}
	return nil
}

// runBatch replays scripts through the worker pool and prints one section
// per script in argument order.
func runBatch(ctx context.Context, cfg *config.Config, sess *session, scripts []*script.Script, opts parallel.Options, asJSON bool) error {
	results, errs := parallel.RunScripts(ctx, scripts, opts)

	tasks := 0
	for _, r := range results {
		if r.Report != nil {
			tasks += len(r.Report.Final)
		}
	}
	if err := sess.close(tasks); err != nil {
		errs = append(errs, err)
	}

	if asJSON {
		if err := printBatchJSON(stdout, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			switch {
			case r.Skipped:
				fmt.Fprintf(stdout, "== %s (skipped)\n\n", r.Name)
				continue
			case r.Error != nil:
				fmt.Fprintf(stdout, "== %s (failed: %v)\n", r.Name, r.Error)
			default:
				fmt.Fprintf(stdout, "== %s (%s)\n", r.Name, r.Duration.Round(time.Millisecond))
			}
			if r.Report != nil {
				printReport(stdout, r.Report, cfg.TimeFormat)
			}
			fmt.Fprintln(stdout)
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d scripts failed: %w", len(errs), len(scripts), errors.Join(errs...))
	}
	return nil
}

// validateCommand prints a schema validation report for a script.
func validateCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := scriptArg(fs)
	if err != nil {
		return err
	}

	s, err := script.Load(path)
	if err != nil {
		return err
	}
	result := s.Validate(script.ValidateOptions{SchemaPath: cfg.SchemaFile})

	schema := result.UsedSchema
	if schema == "" {
		schema = "minimal checks"
	}
	fmt.Fprintf(stdout, "Script: %s\n", path)
	fmt.Fprintf(stdout, "Schema: %s\n", schema)
	fmt.Fprintf(stdout, "Commands: %d\n", len(s.Commands))
	for _, w := range result.Warnings {
		fmt.Fprintf(stdout, "  ⚠️  %s\n", w)
	}
	if !result.Valid {
		printValidationErrors(stdout, result)
		return fmt.Errorf("validation failed")
	}
	fmt.Fprintln(stdout, "  ✅ Valid")
	return nil
}

func scriptArg(fs *flag.FlagSet) (string, error) {
	switch fs.NArg() {
	case 0:
		return "", fmt.Errorf("missing script path")
	case 1:
		return fs.Arg(0), nil
	default:
		return "", fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}
}

func printValidationErrors(w io.Writer, result *script.ValidationResult) {
	fmt.Fprintf(w, "  ❌ %d error(s):\n", len(result.Errors))
	for _, e := range result.Errors {
		fmt.Fprintf(w, "     - %v\n", e)
	}
}

func printReport(w io.Writer, report *script.Report, timeFormat string) {
	for _, v := range report.Views {
		fmt.Fprintf(w, "[%d] %s (%d)\n", v.Step, v.Op, len(v.Tasks))
		printTasks(w, v.Tasks, timeFormat)
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Final list (%d)\n", len(report.Final))
	printTasks(w, report.Final, timeFormat)
	if len(report.Errors) > 0 {
		fmt.Fprintf(w, "\nErrors (%d)\n", len(report.Errors))
		for _, e := range report.Errors {
			fmt.Fprintf(w, "  %v\n", e)
		}
	}
}

func printTasks(w io.Writer, tasks []script.TaskSnapshot, timeFormat string) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "  No tasks.")
		return
	}
	for _, t := range tasks {
		mark := " "
		stamp := "added " + t.CreatedAt.Format(timeFormat)
		if t.CompletedAt != nil {
			mark = "x"
			stamp = "done " + t.CompletedAt.Format(timeFormat)
		}
		fmt.Fprintf(w, "  [%s] %2d. %s  (%s)\n", mark, t.ID, t.Description, stamp)
	}
}

// batchEntry is one script's outcome in a JSON batch report.
type batchEntry struct {
	Name    string         `json:"name"`
	Report  *script.Report `json:"report,omitempty"`
	Error   string         `json:"error,omitempty"`
	Skipped bool           `json:"skipped,omitempty"`
}

// printBatchJSON writes the batch as an array in argument order.
func printBatchJSON(w io.Writer, results []parallel.Result) error {
	batch := make([]batchEntry, 0, len(results))
	for _, r := range results {
		entry := batchEntry{Name: r.Name, Report: r.Report, Skipped: r.Skipped}
		if r.Error != nil {
			entry.Error = r.Error.Error()
		}
		batch = append(batch, entry)
	}
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printReportJSON(w io.Writer, report *script.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
