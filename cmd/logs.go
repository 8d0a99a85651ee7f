package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/nibzard/todolist/internal/config"
	"github.com/nibzard/todolist/internal/logging"
)

// tailCommand prints the latest session journal.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist tail", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the journal (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the journal (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.WorkDir)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest journal: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No journals found.")
		return nil
	}

	fmt.Fprintf(stdout, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(stdout)

	return logging.TailLog(ctx, stdout, logPath, *n, *follow)
}

// logsCommand lists the session journals for the current project.
func logsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist logs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	limit := fs.Int("n", 0, "Number of journals to list (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.WorkDir)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	runs, err := logging.FindLogRuns(logDir)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(stdout, "No journals found.")
		return nil
	}
	if *limit > 0 && len(runs) > *limit {
		runs = runs[:*limit]
	}

	fmt.Fprintf(stdout, "Journals in %s:\n", logDir)
	for _, run := range runs {
		fmt.Fprintf(stdout, "  %s  %s  %6d bytes\n", run.RunID, run.ModTime.Format(cfg.TimeFormat), run.Size)
	}
	return nil
}
