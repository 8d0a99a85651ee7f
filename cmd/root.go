// Package cmd implements the CLI command structure for todolist.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todolist/internal/config"
	"github.com/nibzard/todolist/internal/logging"
	"github.com/nibzard/todolist/internal/todo"
	"github.com/nibzard/todolist/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the todolist CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todolist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	remainingArgs := fs.Args()
	if len(remainingArgs) == 0 {
		printUsage(fs, stderr)
		return fmt.Errorf("missing command")
	}
	subcommand, remainingArgs := remainingArgs[0], remainingArgs[1:]

	switch subcommand {
	case "run":
		return runCommand(ctx, cfg, remainingArgs)
	case "validate":
		return validateCommand(cfg, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cws, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	case "logs":
		return logsCommand(cfg, remainingArgs)
	case "config":
		return configCommand(remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// session ties the console logger and the optional journal together for
// one command invocation.
type session struct {
	source  string
	logger  *log.Logger
	journal *logging.Journal
	events  logging.EventWriter
}

func newLogger(cfg *config.Config) *log.Logger {
	return logging.NewConsoleLoggerFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
}

func openSession(cfg *config.Config, source string) (*session, error) {
	s := &session{source: source, logger: newLogger(cfg)}
	console := logging.NewConsoleWriter(s.logger)

	if cfg.Journal {
		journal, err := logging.NewJournal(cfg.LogDir, cfg.WorkDir)
		if err != nil {
			return nil, fmt.Errorf("opening journal: %w", err)
		}
		s.journal = journal
		s.logger.Debug("Journal opened", "path", journal.Path)
	}
	if s.journal != nil {
		s.events = logging.NewMultiWriter(console, s.journal)
	} else {
		s.events = console
	}

	s.emit(logging.Event{Type: logging.EventSessionStart})
	return s, nil
}

func (s *session) emit(e logging.Event) {
	e.Source = s.source
	_ = s.Write(e)
}

// Write implements logging.EventWriter so the session can be handed to
// the runner and the TUI directly.
func (s *session) Write(e logging.Event) error {
	if err := s.events.Write(e); err != nil {
		s.logger.Warn("Journal write failed", "err", err)
	}
	return nil
}

func (s *session) close(count int) error {
	s.emit(logging.Event{Type: logging.EventSessionEnd, Count: count})
	return s.journal.Close()
}

// tuiCommand launches the interactive editor on an empty list.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	sess, err := openSession(tuiConfig(cfg), "tui")
	if err != nil {
		return err
	}

	list := todo.NewList()
	runErr := ui.RunTUI(ctx, cfg, list, sess)
	if err := sess.close(list.Len()); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// tuiConfig returns a copy of cfg that keeps console events from
// scribbling over the alternate screen.
func tuiConfig(cfg *config.Config) *config.Config {
	c := *cfg
	c.LogLevel = "error"
	return &c
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "todolist version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todolist - an in-memory todo list driven by scripts or a terminal UI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todolist [options] <command> [command options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run <script.json>...    Replay command scripts and print the resulting views")
	fmt.Fprintln(w, "  validate <script.json>  Validate a command script against its schema")
	fmt.Fprintln(w, "  tui                     Edit a list interactively")
	fmt.Fprintln(w, "  doctor                  Show configuration, schema and journal status")
	fmt.Fprintln(w, "  tail                    Print the latest session journal")
	fmt.Fprintln(w, "  logs                    List session journals")
	fmt.Fprintln(w, "  config init             Print an example config file")
	fmt.Fprintln(w, "  version                 Show version information")
	fmt.Fprintln(w, "  help                    Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(stderr)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run Options (use with 'run' command):")
	fmt.Fprintln(w, "  -keep-going")
	fmt.Fprintln(w, "        Continue after a failing command")
	fmt.Fprintln(w, "  -json")
	fmt.Fprintln(w, "        Print the report as JSON")
	fmt.Fprintln(w, "  -parallel int")
	fmt.Fprintln(w, "        Maximum scripts replayed at once (0 = all)")
	fmt.Fprintln(w, "  -fail-fast")
	fmt.Fprintln(w, "        Skip remaining scripts after the first failure")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, -follow")
	fmt.Fprintln(w, "        Follow the journal (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "TUI Keys:")
	fmt.Fprintln(w, "  "+strings.Join([]string{
		"a append", "p prepend", "x/enter complete", "d remove",
		"1 complete", "2 incomplete", "0 all", "j/k move", "h/? help", "q quit",
	}, ", "))
}
