package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/todolist/internal/config"
)

// configCommand dispatches config subcommands.
func configCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing config subcommand (init)")
	}
	switch args[0] {
	case "init":
		return configInitCommand(args[1:])
	default:
		return fmt.Errorf("unknown config subcommand: %s", args[0])
	}
}

// configInitCommand prints the example config, or writes it to -o.
func configInitCommand(args []string) error {
	fs := flag.NewFlagSet("todolist config init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("o", "", "Write the example config to this file instead of stdout")
	force := fs.Bool("force", false, "Overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *out == "" {
		_, err := fmt.Fprint(stdout, config.ExampleConfig())
		return err
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !*force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(*out, flags, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s already exists (use -force to overwrite)", *out)
		}
		return err
	}
	if _, err := f.WriteString(config.ExampleConfig()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s\n", *out)
	return nil
}
