package parallel

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nibzard/todolist/internal/logging"
	"github.com/nibzard/todolist/internal/script"
	"github.com/nibzard/todolist/internal/todo"
)

// Options configures RunScripts.
type Options struct {
	// MaxWorkers bounds concurrent scripts; 0 means no bound.
	MaxWorkers int

	// FailFast skips scripts that have not started once one fails.
	FailFast bool

	// KeepGoing is passed to each script's runner.
	KeepGoing bool

	// Events receives every script's events and must be safe for
	// concurrent use. May be nil.
	Events logging.EventWriter

	// NewList creates each script's list. Defaults to todo.NewList.
	NewList func() *todo.List
}

// RunScripts replays each script on its own fresh list.
func RunScripts(ctx context.Context, scripts []*script.Script, opts Options) ([]Result, []error) {
	newList := opts.NewList
	if newList == nil {
		newList = func() *todo.List { return todo.NewList() }
	}

	pool := NewWorkerPool(ctx, opts.MaxWorkers, opts.FailFast)
	for i, s := range scripts {
		name := scriptName(s, i)
		runner := &script.Runner{
			List:      newList(),
			Events:    opts.Events,
			KeepGoing: opts.KeepGoing,
			Source:    name,
		}
		pool.Submit(name, func(ctx context.Context) (*script.Report, error) {
			report, err := runner.Run(ctx, s)
			if err == nil && report.Failed() {
				err = fmt.Errorf("%d commands failed", len(report.Errors))
			}
			return report, err
		})
	}
	return pool.Wait()
}

// scriptName is the path the script was loaded from, as given, so two
// scripts with the same file name in different directories stay distinct.
func scriptName(s *script.Script, i int) string {
	if s != nil && s.Path != "" {
		return filepath.Clean(s.Path)
	}
	return fmt.Sprintf("script-%d", i+1)
}
