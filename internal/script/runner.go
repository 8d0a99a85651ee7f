package script

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nibzard/todolist/internal/logging"
	"github.com/nibzard/todolist/internal/todo"
)

// ErrUnknownOp is returned for commands whose op is not recognised.
var ErrUnknownOp = errors.New("unknown op")

// Runner replays scripts against a list.
type Runner struct {
	// List is the list commands apply to. A nil List gets a fresh one.
	List *todo.List

	// Events receives one journal event per command. May be nil.
	Events logging.EventWriter

	// KeepGoing records failing commands in the report instead of
	// stopping at the first one.
	KeepGoing bool

	// Source tags every event; defaults to "script".
	Source string
}

// Report is the result of replaying a script.
type Report struct {
	// Applied counts the commands that succeeded.
	Applied int `json:"applied"`

	// Views holds a snapshot for every query command, in script order.
	Views []View `json:"views"`

	// Errors holds the failures skipped under KeepGoing.
	Errors []*CommandError `json:"errors,omitempty"`

	// Final is the whole list after the last command.
	Final []TaskSnapshot `json:"final"`
}

// Failed reports whether any command failed.
func (r *Report) Failed() bool {
	return r != nil && len(r.Errors) > 0
}

// View is the captured result of a query command.
type View struct {
	Step  int            `json:"step"`
	Op    string         `json:"op"`
	Tasks []TaskSnapshot `json:"tasks"`
}

// TaskSnapshot is a task's state at the moment it was captured.
type TaskSnapshot struct {
	// ID is the task's position in the full list when captured.
	ID          int        `json:"id"`
	Ref         string     `json:"ref"`
	Description string     `json:"description"`
	Complete    bool       `json:"complete"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CommandError reports the script step that failed.
type CommandError struct {
	Step    int
	Command Command
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Step, e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

type commandErrorJSON struct {
	Step    int     `json:"step"`
	Command Command `json:"command"`
	Error   string  `json:"error"`
}

// MarshalJSON encodes the error as {step, command, error}.
func (e *CommandError) MarshalJSON() ([]byte, error) {
	out := commandErrorJSON{Step: e.Step, Command: e.Command}
	if e.Err != nil {
		out.Error = e.Err.Error()
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a report error. The error chain is not restored;
// only its message survives.
func (e *CommandError) UnmarshalJSON(data []byte) error {
	var in commandErrorJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	e.Step, e.Command = in.Step, in.Command
	if in.Error != "" {
		e.Err = errors.New(in.Error)
	}
	return nil
}

// Run applies the script's commands in order. Cancellation is checked
// between commands. The returned report reflects every command applied
// before Run returned, including on error.
func (r *Runner) Run(ctx context.Context, s *Script) (*Report, error) {
	if s == nil {
		return nil, errors.New("script is nil")
	}
	if r.List == nil {
		r.List = todo.NewList()
	}

	report := &Report{}
	defer func() {
		report.Final = snapshot(r.List, r.List.Tasks())
	}()

	for i, c := range s.Commands {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		step := i + 1
		view, err := r.apply(step, c)
		if err != nil {
			cerr := &CommandError{Step: step, Command: c, Err: err}
			r.emit(logging.Event{
				Type:  logging.EventError,
				Op:    c.Op,
				ID:    c.ID,
				Count: r.List.Len(),
				Error: err.Error(),
			})
			if !r.KeepGoing {
				return report, cerr
			}
			report.Errors = append(report.Errors, cerr)
			continue
		}

		report.Applied++
		if view != nil {
			report.Views = append(report.Views, *view)
		}
	}
	return report, nil
}

func (r *Runner) apply(step int, c Command) (*View, error) {
	var (
		task *todo.Task
		id   int
		err  error
	)

	switch c.Op {
	case OpAppend:
		task = r.List.Append(c.Description)
		id = r.List.Len()
	case OpPrepend:
		task = r.List.Prepend(c.Description)
		id = 1
	case OpRemove:
		task, err = r.List.Remove(c.ID)
		id = c.ID
	case OpComplete:
		task, err = r.List.Complete(c.ID)
		id = c.ID
	case OpCompleteTasks, OpIncompleteTasks, OpList:
		return r.query(step, c.Op), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownOp, c.Op)
	}
	if err != nil {
		return nil, err
	}

	r.emit(logging.Event{
		Type:        logging.EventCommand,
		Op:          c.Op,
		ID:          id,
		Ref:         task.Ref(),
		Description: task.Description(),
		Count:       r.List.Len(),
	})
	return nil, nil
}

func (r *Runner) query(step int, op string) *View {
	var tasks []*todo.Task
	switch op {
	case OpCompleteTasks:
		tasks = r.List.CompleteTasks()
	case OpIncompleteTasks:
		tasks = r.List.IncompleteTasks()
	default:
		tasks = r.List.Tasks()
	}

	r.emit(logging.Event{Type: logging.EventQuery, Op: op, Count: len(tasks)})
	return &View{Step: step, Op: op, Tasks: snapshot(r.List, tasks)}
}

func (r *Runner) emit(e logging.Event) {
	if r.Events == nil {
		return
	}
	e.Source = r.Source
	if e.Source == "" {
		e.Source = "script"
	}
	_ = r.Events.Write(e)
}

// snapshot captures tasks, numbering each by its position in list.
func snapshot(list *todo.List, tasks []*todo.Task) []TaskSnapshot {
	positions := make(map[*todo.Task]int, list.Len())
	for i, t := range list.Tasks() {
		positions[t] = i + 1
	}

	out := make([]TaskSnapshot, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, TaskSnapshot{
			ID:          positions[t],
			Ref:         t.Ref(),
			Description: t.Description(),
			Complete:    t.IsComplete(),
			CreatedAt:   t.CreatedAt(),
			CompletedAt: t.CompletedAt(),
		})
	}
	return out
}
