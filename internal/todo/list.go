package todo

import (
	"slices"
	"time"
)

// List is an ordered collection of tasks.
type List struct {
	tasks []*Task
	now   func() time.Time
}

// Option configures a List.
type Option func(*List)

// WithClock sets the time source used for task creation and completion.
func WithClock(now func() time.Time) Option {
	return func(l *List) {
		if now != nil {
			l.now = now
		}
	}
}

// NewList creates an empty list.
func NewList(opts ...Option) *List {
	l := &List{now: defaultClock}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Len returns the number of tasks in the list.
func (l *List) Len() int {
	return len(l.tasks)
}

// Tasks returns the tasks in list order. The slice is a copy; reordering it
// does not affect the list.
func (l *List) Tasks() []*Task {
	return slices.Clone(l.tasks)
}

// Task returns the task at the 1-based position id.
func (l *List) Task(id int) (*Task, error) {
	i, err := l.index("get", id)
	if err != nil {
		return nil, err
	}
	return l.tasks[i], nil
}

// Append adds a new task at the end of the list.
func (l *List) Append(description string) *Task {
	t := newTask(description, l.now)
	l.tasks = append(l.tasks, t)
	return t
}

// Prepend adds a new task at the start of the list. Every existing task
// moves up one position.
func (l *List) Prepend(description string) *Task {
	t := newTask(description, l.now)
	l.tasks = slices.Insert(l.tasks, 0, t)
	return t
}

// Remove deletes the task at the 1-based position id and returns it.
// Tasks after it move down one position.
func (l *List) Remove(id int) (*Task, error) {
	i, err := l.index("remove", id)
	if err != nil {
		return nil, err
	}
	t := l.tasks[i]
	l.tasks = slices.Delete(l.tasks, i, i+1)
	return t, nil
}

// Complete marks the task at the 1-based position id complete and returns it.
func (l *List) Complete(id int) (*Task, error) {
	i, err := l.index("complete", id)
	if err != nil {
		return nil, err
	}
	t := l.tasks[i]
	t.Complete()
	return t, nil
}

// Sublist returns the tasks matching p in list order.
// A nil predicate matches every task.
func (l *List) Sublist(p Predicate) []*Task {
	matched := make([]*Task, 0, len(l.tasks))
	for _, t := range l.tasks {
		if p == nil || p(t) {
			matched = append(matched, t)
		}
	}
	return matched
}

// CompleteTasks returns the completed tasks ordered by completion time,
// earliest first.
func (l *List) CompleteTasks() []*Task {
	tasks := l.Sublist((*Task).IsComplete)
	slices.SortStableFunc(tasks, func(a, b *Task) int {
		return a.completedAt.Compare(*b.completedAt)
	})
	return tasks
}

// IncompleteTasks returns the open tasks ordered by creation time,
// earliest first.
func (l *List) IncompleteTasks() []*Task {
	tasks := l.Sublist((*Task).IsIncomplete)
	slices.SortStableFunc(tasks, func(a, b *Task) int {
		return a.createdAt.Compare(b.createdAt)
	})
	return tasks
}

// index converts a 1-based id to a slice index.
func (l *List) index(op string, id int) (int, error) {
	if id < 1 || id > len(l.tasks) {
		return 0, &RangeError{Op: op, ID: id, Len: len(l.tasks)}
	}
	return id - 1, nil
}
