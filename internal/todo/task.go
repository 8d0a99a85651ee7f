package todo

import (
	"time"

	"github.com/google/uuid"
)

// Task represents a single item in a todo list.
type Task struct {
	ref         string
	description string
	createdAt   time.Time
	completedAt *time.Time
	now         func() time.Time
}

// NewTask creates an incomplete task stamped with the current time.
// The description is not validated; an empty description is allowed.
func NewTask(description string) *Task {
	return newTask(description, defaultClock)
}

func newTask(description string, now func() time.Time) *Task {
	if now == nil {
		now = defaultClock
	}
	return &Task{
		ref:         uuid.NewString(),
		description: description,
		createdAt:   now(),
		now:         now,
	}
}

func defaultClock() time.Time {
	return time.Now().UTC()
}

// Ref returns an opaque identifier that stays with the task for its whole
// life, unlike its position in a List.
func (t *Task) Ref() string {
	return t.ref
}

// Description returns the task text.
func (t *Task) Description() string {
	return t.description
}

// CreatedAt returns when the task was created.
func (t *Task) CreatedAt() time.Time {
	return t.createdAt
}

// CompletedAt returns when the task was last completed, or nil if it is
// still incomplete. The returned value is a copy.
func (t *Task) CompletedAt() *time.Time {
	if t.completedAt == nil {
		return nil
	}
	completed := *t.completedAt
	return &completed
}

// Complete marks the task complete. Completing an already complete task
// moves the completion time to now.
func (t *Task) Complete() {
	now := t.now()
	t.completedAt = &now
}

// IsComplete reports whether the task has been completed.
func (t *Task) IsComplete() bool {
	return t.completedAt != nil
}

// IsIncomplete reports whether the task is still open.
func (t *Task) IsIncomplete() bool {
	return !t.IsComplete()
}

// String returns the task description.
func (t *Task) String() string {
	return t.description
}
