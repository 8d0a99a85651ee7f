// Package todo implements an in-memory todo list.
//
// A List owns an ordered sequence of Task values. Tasks are addressed by
// their 1-based position at the time of the call; positions are not stable
// across mutations:
//
//	l := todo.NewList()
//	l.Append("buy milk")
//	l.Append("walk dog")
//	l.Complete(1)         // completes "buy milk"
//	l.Remove(1)           // "walk dog" is now task 1
//
// # Task Lifecycle
//
// A task starts incomplete. Complete records the completion time and may be
// called again, which moves the timestamp forward. There is no operation
// that makes a task incomplete again.
//
// # Queries
//
// Sublist is the general filtering primitive. It takes a Predicate and keeps
// the original relative order. CompleteTasks and IncompleteTasks are built
// on it:
//
//   - CompleteTasks: completed tasks, oldest completion first
//   - IncompleteTasks: open tasks, oldest creation first
//
// Both are recomputed on every call and use a stable sort, so tasks with
// equal timestamps keep their list order.
//
// # Errors
//
// Remove, Complete and Task return a *RangeError when the ID is outside
// [1, Len()]. The error wraps ErrOutOfRange and the list is left untouched.
//
// # Concurrency
//
// A List is not safe for concurrent use. Callers sharing one across
// goroutines must guard it with their own mutex.
package todo
