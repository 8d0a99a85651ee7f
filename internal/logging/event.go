package logging

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// Event types.
const (
	EventSessionStart = "session_start"
	EventSessionEnd   = "session_end"
	EventCommand      = "command"
	EventQuery        = "query"
	EventError        = "error"
)

// Event is a single journal entry describing one list operation.
type Event struct {
	// Type is one of the Event* constants
	Type string `json:"type"`

	// Timestamp is when the event occurred
	Timestamp time.Time `json:"timestamp"`

	// Source names the front end that produced the event (script, tui)
	Source string `json:"source,omitempty"`

	// Op is the list operation: append, prepend, remove, complete, list,
	// complete_tasks, incomplete_tasks
	Op string `json:"op,omitempty"`

	// ID is the 1-based position the operation addressed
	ID int `json:"id,omitempty"`

	// Ref is the stable reference of the affected task
	Ref string `json:"ref,omitempty"`

	// Description is the affected task's text
	Description string `json:"description,omitempty"`

	// Count is the list length after a command, or the size of a query result
	Count int `json:"count"`

	// Error is the failure message for error events
	Error string `json:"error,omitempty"`
}

// EventWriter writes journal events.
type EventWriter interface {
	Write(event Event) error
}

// JSONLWriter writes one JSON object per line to an io.Writer.
// It is safe for concurrent use.
type JSONLWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewJSONLWriter creates a JSONL event writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{w: w}
}

// Write writes a log event to the underlying writer.
func (l *JSONLWriter) Write(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal log event: %w", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = l.w.Write(data)
	return err
}

// MultiWriter writes to multiple event writers.
type MultiWriter struct {
	writers []EventWriter
}

// NewMultiWriter creates a writer that fans out to writers, skipping nils.
func NewMultiWriter(writers ...EventWriter) *MultiWriter {
	m := &MultiWriter{}
	for _, w := range writers {
		if w != nil {
			m.writers = append(m.writers, w)
		}
	}
	return m
}

// Write writes the event to all underlying writers and joins their errors.
func (m *MultiWriter) Write(event Event) error {
	var errs []error
	for _, w := range m.writers {
		if err := w.Write(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NullWriter is a no-op event writer.
type NullWriter struct{}

// Write does nothing.
func (NullWriter) Write(Event) error {
	return nil
}
