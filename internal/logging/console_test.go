package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestConsoleWriter(buf *bytes.Buffer) *ConsoleWriter {
	return NewConsoleWriter(NewConsoleLogger(buf, ConsoleOptions{
		Level:     log.DebugLevel,
		Formatter: log.TextFormatter,
	}))
}

// TestConsoleWriter_Write tests the Write method with various event types.
func TestConsoleWriter_Write(t *testing.T) {
	tests := []struct {
		name       string
		event      Event
		wantLevel  string
		wantMsg    string
		wantFields []string
	}{
		{
			name:       "append command",
			event:      Event{Type: EventCommand, Op: "append", ID: 1, Description: "buy milk", Count: 1},
			wantLevel:  "INFO",
			wantMsg:    "Task appended",
			wantFields: []string{"id=1", "task=", "count=1"},
		},
		{
			name:       "complete command",
			event:      Event{Type: EventCommand, Op: "complete", ID: 2, Count: 3},
			wantLevel:  "INFO",
			wantMsg:    "Task completed",
			wantFields: []string{"id=2"},
		},
		{
			name:       "query",
			event:      Event{Type: EventQuery, Op: "complete_tasks", Count: 0},
			wantLevel:  "DEBU",
			wantMsg:    "Query complete_tasks",
			wantFields: []string{"count=0"},
		},
		{
			name:       "error",
			event:      Event{Type: EventError, Op: "complete", ID: 5, Error: "task id out of range"},
			wantLevel:  "ERRO",
			wantMsg:    "complete failed",
			wantFields: []string{"err="},
		},
		{
			name:       "session start",
			event:      Event{Type: EventSessionStart, Source: "tui"},
			wantLevel:  "DEBU",
			wantMsg:    "Session started",
			wantFields: []string{"source=tui"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := newTestConsoleWriter(&buf).Write(tt.event); err != nil {
				t.Fatalf("Write() error = %v", err)
			}

			output := buf.String()
			if !strings.Contains(output, tt.wantLevel) {
				t.Errorf("Expected output to contain level %q, got: %s", tt.wantLevel, output)
			}
			if !strings.Contains(output, tt.wantMsg) {
				t.Errorf("Expected output to contain message %q, got: %s", tt.wantMsg, output)
			}
			for _, field := range tt.wantFields {
				if !strings.Contains(output, field) {
					t.Errorf("Expected output to contain field %q, got: %s", field, output)
				}
			}
		})
	}
}

// TestConsoleWriterRespectsLevel tests that debug events are dropped at info.
func TestConsoleWriterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	w := NewConsoleWriter(NewConsoleLoggerFromConfig(&buf, "info", "text", false, false))

	w.Write(Event{Type: EventQuery, Op: "list"})
	if buf.Len() != 0 {
		t.Errorf("debug event written at info level: %s", buf.String())
	}

	w.Write(Event{Type: EventCommand, Op: "remove", ID: 1})
	if !strings.Contains(buf.String(), "Task removed") {
		t.Errorf("expected info event, got: %s", buf.String())
	}
}

// TestConsoleLoggerJSON tests the json formatter.
func TestConsoleLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerFromConfig(&buf, "debug", "json", false, false)
	logger.Info("hello", "id", 3)

	out := buf.String()
	if !strings.Contains(out, `"msg":"hello"`) || !strings.Contains(out, `"id":3`) {
		t.Errorf("unexpected json output: %s", out)
	}
}

// TestParseLevel tests level parsing.
func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"loud", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestParseFormatter tests formatter parsing.
func TestParseFormatter(t *testing.T) {
	tests := []struct {
		in   string
		want log.Formatter
	}{
		{"json", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"text", log.TextFormatter},
		{"", log.TextFormatter},
		{"yaml", log.TextFormatter},
	}
	for _, tt := range tests {
		if got := ParseFormatter(tt.in); got != tt.want {
			t.Errorf("ParseFormatter(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

type failingWriter struct{ err error }

func (f failingWriter) Write(Event) error { return f.err }

type recordingWriter struct{ events []Event }

func (r *recordingWriter) Write(e Event) error {
	r.events = append(r.events, e)
	return nil
}

// TestMultiWriter tests fan-out and error joining.
func TestMultiWriter(t *testing.T) {
	rec := &recordingWriter{}
	boom := errors.New("boom")
	m := NewMultiWriter(rec, nil, NullWriter{}, failingWriter{err: boom})

	err := m.Write(Event{Type: EventCommand, Op: "append"})
	if !errors.Is(err, boom) {
		t.Errorf("expected joined error to contain boom, got %v", err)
	}
	if len(rec.events) != 1 || rec.events[0].Op != "append" {
		t.Errorf("recording writer: got %+v", rec.events)
	}

	if err := NewMultiWriter().Write(Event{}); err != nil {
		t.Errorf("empty multi writer: got %v", err)
	}
}

// TestJSONLWriter tests line framing.
func TestJSONLWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf)
	w.Write(Event{Type: EventCommand, Op: "append", Count: 1})
	w.Write(Event{Type: EventQuery, Op: "list", Count: 1})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"op":"append"`) || !strings.Contains(lines[1], `"type":"query"`) {
		t.Errorf("unexpected lines: %q", lines)
	}
}
