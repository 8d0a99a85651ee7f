// Package script loads, validates and replays JSON command scripts against
// an in-memory todo list.
//
// A script is a JSON document of the form
//
//	{
//	  "schema_version": 1,
//	  "commands": [
//	    {"op": "append", "description": "buy milk"},
//	    {"op": "complete", "id": 1},
//	    {"op": "complete_tasks"}
//	  ]
//	}
//
// Commands are applied in order to a fresh list. Query commands capture a
// snapshot of their result so a replay can be inspected afterwards.
package script

import (
	"encoding/json"
	"fmt"
	"os"
)

// SchemaVersion is the only script format version understood.
const SchemaVersion = 1

// Command operations.
const (
	OpAppend          = "append"
	OpPrepend         = "prepend"
	OpRemove          = "remove"
	OpComplete        = "complete"
	OpCompleteTasks   = "complete_tasks"
	OpIncompleteTasks = "incomplete_tasks"
	OpList            = "list"
)

// Ops lists every known operation in documentation order.
var Ops = []string{
	OpAppend,
	OpPrepend,
	OpRemove,
	OpComplete,
	OpCompleteTasks,
	OpIncompleteTasks,
	OpList,
}

// Script is a parsed command script.
type Script struct {
	SchemaVersion int       `json:"schema_version"`
	Commands      []Command `json:"commands"`

	// Path is the file the script was loaded from, if any.
	Path string `json:"-"`

	raw []byte
}

// Command is one list operation. An empty Description is a valid task
// description; a decoded command remembers whether the key was present.
type Command struct {
	Op          string `json:"op"`
	Description string `json:"description,omitempty"`
	ID          int    `json:"id,omitempty"`

	hasDescription bool
}

// UnmarshalJSON decodes a command and records whether "description" was
// given, so {"description": ""} can be told apart from a missing key.
func (c *Command) UnmarshalJSON(data []byte) error {
	type command Command
	var fields struct {
		command
		Description *string `json:"description"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*c = Command(fields.command)
	if fields.Description != nil {
		c.Description = *fields.Description
		c.hasDescription = true
	}
	return nil
}

// MarshalJSON keeps a decoded empty description in the output.
func (c Command) MarshalJSON() ([]byte, error) {
	type command Command
	if c.hasDescription && c.Description == "" {
		return json.Marshal(struct {
			command
			Description string `json:"description"`
		}{command(c), ""})
	}
	return json.Marshal(command(c))
}

// HasDescription reports whether the command carries a description,
// including an explicitly empty one.
func (c Command) HasDescription() bool {
	return c.hasDescription || c.Description != ""
}

// String renders the command the way it reads in a report.
func (c Command) String() string {
	switch c.Op {
	case OpAppend, OpPrepend:
		return fmt.Sprintf("%s %q", c.Op, c.Description)
	case OpRemove, OpComplete:
		return fmt.Sprintf("%s %d", c.Op, c.ID)
	default:
		return c.Op
	}
}

// IsQuery reports whether the command reads the list without changing it.
func (c Command) IsQuery() bool {
	switch c.Op {
	case OpCompleteTasks, OpIncompleteTasks, OpList:
		return true
	}
	return false
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// Parse decodes a script from JSON. Structural problems beyond malformed
// JSON are reported by Validate, not here.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	s.raw = append([]byte(nil), data...)
	return &s, nil
}

// document returns the script as a generic JSON value for schema validation.
func (s *Script) document() (any, error) {
	data := s.raw
	if data == nil {
		var err error
		if data, err = json.Marshal(s); err != nil {
			return nil, fmt.Errorf("marshal script: %w", err)
		}
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal script: %w", err)
	}
	return doc, nil
}
