package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateOptions controls script validation.
type ValidateOptions struct {
	// SchemaPath overrides the bundled schema with a schema file.
	// A missing file falls back to minimal validation with a warning.
	SchemaPath string
}

// ValidationResult is the outcome of validating a script.
type ValidationResult struct {
	Valid    bool
	Errors   []*ValidationError
	Warnings []string

	// UsedSchema is "bundled", the schema file path, or "" when only
	// minimal validation ran.
	UsedSchema string
}

// ValidationError locates a problem in a script document.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Err joins the result's errors, or returns nil for a valid script.
func (r *ValidationResult) Err() error {
	if r == nil || len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Validate checks the script against its JSON Schema and lints it.
func (s *Script) Validate(opts ValidateOptions) *ValidationResult {
	result := &ValidationResult{}
	if s == nil {
		result.Errors = append(result.Errors, &ValidationError{Err: errors.New("script is nil")})
		return result
	}

	schema, used, warn := compileSchema(opts.SchemaPath)
	if warn != "" {
		result.Warnings = append(result.Warnings, warn)
	}
	result.UsedSchema = used

	if schema != nil {
		doc, err := s.document()
		if err != nil {
			result.Errors = append(result.Errors, &ValidationError{Err: err})
		} else if err := schema.Validate(doc); err != nil {
			result.Errors = append(result.Errors, schemaErrors(err)...)
		}
	} else {
		result.Errors = append(result.Errors, validateMinimal(s)...)
	}

	result.Warnings = append(result.Warnings, lint(s)...)
	result.Valid = len(result.Errors) == 0
	return result
}

// compileSchema picks and compiles the schema. A nil schema means the
// caller should fall back to minimal validation.
func compileSchema(schemaPath string) (*jsonschema.Schema, string, string) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	if schemaPath != "" {
		absPath, err := filepath.Abs(schemaPath)
		if err != nil {
			return nil, "", fmt.Sprintf("invalid schema path %q: %v; using minimal validation", schemaPath, err)
		}
		if _, err := os.Stat(absPath); err != nil {
			return nil, "", fmt.Sprintf("schema file %s not found; using minimal validation", absPath)
		}
		schema, err := compiler.Compile(absPath)
		if err != nil {
			return nil, "", fmt.Sprintf("compile schema %s: %v; using minimal validation", absPath, err)
		}
		return schema, absPath, ""
	}

	if err := compiler.AddResource(bundledSchemaURL, strings.NewReader(bundledSchema)); err != nil {
		return nil, "", fmt.Sprintf("load bundled schema: %v; using minimal validation", err)
	}
	schema, err := compiler.Compile(bundledSchemaURL)
	if err != nil {
		return nil, "", fmt.Sprintf("compile bundled schema: %v; using minimal validation", err)
	}
	return schema, "bundled", ""
}

// schemaErrors flattens a jsonschema error tree into its leaf failures.
func schemaErrors(err error) []*ValidationError {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []*ValidationError{{Err: err}}
	}
	var out []*ValidationError
	collectSchemaErrors(ve, &out)
	if len(out) == 0 {
		out = append(out, &ValidationError{Path: jsonPointerToPath(ve.InstanceLocation), Err: errors.New(ve.Message)})
	}
	return out
}

func collectSchemaErrors(err *jsonschema.ValidationError, out *[]*ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*out = append(*out, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, out)
	}
}

// validateMinimal mirrors the bundled schema's rules on the decoded script.
func validateMinimal(s *Script) []*ValidationError {
	var errs []*ValidationError
	add := func(path, format string, args ...any) {
		errs = append(errs, &ValidationError{Path: path, Err: fmt.Errorf(format, args...)})
	}

	if s.SchemaVersion != SchemaVersion {
		add("schema_version", "unsupported schema version %d, want %d", s.SchemaVersion, SchemaVersion)
	}
	if s.Commands == nil {
		add("", "missing commands")
	}
	for i, c := range s.Commands {
		path := fmt.Sprintf("commands[%d]", i)
		switch c.Op {
		case OpAppend, OpPrepend:
			if !c.HasDescription() {
				add(path, "%s requires a description", c.Op)
			}
		case OpRemove, OpComplete:
			if c.ID < 1 {
				add(path+".id", "%s requires an id of at least 1", c.Op)
			}
		case OpCompleteTasks, OpIncompleteTasks, OpList:
		case "":
			add(path, "missing op")
		default:
			add(path+".op", "unknown op %q, must be one of: %s", c.Op, strings.Join(Ops, ", "))
		}
	}
	return errs
}

// lint reports suspicious but legal scripts.
func lint(s *Script) []string {
	var warnings []string
	if len(s.Commands) == 0 {
		warnings = append(warnings, "script has no commands")
	}
	for i, c := range s.Commands {
		if !slices.Contains(Ops, c.Op) {
			continue
		}
		if c.Description != "" && c.Op != OpAppend && c.Op != OpPrepend {
			warnings = append(warnings, fmt.Sprintf("commands[%d]: description is ignored by %s", i, c.Op))
		}
		if c.ID != 0 && c.Op != OpRemove && c.Op != OpComplete {
			warnings = append(warnings, fmt.Sprintf("commands[%d]: id is ignored by %s", i, c.Op))
		}
	}
	return warnings
}

// jsonPointerToPath converts a JSON Pointer such as "/commands/0/id" to
// "commands[0].id".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
