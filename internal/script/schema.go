package script

const bundledSchemaURL = "https://todolist.local/schema/script.schema.json"

const bundledSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "todolist command script",
  "type": "object",
  "required": ["schema_version", "commands"],
  "additionalProperties": false,
  "properties": {
    "schema_version": { "const": 1 },
    "commands": {
      "type": "array",
      "items": { "$ref": "#/$defs/command" }
    }
  },
  "$defs": {
    "command": {
      "type": "object",
      "required": ["op"],
      "additionalProperties": false,
      "properties": {
        "op": {
          "enum": ["append", "prepend", "remove", "complete", "complete_tasks", "incomplete_tasks", "list"]
        },
        "description": { "type": "string" },
        "id": { "type": "integer", "minimum": 1 }
      },
      "allOf": [
        {
          "if": { "properties": { "op": { "enum": ["append", "prepend"] } } },
          "then": { "required": ["description"] }
        },
        {
          "if": { "properties": { "op": { "enum": ["remove", "complete"] } } },
          "then": { "required": ["id"] }
        }
      ]
    }
  }
}
`

// BundledSchema returns the JSON Schema compiled into the binary.
func BundledSchema() string {
	return bundledSchema
}
