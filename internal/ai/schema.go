package ai

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const logExpenseFunction = "log_expense"

// logExpenseParameters is the tool schema sent with every completion request.
// The same document gates the model's arguments locally before decoding, so a
// malformed call fails as a parsing error instead of producing a bad draft.
// Amount admits a numeric string because models occasionally quote numbers;
// coercion happens in parse.go.
const logExpenseParameters = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "date": {
      "type": "string",
      "pattern": "^\\d{4}-\\d{2}-\\d{2}$",
      "description": "Date of the expense in YYYY-MM-DD format."
    },
    "amount": {
      "anyOf": [
        {"type": "number", "exclusiveMinimum": 0},
        {"type": "string", "pattern": "^\\d+(\\.\\d+)?$"}
      ],
      "description": "Amount of the expense. Must be positive."
    },
    "category": {
      "type": "string",
      "minLength": 1,
      "description": "Category of the expense, chosen from the provided list."
    },
    "subcategory": {
      "type": "string",
      "description": "Subcategory of the expense, chosen from the provided list."
    },
    "notes": {
      "type": "string",
      "description": "Short free-text description of the expense."
    }
  },
  "required": ["date", "amount", "category"]
}`

var logExpenseArgsSchema = jsonschema.MustCompileString("log_expense.json", logExpenseParameters)

func rawSchema(s string) json.RawMessage {
	return json.RawMessage(s)
}

// validateToolArgs checks the raw tool-call arguments against the schema.
func validateToolArgs(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	return logExpenseArgsSchema.Validate(doc)
}
