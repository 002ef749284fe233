package question

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/ascendprep/ascend/internal/curriculum"
)

// bankSchema is the JSON schema every imported question bank must satisfy
// before individual items are decoded.
var bankSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":      map[string]any{"type": "string", "minLength": 1},
			"subject": map[string]any{"type": "string", "enum": []any{"physics", "chemistry", "mathematics"}},
			"chapter": map[string]any{"type": "string", "minLength": 1},
			"type":    map[string]any{"type": "string", "enum": []any{"multiple_choice", "numerical"}},
			"text":    map[string]any{"type": "string"},
			"options": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"correct_option": map[string]any{"type": "string"},
			"correct_value":  map[string]any{"type": "number"},
			"range_min":      map[string]any{"type": "number"},
			"range_max":      map[string]any{"type": "number"},
			"irt_a":          map[string]any{"type": "number"},
			"irt_b":          map[string]any{"type": "number"},
			"irt_c":          map[string]any{"type": "number", "minimum": 0, "maximum": 1},
		},
		"required":             []any{"id", "subject", "chapter", "type", "text"},
		"additionalProperties": false,
	},
}

var (
	compiledBankSchema     *jsonschema.Schema
	compileBankSchemaOnce  sync.Once
	compileBankSchemaError error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileBankSchemaOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value (any), not raw
		// Go literals. Marshal then unmarshal to get a clean representation.
		raw, err := json.Marshal(bankSchema)
		if err != nil {
			compileBankSchemaError = fmt.Errorf("marshal bank schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			compileBankSchemaError = fmt.Errorf("parse bank schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://question-bank.json", doc); err != nil {
			compileBankSchemaError = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledBankSchema, compileBankSchemaError = c.Compile("schema://question-bank.json")
	})
	return compiledBankSchema, compileBankSchemaError
}

// LoadBank parses and validates a JSON question bank. The raw document is
// validated against the bank schema, then each item is checked for answer
// key consistency and its chapter key derived.
func LoadBank(raw []byte) ([]Question, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("question bank is not valid JSON: %w", err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile bank schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("question bank failed schema validation: %w", err)
	}

	var questions []Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}

	for i := range questions {
		q := &questions[i]
		if err := validateItem(q); err != nil {
			return nil, fmt.Errorf("question %q (index %d): %w", q.ID, i, err)
		}
		q.ChapterKey = curriculum.ChapterKeyFor(q.Subject, q.Chapter)
	}

	deduped, dropped := Dedupe(questions)
	if dropped > 0 {
		return nil, fmt.Errorf("question bank contains %d duplicate identifiers", dropped)
	}
	return deduped, nil
}

// LoadBankFile reads and parses a question bank from disk.
func LoadBankFile(path string) ([]Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	return LoadBank(raw)
}

// validateItem checks answer-key consistency beyond what the schema can
// express.
func validateItem(q *Question) error {
	switch q.Type {
	case TypeMultipleChoice:
		if len(q.Options) < 2 {
			return fmt.Errorf("multiple choice needs at least 2 options, got %d", len(q.Options))
		}
		if q.CorrectOption == "" {
			return fmt.Errorf("multiple choice missing correct_option")
		}
		found := false
		for _, opt := range q.Options {
			if opt == q.CorrectOption {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("correct_option %q is not among the options", q.CorrectOption)
		}

	case TypeNumerical:
		hasRange := q.RangeMin != nil && q.RangeMax != nil
		hasValue := q.CorrectValue != nil
		if !hasRange && !hasValue {
			return fmt.Errorf("numerical question needs correct_value or range_min/range_max")
		}
		if hasRange && *q.RangeMin > *q.RangeMax {
			return fmt.Errorf("range_min %f exceeds range_max %f", *q.RangeMin, *q.RangeMax)
		}

	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	return nil
}
