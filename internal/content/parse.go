package content

import (
	"encoding/json"
	"fmt"

	"github.com/souffle-app/souffle-content/internal/schema"
)

// SchemaViolation reports a record that does not conform to its shape.
type SchemaViolation struct {
	Record string // "world", "lesson" or "scene"
	ID     string // may be empty when the record has no usable id
	Errors []schema.ValidationError
}

func (e *SchemaViolation) Error() string {
	res := schema.Result{Errors: e.Errors}
	if e.ID != "" {
		return fmt.Sprintf("%s %q violates schema: %s", e.Record, e.ID, res.Summary())
	}
	return fmt.Sprintf("%s violates schema: %s", e.Record, res.Summary())
}

// ParseWorld validates a decoded JSON value against the world schema.
func ParseWorld(record any) (*World, error) {
	var w World
	if err := parseInto(record, schema.World, "world", &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// ParseLesson validates a decoded JSON value against the lesson schema and applies the
// isCore=false and difficulty=1 defaults.
func ParseLesson(record any) (*Lesson, error) {
	l := Lesson{Difficulty: DefaultDifficulty}
	if err := parseInto(record, schema.Lesson, "lesson", &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// ParseScene validates a decoded JSON value against the scene schema and returns the shared
// fields together with the variant selected by "type".
func ParseScene(record any) (*Scene, error) {
	var s Scene
	if err := parseInto(record, schema.Scene, "scene", &s); err != nil {
		return nil, err
	}

	v := newVariant(s.Type)
	if v == nil {
		// unreachable while the schema enum and SceneTypes agree
		return nil, &SchemaViolation{Record: "scene", ID: s.ID, Errors: []schema.ValidationError{
			{Path: "type", Message: fmt.Sprintf("unknown scene type %q", s.Type)},
		}}
	}
	if err := remarshal(record, v); err != nil {
		return nil, fmt.Errorf("decode %s scene %q: %w", s.Type, s.ID, err)
	}
	s.Variant = v
	s.Record, _ = record.(map[string]any)
	return &s, nil
}

func parseInto(record any, schemaName, kind string, dst any) error {
	res, err := schema.Validate(record, schemaName)
	if err != nil {
		return err
	}
	if !res.Valid {
		return &SchemaViolation{Record: kind, ID: IDOf(record), Errors: res.Errors}
	}
	if err := remarshal(record, dst); err != nil {
		return fmt.Errorf("decode %s: %w", kind, err)
	}
	return nil
}

// remarshal moves a generic JSON value into a typed struct.
func remarshal(record any, dst any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

// IDOf returns the string "id" of a JSON object, or "".
func IDOf(record any) string {
	if m, ok := record.(map[string]any); ok {
		if id, ok := m["id"].(string); ok {
			return id
		}
	}
	return ""
}

// InjectLessonID fills in lessonId from the owning lesson when the record leaves it unset
// (missing, null, empty string, false or zero). It reports whether it changed the record.
func InjectLessonID(record any, lessonID string) bool {
	m, ok := record.(map[string]any)
	if !ok {
		return false
	}
	if !isFalsy(m["lessonId"]) {
		return false
	}
	m["lessonId"] = lessonID
	return true
}

func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0
	default:
		return false
	}
}
