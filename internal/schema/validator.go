package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/souffle-app/souffle-content/internal/assets"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Registry names for the embedded content schemas.
const (
	World  = "world-v1"
	Lesson = "lesson-v1"
	Scene  = "scene-v1"
)

// ValidationError represents a single validation error.
type ValidationError struct {
	Path    string `json:"path,omitempty"` // dotted field path, e.g. "options.0.image"
	Message string `json:"message"`
}

func (e ValidationError) String() string {
	return e.Path + ": " + e.Message
}

// Result holds the validation result.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Summary joins all errors into one line suitable for a build failure message.
func (r *Result) Summary() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, "; ")
}

// registry holds pre-compiled schemas for known schema names.
var registry = make(map[string]*gojsonschema.Schema)

// init populates the registry with the embedded schemas. A schema that fails to compile is a
// programming error, so it panics instead of surfacing later as "schema not found".
func init() {
	for _, info := range assets.GetSchemaNames() {
		schemaBytes, _ := assets.GetSchema(info.Path)
		sch, err := compileSchemaBytes(schemaBytes)
		if err != nil {
			panic(fmt.Sprintf("embedded schema %s: %v", info.Name, err))
		}
		registry[info.Name] = sch
	}
}

// compileSchemaBytes converts YAML schema bytes to canonical JSON for the loader.
func compileSchemaBytes(schemaBytes []byte) (*gojsonschema.Schema, error) {
	var schemaData interface{}
	if err := yaml.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, fmt.Errorf("parse schema YAML: %w", err)
	}
	jsonBytes, err := json.Marshal(schemaData)
	if err != nil {
		return nil, fmt.Errorf("encode schema to JSON: %w", err)
	}
	sch, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(jsonBytes))
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return sch, nil
}

// conditionNoise are gojsonschema error types that only restate that a sub-schema failed;
// the sub-schema's own errors say which field and constraint.
var conditionNoise = map[string]bool{
	"condition_then": true,
	"condition_else": true,
	"number_all_of":  true,
}

// Validate validates data (interface{}) against the named schema.
func Validate(data interface{}, schemaName string) (*Result, error) {
	sch, ok := registry[schemaName]
	if !ok {
		return nil, fmt.Errorf("schema %s not found in registry", schemaName)
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode data to JSON: %w", err)
	}
	result, err := sch.Validate(gojsonschema.NewBytesLoader(dataJSON))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	res := &Result{Valid: result.Valid()}
	if res.Valid {
		return res, nil
	}

	var noise []ValidationError
	for _, verr := range result.Errors() {
		field := verr.Field()
		if field == "" || field == "(root)" {
			field = "root"
		}
		ve := ValidationError{Path: field, Message: verr.Description()}
		if conditionNoise[verr.Type()] {
			noise = append(noise, ve)
			continue
		}
		res.Errors = append(res.Errors, ve)
	}
	if len(res.Errors) == 0 {
		res.Errors = noise
	}
	return res, nil
}
