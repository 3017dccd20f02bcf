package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a fatal build error.
type Kind string

const (
	// StructuralError is a missing directory or required file.
	StructuralError Kind = "structural"
	// SyntaxError is malformed JSON in a source file.
	SyntaxError Kind = "syntax"
	// SchemaViolation is a record that does not match its shape, or a broken reference
	// when references are checked strictly.
	SchemaViolation Kind = "schema"
)

// BuildError aborts a build. Path is relative to the content root.
type BuildError struct {
	Kind    Kind
	Path    string
	Message string
	Cause   error
}

func (e *BuildError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *BuildError) Unwrap() error { return e.Cause }

// KindOf returns the kind of a BuildError anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return "", false
}

func structural(path, msg string) error {
	return &BuildError{Kind: StructuralError, Path: path, Message: msg}
}

func syntax(path string, data []byte, cause error) error {
	msg := "invalid JSON"
	var se *json.SyntaxError
	if errors.As(cause, &se) {
		line, col := position(data, se.Offset)
		msg = fmt.Sprintf("invalid JSON at line %d, column %d", line, col)
	}
	return &BuildError{Kind: SyntaxError, Path: path, Message: msg, Cause: cause}
}

func violation(path string, cause error) error {
	return &BuildError{Kind: SchemaViolation, Path: path, Message: "schema violation", Cause: cause}
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, c := range data[:offset] {
		if c == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
