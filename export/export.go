// Package export writes extracted exam collections as a script module or
// plain JSON, validating the structure against the collection schema first.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samplegit/quiz-app/model"
)

// ErrInvalidOutput is returned when the encoded collection does not match
// the collection schema
var ErrInvalidOutput = errors.New("output does not match collection schema")

// Format selects the output encoding
type Format int

const (
	// Script is a script module assigning the collection to a constant
	Script Format = iota
	// JSON is the bare collection object
	JSON
)

// String returns the format name used on the command line
func (f Format) String() string {
	if f == JSON {
		return "json"
	}
	return "js"
}

// ParseFormat parses "js" or "json" (case-insensitive)
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "js", "script", "":
		return Script, nil
	case "json":
		return JSON, nil
	default:
		return Script, fmt.Errorf("unknown output format %q (want js or json)", s)
	}
}

// DetectFormat picks the format from a file extension, defaulting to Script
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return Script
}

// ScriptOptions configures script-module output
type ScriptOptions struct {
	// Identifier is the constant the collection is assigned to
	// Default: QUESTIONS_DATA
	Identifier string

	// Comments are written as leading "//" lines
	Comments []string

	// Indent is the indentation unit for the JSON body
	// Default: two spaces
	Indent string
}

// DefaultScriptOptions returns the default script options
func DefaultScriptOptions() ScriptOptions {
	return ScriptOptions{
		Identifier: "QUESTIONS_DATA",
		Comments: []string{
			"간호조무사 모의고사 문제 데이터 (OCR 추출)",
			"이미지가 포함된 문제는 텍스트가 불완전할 수 있음",
		},
		Indent: "  ",
	}
}

// Marshal encodes the collection as indented JSON and validates it
func Marshal(c *model.Collection, indent string) ([]byte, error) {
	var raw bytes.Buffer
	enc := json.NewEncoder(&raw)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode collection: %w", err)
	}

	if err := Validate(raw.Bytes()); err != nil {
		return nil, err
	}

	if indent == "" {
		return bytes.TrimRight(raw.Bytes(), "\n"), nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw.Bytes(), "", indent); err != nil {
		return nil, fmt.Errorf("failed to indent collection: %w", err)
	}
	return bytes.TrimRight(out.Bytes(), "\n"), nil
}

// WriteScript writes the collection as a script module:
//
//	// comment
//	const QUESTIONS_DATA = { ... };
func WriteScript(w io.Writer, c *model.Collection, opts ScriptOptions) error {
	defaults := DefaultScriptOptions()
	if opts.Identifier == "" {
		opts.Identifier = defaults.Identifier
	}
	if opts.Indent == "" {
		opts.Indent = defaults.Indent
	}

	body, err := Marshal(c, opts.Indent)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, comment := range opts.Comments {
		buf.WriteString("// ")
		buf.WriteString(comment)
		buf.WriteByte('\n')
	}
	buf.WriteString("const ")
	buf.WriteString(opts.Identifier)
	buf.WriteString(" = ")
	buf.Write(body)
	buf.WriteString(";\n")

	_, err = w.Write(buf.Bytes())
	return err
}

// WriteJSON writes the collection as indented JSON followed by a newline
func WriteJSON(w io.Writer, c *model.Collection) error {
	body, err := Marshal(c, "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(body, '\n'))
	return err
}

// Write encodes the collection in the given format
func Write(w io.Writer, c *model.Collection, format Format) error {
	if format == JSON {
		return WriteJSON(w, c)
	}
	return WriteScript(w, c, DefaultScriptOptions())
}

// WriteFile encodes the collection to path, creating parent directories.
// The file is written to a temporary sibling and renamed into place.
func WriteFile(path string, c *model.Collection, format Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, c, format); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// ReadScript extracts the collection from a script module written by WriteScript
func ReadScript(data []byte) (*model.Collection, error) {
	start := bytes.IndexByte(data, '{')
	end := bytes.LastIndexByte(data, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no object literal found", ErrInvalidOutput)
	}
	return ReadJSON(data[start : end+1])
}

// ReadJSON decodes and validates a collection
func ReadJSON(data []byte) (*model.Collection, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	c := model.NewCollection()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to decode collection: %w", err)
	}
	return c, nil
}
