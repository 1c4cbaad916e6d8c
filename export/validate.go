package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// Schema returns the raw collection schema
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}

func collectionSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("collection.json", bytes.NewReader(schemaJSON)); err != nil {
			compileErr = fmt.Errorf("failed to load collection schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("collection.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("failed to compile collection schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks encoded collection JSON against the collection schema:
// round keys and question keys are decimal numbers, and every question has
// a string text and exactly the choice keys "1" through "5".
func Validate(data []byte) error {
	schema, err := collectionSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return nil
}
