package definition

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaDocument is the published schema every definition file must satisfy.
//
//go:embed clients.schema.json
var schemaDocument []byte

const schemaURL = "clients.schema.json"

//nolint:gochecknoglobals // Compiling the embedded schema once is intentional.
var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

// schema compiles the embedded schema on first use.
func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaDocument))
		if err != nil {
			compileErr = fmt.Errorf("parse embedded schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("register embedded schema: %w", err)
			return
		}

		compiledSchema, compileErr = compiler.Compile(schemaURL)
	})

	return compiledSchema, compileErr
}

// validateDocument checks raw definition file contents against the schema.
func validateDocument(data []byte) error {
	sch, err := schema()
	if err != nil {
		return err
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse definition document: %w", err)
	}

	return sch.Validate(instance)
}
