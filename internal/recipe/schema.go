package recipe

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var recipeSchema string

var (
	compiledSchema *gojsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

func getSchema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		loader := gojsonschema.NewStringLoader(recipeSchema)
		compiledSchema, compileErr = gojsonschema.NewSchema(loader)
	})
	return compiledSchema, compileErr
}

// validateDocument checks a decoded recipe document against the embedded
// JSON Schema. Violations are reported as a MalformedError naming the field
// that failed.
func validateDocument(raw any) error {
	schema, err := getSchema()
	if err != nil {
		return fmt.Errorf("compiling recipe schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("validating recipe document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		violations = append(violations, e.String())
	}
	first := result.Errors()[0]
	return &MalformedError{
		Field:  first.Field(),
		Reason: strings.Join(violations, "; "),
	}
}
