// Package schemas provides JSON Schema validation for inbound documents: webhook payloads
// and content fixtures.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Schema names.
const (
	WebhookPayload = "webhook_payload"
	Fixture        = "fixture"
)

//go:embed files/*.schema.json
var files embed.FS

var (
	compiledMu sync.Mutex
	compiled   = map[string]*gojsonschema.Schema{}
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Summary returns the field errors on one line.
func (ve *ValidationError) Summary() string {
	parts := make([]string, 0, len(ve.Errors))
	for _, err := range ve.Errors {
		parts = append(parts, err.Field+": "+err.Message)
	}
	return strings.Join(parts, "; ")
}

// load compiles an embedded schema once.
func load(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if schema, ok := compiled[name]; ok {
		return schema, nil
	}
	path := "files/" + name + ".schema.json"
	data, err := files.ReadFile(path)
	if err != nil {
		return nil, &SchemaLoadError{Path: path, Message: "unknown schema", Cause: err}
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Path: path, Message: "invalid schema", Cause: err}
	}
	compiled[name] = schema
	return schema, nil
}

// Validate validates a decoded document (maps, slices and scalars) against a named
// embedded schema.
func Validate(name string, document any) error {
	schema, err := load(name)
	if err != nil {
		return err
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return &SchemaLoadError{Path: name, Message: "document could not be loaded", Cause: err}
	}
	return resultError(result)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return resultError(result)
}

func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	// Build structured error
	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
