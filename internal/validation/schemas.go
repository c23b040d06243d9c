package validation

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var embeddedSchemas embed.FS

const (
	SchemaModelTurn     = "model-turn"
	SchemaFeedbackEvent = "feedback-event"
)

var schemaFiles = map[string]string{
	SchemaModelTurn:     "model-turn.json",
	SchemaFeedbackEvent: "feedback-event.json",
}

// SchemaValidator validates JSON documents against named schemas.
type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{
		schemas: make(map[string]*gojsonschema.Schema),
	}
}

// NewEmbeddedValidator returns a validator loaded with the built-in schemas.
func NewEmbeddedValidator() (*SchemaValidator, error) {
	sv := NewSchemaValidator()
	if err := sv.LoadSchemaFromFS(embeddedSchemas, "schemas"); err != nil {
		return nil, err
	}
	return sv, nil
}

// MustEmbeddedValidator panics if the built-in schemas fail to compile.
func MustEmbeddedValidator() *SchemaValidator {
	sv, err := NewEmbeddedValidator()
	if err != nil {
		panic(err)
	}
	return sv
}

// ValidateModelTurn checks structured language model output.
func (sv *SchemaValidator) ValidateModelTurn(data interface{}) *ValidationResult {
	return sv.validate(SchemaModelTurn, data)
}

func (sv *SchemaValidator) ValidateFeedbackEvent(data interface{}) *ValidationResult {
	return sv.validate(SchemaFeedbackEvent, data)
}

func (sv *SchemaValidator) validate(schemaName string, data interface{}) *ValidationResult {
	schema, exists := sv.schemas[schemaName]
	if !exists {
		return invalid("schema", "SCHEMA_NOT_FOUND", fmt.Sprintf("Schema '%s' not found", schemaName))
	}

	loader, err := documentLoader(data)
	if err != nil {
		return invalid("data", "JSON_MARSHAL_ERROR", err.Error())
	}

	result, err := schema.Validate(loader)
	if err != nil {
		return invalid("document", "INVALID_JSON", fmt.Sprintf("Document is not valid JSON: %v", err))
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    "VALIDATION_ERROR",
			Value:   desc.Value(),
		})
	}
	return out
}

// documentLoader accepts raw JSON as string or bytes; anything else is marshalled first.
func documentLoader(data interface{}) (gojsonschema.JSONLoader, error) {
	switch v := data.(type) {
	case string:
		return gojsonschema.NewStringLoader(v), nil
	case []byte:
		return gojsonschema.NewBytesLoader(v), nil
	default:
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal data to JSON: %w", err)
		}
		return gojsonschema.NewBytesLoader(raw), nil
	}
}

func invalid(field, code, message string) *ValidationResult {
	return &ValidationResult{
		Errors: []ValidationError{{Field: field, Message: message, Code: code}},
	}
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Value   interface{} `json:"value,omitempty"`
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation error in field '%s': %s", ve.Field, ve.Message)
}

// Err folds the result into a single error, or nil when valid.
func (vr *ValidationResult) Err() error {
	if vr.Valid {
		return nil
	}
	if len(vr.Errors) == 0 {
		return fmt.Errorf("document failed validation")
	}
	return vr.Errors[0]
}

// ToAPIError converts validation errors to the API error body.
func (vr *ValidationResult) ToAPIError() map[string]interface{} {
	if vr.Valid {
		return nil
	}

	fieldErrors := make(map[string][]string)
	for _, err := range vr.Errors {
		if err.Field != "" {
			fieldErrors[err.Field] = append(fieldErrors[err.Field], err.Message)
		}
	}

	return map[string]interface{}{
		"error": map[string]interface{}{
			"code":    "VALIDATION_ERROR",
			"message": "Request validation failed",
			"details": map[string]interface{}{
				"fieldErrors": fieldErrors,
			},
		},
	}
}

func (sv *SchemaValidator) SchemaExists(name string) bool {
	_, exists := sv.schemas[name]
	return exists
}

// LoadSchemaFromFS compiles every known schema found under schemaDir in fsys.
func (sv *SchemaValidator) LoadSchemaFromFS(fsys fs.FS, schemaDir string) error {
	for name, filename := range schemaFiles {
		schemaBytes, err := fs.ReadFile(fsys, path.Join(schemaDir, filename))
		if err != nil {
			return fmt.Errorf("failed to read schema file %s: %w", filename, err)
		}

		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaBytes))
		if err != nil {
			return fmt.Errorf("failed to load schema %s: %w", name, err)
		}

		sv.schemas[name] = schema
	}
	return nil
}
