package jsonschema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Validator checks message content against a JSON schema compiled once at
// construction time.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles the schema document. An invalid schema fails fast
// here rather than at first validation.
func NewValidator(schema string) (*Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate parses content as JSON and checks it against the schema. On
// success the parsed document is returned. Unparseable content and
// conformance failures are both reported as *ValidationError; any other
// error is a validation system error.
func (v *Validator) Validate(content []byte) (any, error) {
	var parsed any
	if err := json.Unmarshal(content, &parsed); err != nil {
		return nil, &ValidationError{
			Causes: []string{fmt.Sprintf("content is not valid JSON: %v", err)},
			Value:  string(content),
		}
	}

	result, err := v.schema.Validate(gojsonschema.NewGoLoader(parsed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationSystem, err)
	}
	if result.Valid() {
		return parsed, nil
	}

	causes := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		causes = append(causes, describe(re))
	}
	return nil, &ValidationError{Causes: causes, Value: parsed}
}

// describe renders one schema violation. Type mismatches use the canonical
// "does not match any allowed primitive type" phrasing that downstream error
// consumers match on.
func describe(re gojsonschema.ResultError) string {
	if re.Type() == "invalid_type" {
		return fmt.Sprintf("%s: value does not match any allowed primitive type (expected: %v, found: %v)",
			re.Field(), re.Details()["expected"], re.Details()["given"])
	}
	return fmt.Sprintf("%s: %s", re.Field(), re.Description())
}

// ValidationError carries machine-readable conformance diagnostics plus the
// offending (parsed) value.
type ValidationError struct {
	Causes []string
	Value  any
}

// Error joins all violation descriptions.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %s", strings.Join(e.Causes, "; "))
}
