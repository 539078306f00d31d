package jsonschema

import "errors"

var (
	ErrInvalidSchema    = errors.New("invalid schema")
	ErrValidationSystem = errors.New("schema validation system error")
)
