// internal/tools/validate.go
package tools

import (
	"fmt"
	"math"

	"github.com/kathir-ks/dexscreener-mcp/pkg/mcp"
)

// ValidationError names the first argument that failed schema validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Reason)
}

func newValidationError(field, format string, a ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, a...)}
}

// validateArgs checks supplied arguments against a declared schema: required
// keys present, types matching, numeric and length bounds respected. The
// first violation wins. Keys outside the schema are ignored, and minItems is
// not enforced here: an empty batch short-circuits in the provider client
// instead of erroring, so the advertised minItems stays advisory.
func validateArgs(schema mcp.InputSchema, args map[string]any) error {
	for _, key := range schema.Required {
		if _, ok := args[key]; !ok {
			return newValidationError(key, "required argument is missing")
		}
	}

	for key, value := range args {
		prop, ok := schema.Properties[key]
		if !ok {
			continue
		}
		if err := validateValue(key, prop, value); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(field string, prop mcp.Property, value any) error {
	switch prop.Type {
	case "string":
		if _, ok := value.(string); !ok {
			return newValidationError(field, "expected a string, got %T", value)
		}

	case "integer":
		n, ok := asNumber(value)
		if !ok {
			return newValidationError(field, "expected an integer, got %T", value)
		}
		if n != math.Trunc(n) {
			return newValidationError(field, "expected an integer, got %v", value)
		}
		if prop.Minimum != nil && n < *prop.Minimum {
			return newValidationError(field, "must be at least %v", *prop.Minimum)
		}
		if prop.Maximum != nil && n > *prop.Maximum {
			return newValidationError(field, "must be at most %v", *prop.Maximum)
		}

	case "number":
		n, ok := asNumber(value)
		if !ok {
			return newValidationError(field, "expected a number, got %T", value)
		}
		if prop.Minimum != nil && n < *prop.Minimum {
			return newValidationError(field, "must be at least %v", *prop.Minimum)
		}
		if prop.Maximum != nil && n > *prop.Maximum {
			return newValidationError(field, "must be at most %v", *prop.Maximum)
		}

	case "array":
		items, ok := value.([]any)
		if !ok {
			return newValidationError(field, "expected an array, got %T", value)
		}
		if prop.MaxItems != nil && len(items) > *prop.MaxItems {
			return newValidationError(field, "must contain at most %d items", *prop.MaxItems)
		}
		if prop.Items != nil {
			for i, item := range items {
				if err := validateValue(fmt.Sprintf("%s[%d]", field, i), *prop.Items, item); err != nil {
					return err
				}
			}
		}

	case "object":
		if _, ok := value.(map[string]any); !ok {
			return newValidationError(field, "expected an object, got %T", value)
		}
	}
	return nil
}

// asNumber accepts the numeric types a decoded JSON document or a Go caller
// can supply.
func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
