package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ValidateAndCoerce validates args against def's input schema. It returns
// the defaulted (and possibly coerced) arguments or a descriptive error.
//
// A nil args map is treated as empty; callers that send no arguments get
// the schema defaults, matching the never-reject-on-shape policy.
//
// Coercion rules (matching what automated callers commonly get wrong):
//   - A JSON string containing a valid number is coerced to float64/int64
//     when the schema expects "number" or "integer".
//   - A JSON number is coerced to string when the schema expects "string".
//   - A string "true"/"false" is coerced to bool when the schema expects
//     "boolean".
//
// If the schema cannot be compiled, args are returned unchanged (fail open).
func ValidateAndCoerce(def Definition, args map[string]any) (map[string]any, error) {
	if args == nil {
		args = map[string]any{}
	}
	schemaBytes := def.InputSchema
	if len(schemaBytes) == 0 {
		return args, nil
	}

	args = applyDefaults(args, schemaBytes)

	schema, err := compileSchema(schemaBytes)
	if err != nil {
		// Unparseable schema: fail open so a bad catalog entry doesn't
		// make its tool uncallable.
		return args, nil
	}

	// First attempt: validate as-is.
	if err := validateMap(schema, args); err == nil {
		return args, nil
	}

	// Second attempt: coerce obvious type mismatches and retry.
	coerced := coerceArgs(args, schemaBytes)
	if err := validateMap(schema, coerced); err == nil {
		return coerced, nil
	} else {
		return nil, formatValidationError(def.Name, args, err)
	}
}

// schemaProperties is the subset of the schema we inspect for defaulting
// and coercion.
type schemaProperties struct {
	Properties map[string]struct {
		Type    string          `json:"type"`
		Default json.RawMessage `json:"default"`
	} `json:"properties"`
}

// applyDefaults fills in declared defaults for absent top-level parameters
// so handlers never see a missing optional value.
func applyDefaults(args map[string]any, schemaBytes []byte) map[string]any {
	var def schemaProperties
	if err := json.Unmarshal(schemaBytes, &def); err != nil {
		return args
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	for name, prop := range def.Properties {
		if _, present := out[name]; present || len(prop.Default) == 0 {
			continue
		}
		var v any
		if err := json.Unmarshal(prop.Default, &v); err == nil {
			out[name] = v
		}
	}
	return out
}

// compileSchema unmarshals the schema bytes and compiles them.
// A fresh compiler is used each time to avoid resource-collision errors.
func compileSchema(schemaBytes []byte) (*jsonschema.Schema, error) {
	// jsonschema/v6 requires an already-unmarshaled value for AddResource.
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	const url = "mem://tool/schema"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return c.Compile(url)
}

// validateMap marshals the map to JSON and validates it against the schema.
func validateMap(schema *jsonschema.Schema, args map[string]any) error {
	b, err := json.Marshal(args)
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return err
	}
	return schema.Validate(inst)
}

// coerceArgs attempts simple type coercions on top-level properties.
func coerceArgs(args map[string]any, schemaBytes []byte) map[string]any {
	var def schemaProperties
	_ = json.Unmarshal(schemaBytes, &def)

	out := make(map[string]any, len(args))
	for k, v := range args {
		prop, ok := def.Properties[k]
		if !ok {
			out[k] = v
			continue
		}
		out[k] = coerceValue(v, prop.Type)
	}
	return out
}

func coerceValue(v any, targetType string) any {
	switch targetType {
	case "number", "integer":
		// String → number (callers sometimes quote numeric values)
		if s, ok := v.(string); ok {
			var n float64
			if err := json.Unmarshal([]byte(s), &n); err == nil {
				if targetType == "integer" {
					return int64(n)
				}
				return n
			}
		}
	case "string":
		// Number → string
		switch n := v.(type) {
		case float64:
			return fmt.Sprintf("%g", n)
		case int64:
			return fmt.Sprintf("%d", n)
		case json.Number:
			return n.String()
		}
	case "boolean":
		// String → bool
		if s, ok := v.(string); ok {
			switch strings.ToLower(s) {
			case "true":
				return true
			case "false":
				return false
			}
		}
	}
	return v
}

func formatValidationError(toolName string, args map[string]any, err error) error {
	argsJSON, _ := json.MarshalIndent(args, "", "  ")
	return fmt.Errorf("tool %q argument validation failed:\n%v\n\nReceived:\n%s",
		toolName, err, argsJSON)
}
