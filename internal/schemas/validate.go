// Package schemas validates wizard step payloads against embedded JSON Schemas.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed step1.schema.json
var step1Schema string

//go:embed step2.schema.json
var step2Schema string

//go:embed step3.schema.json
var step3Schema string

// stepSchemas maps a wizard step to its payload schema. Steps four and five
// carry no client payload and are not listed.
var stepSchemas = map[int]string{
	1: step1Schema,
	2: step2Schema,
	3: step3Schema,
}

// ValidationError aggregates the field-level failures of one payload.
type ValidationError struct {
	Step     int
	Failures []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %d payload invalid: %s", e.Step, strings.Join(e.Failures, "; "))
}

// HasPayloadSchema reports whether a step accepts a client payload.
func HasPayloadSchema(step int) bool {
	_, ok := stepSchemas[step]
	return ok
}

// ValidateStepPayload checks a raw JSON payload against the schema for the
// given wizard step.
func ValidateStepPayload(step int, payload []byte) error {
	schema, ok := stepSchemas[step]
	if !ok {
		return fmt.Errorf("no payload schema for step %d", step)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to validate step %d payload: %w", step, err)
	}

	if !result.Valid() {
		failures := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			failures = append(failures, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return &ValidationError{Step: step, Failures: failures}
	}
	return nil
}
