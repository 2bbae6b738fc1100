package strategist

import (
	"context"
	"fmt"
)

// Generator is the injected text-generation capability. The core depends on
// it but never implements it; deadlines and cancellation come from the
// caller's context.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// rawPrefixLimit bounds how much raw generator output a ParseError carries.
const rawPrefixLimit = 400

// ParseError reports generator output that was not a single JSON value.
type ParseError struct {
	Err       error
	RawPrefix string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("strategist JSON parse error: %v\nraw: %s", e.Err, e.RawPrefix)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError reports a contract violation in parsed generator output.
type SchemaError struct {
	Field  string
	Detail string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("strategist schema validation failed: %s", e.Detail)
	}
	return fmt.Sprintf("strategist schema validation failed: %s: %s", e.Field, e.Detail)
}

// Plan runs the full external-plan path: build the prompt, invoke the
// generator, parse, validate. The accepted plan is returned unchanged; any
// failure is fatal and surfaces as a typed error. There is no retry and no
// fallback plan.
func Plan(ctx context.Context, in StrategistInput, gen Generator) (StrategistOut, error) {
	userPrompt, err := BuildUserPrompt(in)
	if err != nil {
		return StrategistOut{}, fmt.Errorf("build user prompt: %w", err)
	}

	raw, err := gen.Generate(ctx, SystemPrompt, userPrompt)
	if err != nil {
		return StrategistOut{}, fmt.Errorf("invoke generator: %w", err)
	}

	return ParseAndValidate(raw)
}

func rawPrefix(raw string) string {
	r := []rune(raw)
	if len(r) > rawPrefixLimit {
		r = r[:rawPrefixLimit]
	}
	return string(r)
}
