package strategist

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SystemPrompt frames the external generator's role and its output
// obligations. The JSON-only requirement is load-bearing: anything else
// fails the parse stage.
const SystemPrompt = `You are the strategist for a paid-chat creator assistant.
Given the JSON input describing the scene, persona, signals, policy gates and
priors, produce the plan for the next conversational turn.

Rules:
- Respond with a single JSON object matching the StrategistOut contract.
  No prose, no markdown fences, no commentary.
- mission must be one of the allowed missions in the policy.
- The writer is blind to price: never place prices or amounts in lever text.
- Make no time promises.
- Respect every gating flag and tier budget in the policy.`

// userTemplate is the fixed user prompt shell. The full input payload is
// substituted for the placeholder; no field is omitted.
const userTemplate = `Plan the next turn.

INPUT:
{{INPUT_JSON}}

Return only the StrategistOut JSON object.`

// BuildUserPrompt serializes the complete typed input into the user prompt
// template. Every top-level field of StrategistInput is carried by the
// serialized payload.
func BuildUserPrompt(in StrategistInput) (string, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("marshal strategist input: %w", err)
	}
	return strings.Replace(userTemplate, "{{INPUT_JSON}}", string(payload), 1), nil
}
