package strategist

import (
	"context"
	"encoding/json"
	"fmt"
)

// MockGenerator is a deterministic, offline generator used for end-to-end
// testing of the plan path without a model behind it.
type MockGenerator struct{}

// Generate returns a canned, contract-valid plan. The mission is the first
// allowed mission from the embedded input when one is present.
func (g *MockGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mission := "bond"
	var in StrategistInput
	if payload, ok := extractInputJSON(userPrompt); ok {
		if err := json.Unmarshal([]byte(payload), &in); err == nil && len(in.Policy.AllowedMissions) > 0 {
			mission = in.Policy.AllowedMissions[0]
		}
	}

	out := StrategistOut{
		PlanVersion: PlanVersion,
		Mission:     mission,
		Angle:       "warm check-in with one light question",
		TalkAbout:   []string{"their last topic"},
		ThemeTags:   []string{"warmth"},
		Delivery: Delivery{
			Bubbles:     1,
			Para:        "short",
			Mirroring:   "med",
			EmojiBudget: 1,
			Cadence:     "steady",
			AskRate:     "low",
		},
		ConvoLevers: []ConvoLever{
			{Type: "harvest", Text: "ask what made their day", GoalToken: "reply_token"},
		},
		SellIntent:  false,
		ShadowHints: []string{},
		SafetyConstraints: SafetyConstraints{
			NoExplicit:        true,
			RespectBoundaries: true,
			JealousyCap:       0.2,
			VulnerabilityCap:  0.3,
			IntimacyCap:       0.4,
		},
		NoveltySignature: fmt.Sprintf("mock:%s", mission),
		GuaranteedTokens: []string{"reply_token"},
		Invariants: map[string]bool{
			"writer_blind_to_price": true,
			"no_time_promises":      true,
		},
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("marshal mock plan: %w", err)
	}
	return string(data), nil
}

// extractInputJSON pulls the serialized payload back out of a prompt built
// by BuildUserPrompt.
func extractInputJSON(userPrompt string) (string, bool) {
	start := -1
	depth := 0
	for i, r := range userPrompt {
		switch r {
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start != -1 {
				depth--
				if depth == 0 {
					return userPrompt[start : i+1], true
				}
			}
		}
	}
	return "", false
}
