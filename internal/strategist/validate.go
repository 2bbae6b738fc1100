package strategist

import (
	"encoding/json"
	"fmt"
)

// Missions is the fixed enumeration of plannable missions. Order matches
// the published contract.
var Missions = []string{
	"onboarding_first_impression",
	"discovery_surface",
	"discovery_personal",
	"bond",
	"playful_flirt",
	"tease_soft",
	"tension_build",
	"consent_seed",
	"sexting_suggestive",
	"sexting_aftercare",
	"roleplay_light",
	"vulnerability_share",
	"long_form_deepen",
	"jealousy_soft",
	"aftercare",
	"repair",
	"reengage",
	"prime_for_offer",
	"post_offer_value",
}

var missionSet = toSet(Missions)

var leverTypes = toSet([]string{
	"harvest", "seed", "invite", "callback_memory", "boundary_affirm",
	"humor", "repair", "aftercare_hook", "consent_check", "jealousy_soft",
})

var goalTokens = toSet([]string{
	"reply_token", "data_token", "curiosity_token", "consent_soft",
	"respect_token", "opt_in_signal", "novelty_token", "promise_kept",
})

var paraLevels = toSet([]string{"short", "med", "long"})
var lowMedHigh = toSet([]string{"low", "med", "high"})
var cadences = toSet([]string{"burst", "steady"})

func toSet(vals []string) map[string]struct{} {
	s := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// requiredFields are the StrategistOut members that must be present in the
// raw JSON. plan_version, micro_script and why are optional (plan_version
// defaults to the current schema tag).
var requiredFields = []string{
	"mission",
	"angle",
	"talk_about",
	"theme_tags",
	"delivery",
	"convo_levers",
	"sell_intent",
	"shadow_hints",
	"safety_constraints",
	"novelty_signature",
	"guaranteed_tokens",
	"invariants",
}

var requiredSafetyFields = []string{
	"no_explicit",
	"respect_boundaries",
	"jealousy_cap",
	"vulnerability_cap",
	"intimacy_cap",
}

// ParseAndValidate decodes raw generator output into a StrategistOut and
// checks it against the contract. It returns a *ParseError when the text is
// not a single JSON object, and a *SchemaError on any contract violation.
func ParseAndValidate(raw string) (StrategistOut, error) {
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &rawMap); err != nil {
		// Decodable JSON of the wrong shape is a contract violation, not a
		// parse failure; only undecodable text fails the parse stage.
		if json.Valid([]byte(raw)) {
			return StrategistOut{}, &SchemaError{Field: "", Detail: "must be a JSON object"}
		}
		return StrategistOut{}, &ParseError{Err: err, RawPrefix: rawPrefix(raw)}
	}

	for _, field := range requiredFields {
		if _, ok := rawMap[field]; !ok {
			return StrategistOut{}, &SchemaError{Field: field, Detail: "required field is missing"}
		}
	}

	var safetyMap map[string]json.RawMessage
	if err := json.Unmarshal(rawMap["safety_constraints"], &safetyMap); err != nil {
		return StrategistOut{}, &SchemaError{Field: "safety_constraints", Detail: "must be an object"}
	}
	for _, field := range requiredSafetyFields {
		if _, ok := safetyMap[field]; !ok {
			return StrategistOut{}, &SchemaError{
				Field:  "safety_constraints." + field,
				Detail: "required field is missing",
			}
		}
	}

	var out StrategistOut
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return StrategistOut{}, &SchemaError{Field: "", Detail: err.Error()}
	}
	if out.PlanVersion == "" {
		out.PlanVersion = PlanVersion
	}

	if err := Validate(out); err != nil {
		return StrategistOut{}, err
	}
	return out, nil
}

// Validate checks an already decoded StrategistOut against the contract.
func Validate(out StrategistOut) error {
	if _, ok := missionSet[out.Mission]; !ok {
		return &SchemaError{
			Field:  "mission",
			Detail: fmt.Sprintf("%q is not a recognized mission", out.Mission),
		}
	}
	if out.Delivery.Bubbles < 1 || out.Delivery.Bubbles > 3 {
		return &SchemaError{
			Field:  "delivery.bubbles",
			Detail: fmt.Sprintf("must be in [1,3], got %d", out.Delivery.Bubbles),
		}
	}
	if out.Delivery.EmojiBudget < 0 || out.Delivery.EmojiBudget > 2 {
		return &SchemaError{
			Field:  "delivery.emoji_budget",
			Detail: fmt.Sprintf("must be in [0,2], got %d", out.Delivery.EmojiBudget),
		}
	}
	if _, ok := paraLevels[out.Delivery.Para]; !ok {
		return &SchemaError{
			Field:  "delivery.para",
			Detail: fmt.Sprintf("%q is not one of short|med|long", out.Delivery.Para),
		}
	}
	if _, ok := lowMedHigh[out.Delivery.Mirroring]; !ok {
		return &SchemaError{
			Field:  "delivery.mirroring",
			Detail: fmt.Sprintf("%q is not one of low|med|high", out.Delivery.Mirroring),
		}
	}
	if _, ok := cadences[out.Delivery.Cadence]; !ok {
		return &SchemaError{
			Field:  "delivery.cadence",
			Detail: fmt.Sprintf("%q is not one of burst|steady", out.Delivery.Cadence),
		}
	}
	if _, ok := lowMedHigh[out.Delivery.AskRate]; !ok {
		return &SchemaError{
			Field:  "delivery.ask_rate",
			Detail: fmt.Sprintf("%q is not one of low|med|high", out.Delivery.AskRate),
		}
	}

	for idx, lever := range out.ConvoLevers {
		if _, ok := leverTypes[lever.Type]; !ok {
			return &SchemaError{
				Field:  fmt.Sprintf("convo_levers[%d].type", idx),
				Detail: fmt.Sprintf("%q is not a recognized lever type", lever.Type),
			}
		}
		if _, ok := goalTokens[lever.GoalToken]; !ok {
			return &SchemaError{
				Field:  fmt.Sprintf("convo_levers[%d].goal_token", idx),
				Detail: fmt.Sprintf("%q is not a recognized goal token", lever.GoalToken),
			}
		}
	}

	return nil
}
