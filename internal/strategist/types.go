// Package strategist is the trust boundary for externally generated turn
// plans. It serializes a typed input into a fixed prompt, invokes an
// injected generation capability, and accepts the returned text only if it
// parses as JSON and satisfies the output contract exactly. No coercion,
// no best-effort repair.
package strategist

// PlanVersion is the current versioned schema tag for StrategistOut.
// Backward compatibility is carried by this tag, not by silently relaxing
// fields.
const PlanVersion = "2025-08-23.v2"

// StyleFingerprint condenses the fan's observable texting style.
type StyleFingerprint struct {
	AvgChars       float64 `json:"avg_chars"`
	QuestionRate   float64 `json:"question_rate"`
	EmojiTolerance string  `json:"emoji_tolerance"`
	Burstiness     string  `json:"burstiness"`
}

// Rails tracks offer cadence guardrails for the thread.
type Rails struct {
	TurnsSinceOffer     int `json:"turns_since_offer"`
	OffersLast10        int `json:"offers_last_10"`
	TurnsSinceRejection int `json:"turns_since_rejection"`
}

// SceneCard is the scene state snapshot handed to the external generator.
type SceneCard struct {
	TopicsSnapshot      []string         `json:"topics_snapshot"`
	Warmth              float64          `json:"warmth"`
	Curiosity           float64          `json:"curiosity"`
	SentimentDelta      float64          `json:"sentiment_delta"`
	Tier                string           `json:"tier"`
	RelationshipStage   string           `json:"relationship_stage,omitempty"`
	IntimacyIndex       *float64         `json:"intimacy_index,omitempty"`
	TrustIndex          *float64         `json:"trust_index,omitempty"`
	AftercareNeed       *float64         `json:"aftercare_need,omitempty"`
	SextingConsentState string           `json:"sexting_consent_state,omitempty"`
	RoleplayTolerance   *float64         `json:"roleplay_tolerance,omitempty"`
	StyleFingerprint    StyleFingerprint `json:"style_fingerprint"`
	Rails               Rails            `json:"rails"`
}

// PersonaPack carries persona constraints for the creator side.
type PersonaPack struct {
	ToneSliders       map[string]float64 `json:"tone_sliders"`
	Petnames          []string           `json:"petnames"`
	EmojiBudget       map[string]int     `json:"emoji_budget"`
	JealousyTolerance string             `json:"jealousy_tolerance"`
}

// InputSignals is the coarse signal view inside StrategistInput. Unlike the
// pipeline's numeric Signals, urgency and pressure are banded labels here.
type InputSignals struct {
	ReplyUrgency     string  `json:"reply_urgency"`
	PriceReadiness   float64 `json:"price_readiness"`
	CuriosityCue     bool    `json:"curiosity_cue"`
	Interruption     bool    `json:"interruption"`
	CooldownPressure string  `json:"cooldown_pressure"`
	NoveltyBudget    float64 `json:"novelty_budget"`
	BoundaryTone     string  `json:"boundary_tone"`
}

// Shadow is one pre-vetted content reference the plan may lean on.
type Shadow struct {
	ShadowID    string   `json:"shadow_id"`
	Tags        []string `json:"tags"`
	SafetyGrade string   `json:"safety_grade"`
}

// Policy gates what the external generator is allowed to plan.
type Policy struct {
	AllowedMissions []string           `json:"allowed_missions"`
	AllowedLevers   []string           `json:"allowed_levers"`
	GatingFlags     map[string]bool    `json:"gating_flags"`
	TierBudgets     map[string]float64 `json:"tier_budgets"`
}

// Priors carries learned distributions the generator should respect.
type Priors struct {
	MissionPrior  map[string]float64 `json:"mission_prior"`
	ManeuverPrior map[string]float64 `json:"maneuver_prior"`
	DeliveryPrior map[string]float64 `json:"delivery_prior"`
	Exploration   float64            `json:"exploration"`
}

// StrategistInput is the full typed input serialized into the user prompt.
// Every top-level field must appear in the prompt; none may be silently
// omitted.
type StrategistInput struct {
	ThreadID                string             `json:"thread_id"`
	Turn                    int                `json:"turn"`
	SceneCard               SceneCard          `json:"scene_card"`
	PersonaPack             PersonaPack        `json:"persona_pack"`
	Signals                 InputSignals       `json:"signals"`
	GoalVector              map[string]float64 `json:"goal_vector"`
	CompassShadows          []Shadow           `json:"compass_shadows"`
	VarietyWindowSignatures []string           `json:"variety_window_signatures"`
	Policy                  Policy             `json:"policy"`
	Priors                  Priors             `json:"priors"`
}

// Delivery is the plan's message shape.
type Delivery struct {
	Bubbles     int    `json:"bubbles"`
	Para        string `json:"para"`
	Mirroring   string `json:"mirroring"`
	EmojiBudget int    `json:"emoji_budget"`
	Cadence     string `json:"cadence"`
	AskRate     string `json:"ask_rate"`
}

// ConvoLever is one typed conversational maneuver in the plan.
type ConvoLever struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	GoalToken string `json:"goal_token"`
	ShadowID  string `json:"shadow_id,omitempty"`
}

// SafetyConstraints are the hard caps a plan declares for itself.
type SafetyConstraints struct {
	NoExplicit        bool    `json:"no_explicit"`
	RespectBoundaries bool    `json:"respect_boundaries"`
	JealousyCap       float64 `json:"jealousy_cap"`
	VulnerabilityCap  float64 `json:"vulnerability_cap"`
	IntimacyCap       float64 `json:"intimacy_cap"`
}

// StrategistOut is the machine-checkable plan contract. Anything produced
// outside the process must validate against this exactly before use.
type StrategistOut struct {
	PlanVersion       string              `json:"plan_version"`
	Mission           string              `json:"mission"`
	Angle             string              `json:"angle"`
	TalkAbout         []string            `json:"talk_about"`
	ThemeTags         []string            `json:"theme_tags"`
	Delivery          Delivery            `json:"delivery"`
	ConvoLevers       []ConvoLever        `json:"convo_levers"`
	MicroScript       map[string][]string `json:"micro_script,omitempty"`
	SellIntent        bool                `json:"sell_intent"`
	ShadowHints       []string            `json:"shadow_hints"`
	SafetyConstraints SafetyConstraints   `json:"safety_constraints"`
	NoveltySignature  string              `json:"novelty_signature"`
	GuaranteedTokens  []string            `json:"guaranteed_tokens"`
	Invariants        map[string]bool     `json:"invariants"`
	Why               string              `json:"why,omitempty"`
}
