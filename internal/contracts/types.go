package contracts

// MessageLine is a single chat message as seen by the decision pipeline.
// Only the text matters here; role separation happens at the transport edge.
type MessageLine struct {
	Text string `json:"text"`
}

// Messages carries the recent conversation window, split by author.
type Messages struct {
	FanLast     []MessageLine `json:"fan_last"`
	CreatorLast []MessageLine `json:"creator_last"`
}

// Memory holds lightweight per-fan memory supplied by the caller.
type Memory struct {
	Storybook string   `json:"storybook"`
	Facts     []string `json:"facts,omitempty"`
}

// Profile describes the counterpart account.
type Profile struct {
	FanID               string `json:"fan_id,omitempty"`
	Tier                string `json:"tier"`
	RelationshipAgeDays int    `json:"relationship_age_days"`
}

// Budgets are the caller-supplied monetization limits, immutable per request.
type Budgets struct {
	MaxPaidPer24hUser   float64 `json:"max_paid_per_24h_user"`
	MinHoursBetweenPaid float64 `json:"min_hours_between_paid"`
	PriceFloor          float64 `json:"price_floor"`
	PriceCeiling        float64 `json:"price_ceiling"`
	PriceStep           float64 `json:"price_step"`
	ExplorationQuota    float64 `json:"exploration_quota"`
	ComputeTier         string  `json:"compute_tier"`
}

// Context carries ambient request context (local time, reply streaks).
type Context struct {
	LocalHour          int    `json:"local_hour"`
	ConsecutiveNoReply int    `json:"consecutive_no_reply"`
	TZ                 string `json:"tz,omitempty"`
}

// Signals is the bounded numeric feature vector derived from recent fan text.
// Derived fresh per request, never persisted, never mutated after derivation.
type Signals struct {
	ReplyUrgency    float64            `json:"reply_urgency"`
	SentimentScore  float64            `json:"sentiment_score"`
	PriceIntent     float64            `json:"price_intent"`
	FanBurstCount   int                `json:"fan_burst_count"`
	Interruption    bool               `json:"interruption"`
	QuestionDensity float64            `json:"question_density"`
	ImperativeHits  int                `json:"imperative_hits"`
	StyleFP         map[string]float64 `json:"style_fp"`
}

// CatalogItem is one sellable asset, read-only to the pipeline.
type CatalogItem struct {
	PPVAssetID  string   `json:"ppv_asset_id"`
	Title       string   `json:"title,omitempty"`
	MediaType   string   `json:"media_type"`
	Tags        []string `json:"tags,omitempty"`
	BasePrice   float64  `json:"base_price"`
	Description string   `json:"description"`
}

// Bubble is one text segment of an outgoing message pack.
type Bubble struct {
	Text string `json:"text"`
}

// Pack is the ordered set of bubbles to send, with its send mode.
type Pack struct {
	SendMode string   `json:"send_mode"`
	Bubbles  []Bubble `json:"bubbles"`
}

// WriterDeliveryStyle directs the downstream renderer's pacing and shape.
type WriterDeliveryStyle struct {
	BubbleCount  int    `json:"bubble_count"`
	SendMode     string `json:"send_mode"`
	MaxChars     int    `json:"max_chars"`
	Paragraph    string `json:"paragraph"`
	EmojiOnly    bool   `json:"emoji_only"`
	ReactionHint string `json:"reaction_hint,omitempty"`
	PacingFlavor string `json:"pacing_flavor"`
	EmojiLevel   int    `json:"emoji_level"`
}

// Mirroring tells the renderer how closely to echo the fan's texting style.
type Mirroring struct {
	UseEmoji              bool   `json:"use_emoji"`
	ExclaimationTolerance string `json:"exclaimation_tolerance"`
	QuestionEcho          bool   `json:"question_echo"`
	LexicalToneHint       string `json:"lexical_tone_hint,omitempty"`
}

// WriterStyle holds hard style caps the renderer must not exceed.
type WriterStyle struct {
	MaxChars       int  `json:"max_chars"`
	NoPrice        bool `json:"no_price"`
	OneQuestionMax bool `json:"one_question_max"`
}

// WriterInstructions is pure output data forwarded to the renderer; nothing
// in the pipeline executes it.
type WriterInstructions struct {
	Tone          string              `json:"tone"`
	Angle         string              `json:"angle"`
	TalkAbout     []string            `json:"talk_about"`
	Petnames      []string            `json:"petnames"`
	DeliveryStyle WriterDeliveryStyle `json:"delivery_style"`
	Mirroring     Mirroring           `json:"mirroring"`
	Style         WriterStyle         `json:"style"`
}

// PPVPlan is the optional monetization offer attached to a decision.
type PPVPlan struct {
	PPVAssetID  string  `json:"ppv_asset_id"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// Rationale records why a mission was picked, for audit.
type Rationale struct {
	Reason  string  `json:"reason"`
	Signals Signals `json:"signals"`
}

// Alternative echoes a non-chosen candidate's id and forecast.
type Alternative struct {
	ID       string  `json:"id"`
	Forecast float64 `json:"forecast"`
}

// Decision is the final output of one decision request. Constructed once,
// never mutated.
type Decision struct {
	DecisionID         string             `json:"decision_id"`
	Mission            string             `json:"mission"`
	ChosenID           string             `json:"chosen_id"`
	Pack               Pack               `json:"pack"`
	WriterInstructions WriterInstructions `json:"writer_instructions"`
	PPV                *PPVPlan           `json:"ppv,omitempty"`
	Why                []Rationale        `json:"why"`
	Alternatives       []Alternative      `json:"alternatives"`
	BudgetUsed         Budgets            `json:"budget_used"`
	SendNow            bool               `json:"send_now"`
	SendAt             *string            `json:"send_at,omitempty"`
}

// BrainInput is the full decision request with signals already present.
type BrainInput struct {
	Messages Messages      `json:"messages"`
	Memory   Memory        `json:"memory"`
	Signals  Signals       `json:"signals"`
	Profile  Profile       `json:"profile"`
	Budgets  Budgets       `json:"budgets"`
	Context  Context       `json:"context"`
	Catalog  []CatalogItem `json:"catalog,omitempty"`
}

// AutoInput is the raw-text variant; signals are derived server-side.
type AutoInput struct {
	Messages Messages      `json:"messages"`
	Memory   Memory        `json:"memory"`
	Profile  Profile       `json:"profile"`
	Budgets  Budgets       `json:"budgets"`
	Context  Context       `json:"context"`
	Catalog  []CatalogItem `json:"catalog,omitempty"`
}

// Tiers recognized by pricing and emoji capping. Unknown tiers fall back to
// silver, the documented default.
const (
	TierSilver  = "silver"
	TierGold    = "gold"
	TierDiamond = "diamond"
	TierEmerald = "emerald"
)

// Send modes for a Pack.
const (
	SendModeSingle = "single"
	SendModeBurst  = "burst"
)

// DefaultBudgets mirrors the documented budget defaults for callers that
// omit the block entirely.
func DefaultBudgets() Budgets {
	return Budgets{
		MaxPaidPer24hUser:   5.0,
		MinHoursBetweenPaid: 0.75,
		PriceFloor:          9.0,
		PriceCeiling:        120.0,
		PriceStep:           1.0,
		ExplorationQuota:    0.2,
		ComputeTier:         "balanced",
	}
}
