// Package candidates builds and ranks the response proposals competing to
// be sent this turn. Candidates are constructed fresh per request and never
// mutated afterwards; ranking only reads them.
package candidates

import (
	"regexp"

	"chatbrain/internal/contracts"
	"chatbrain/internal/mission"
)

// Candidate is one fully formed, scorable response proposal. TemplateFamily
// is set at construction time so ranking never has to parse the id, and
// Forecast is always present: a candidate without one is a construction bug.
type Candidate struct {
	ID             string
	TemplateFamily string
	Pack           contracts.Pack
	Forecast       float64
	Writer         contracts.WriterInstructions
}

var tierEmojiCap = map[string]int{
	contracts.TierSilver:  2,
	contracts.TierGold:    3,
	contracts.TierDiamond: 3,
	contracts.TierEmerald: 3,
}

func emojiCap(tier string) int {
	if c, ok := tierEmojiCap[tier]; ok {
		return c
	}
	return 2
}

func buildDeliveryStyle(in contracts.BrainInput) contracts.WriterDeliveryStyle {
	s := in.Signals
	ds := contracts.WriterDeliveryStyle{
		BubbleCount:  1,
		SendMode:     contracts.SendModeSingle,
		MaxChars:     220,
		Paragraph:    "none",
		PacingFlavor: "neutral",
		EmojiLevel:   2,
	}
	switch {
	case s.ReplyUrgency < 0.35:
		ds.Paragraph = "micro"
		ds.PacingFlavor = "cozy"
	case s.ReplyUrgency > 0.7 || s.FanBurstCount >= 2:
		ds.BubbleCount = 2
		ds.SendMode = contracts.SendModeBurst
		ds.Paragraph = "none"
		ds.PacingFlavor = "snappy"
	default:
		ds.Paragraph = "micro"
	}
	// Tier cap is a hard minimum-of, applied after any other emoji math.
	if c := emojiCap(in.Profile.Tier); ds.EmojiLevel > c {
		ds.EmojiLevel = c
	}
	return ds
}

type topicPattern struct {
	re   *regexp.Regexp
	hint string
}

var topicPatterns = []topicPattern{
	{regexp.MustCompile(`(?i)\bfish(ing|er|)\b`), "his fishing trip tomorrow; playful jealous angle"},
	{regexp.MustCompile(`(?i)\bgym|workout|lift\b`), "his gym session; admiring + playful challenge"},
	{regexp.MustCompile(`(?i)\b(bday|birthday)\b`), "his upcoming birthday; make him feel special"},
	{regexp.MustCompile(`(?i)\btrip|flight|travel|airport\b`), "his trip plans; warm check-in + tease about missing you"},
	{regexp.MustCompile(`(?i)\bwork|shift|meeting\b`), "his workday; supportive + a tiny flirty hook"},
	{regexp.MustCompile(`(?i)\btomorrow|tonight\b`), "the near-time plan he mentioned; be specific & responsive"},
}

const talkAboutLimit = 2

func extractTalkAbout(in contracts.BrainInput) []string {
	lines := make([]string, 0, 16)
	collect := func(msgs []contracts.MessageLine) {
		window := msgs
		if len(window) > 8 {
			window = window[len(window)-8:]
		}
		for _, m := range window {
			if m.Text != "" {
				lines = append(lines, m.Text)
			}
		}
	}
	collect(in.Messages.FanLast)
	collect(in.Messages.CreatorLast)

	joined := ""
	for i, l := range lines {
		if i > 0 {
			joined += " \n "
		}
		joined += l
	}

	var found []string
	for _, tp := range topicPatterns {
		if tp.re.MatchString(joined) {
			found = append(found, tp.hint)
		}
	}
	if sb := in.Memory.Storybook; sb != "" {
		r := []rune(sb)
		if len(r) > 80 {
			r = r[:80]
		}
		found = append(found, "callback to earlier: "+string(r))
	}
	if len(found) == 0 {
		found = append(found, "reflect his last topic in flirty way")
	}
	if len(found) > talkAboutLimit {
		found = found[:talkAboutLimit]
	}
	return found
}

func buildMirroring(in contracts.BrainInput) contracts.Mirroring {
	fp := in.Signals.StyleFP
	tone := "warm"
	if in.Signals.SentimentScore < 0 {
		tone = "soft"
	}
	tolerance := "low"
	if fp["exclaim_rate"] >= 0.15 {
		tolerance = "med"
	}
	return contracts.Mirroring{
		UseEmoji:              fp["emoji_rate"] >= 0.05,
		ExclaimationTolerance: tolerance,
		QuestionEcho:          in.Signals.QuestionDensity >= 0.5,
		LexicalToneHint:       tone,
	}
}

func packOf(lines []string, mode string) contracts.Pack {
	bubbles := make([]contracts.Bubble, 0, len(lines))
	for _, l := range lines {
		bubbles = append(bubbles, contracts.Bubble{Text: l})
	}
	return contracts.Pack{SendMode: mode, Bubbles: bubbles}
}

func pickLines(ds contracts.WriterDeliveryStyle, two []string, one string) []string {
	if ds.BubbleCount == 2 {
		return two
	}
	return []string{one}
}

// Generate builds the 2-3 mission-flavored candidates for this turn. The
// ppv_offer candidate only exists when a catalog is present and price intent
// clears its threshold; absence of a catalog degrades gracefully.
func Generate(in contracts.BrainInput, brief mission.Brief) []Candidate {
	ds := buildDeliveryStyle(in)
	talkAbout := extractTalkAbout(in)
	mir := buildMirroring(in)
	ws := contracts.WriterStyle{MaxChars: 220, NoPrice: true, OneQuestionMax: true}

	angle := "confident offer"
	if brief.Mission == mission.SoftTease || brief.Mission == mission.RapportValueAdd {
		angle = "light tease + one question"
	}
	baseWriter := func(angle string) contracts.WriterInstructions {
		return contracts.WriterInstructions{
			Tone:          "playful",
			Angle:         angle,
			TalkAbout:     talkAbout,
			Petnames:      []string{},
			DeliveryStyle: ds,
			Mirroring:     mir,
			Style:         ws,
		}
	}

	teaseLines := pickLines(ds,
		[]string{"mmm I can't stop picturing you…", "tell me one more detail 😈"},
		"mmm I can't stop picturing you… tell me one more detail 😈")
	rapportLines := pickLines(ds,
		[]string{"that made me smile 😌", "what was the best part of it?"},
		"that made me smile 😌 what was the best part of it?")
	ppvLines := pickLines(ds,
		[]string{"okay don't lie… you want the full thing 😏", "say the word and I'll send it 👀"},
		"okay don't lie… you want the full thing 😏 say the word and I'll send it 👀")

	s := in.Signals
	cands := []Candidate{
		{
			ID:             "soft_tease_v1",
			TemplateFamily: mission.SoftTease,
			Pack:           packOf(teaseLines, ds.SendMode),
			Forecast:       0.55 + 0.1*s.SentimentScore,
			Writer:         baseWriter(angle),
		},
		{
			ID:             "rapport_value_add_v1",
			TemplateFamily: mission.RapportValueAdd,
			Pack:           packOf(rapportLines, ds.SendMode),
			Forecast:       0.52 + 0.12*s.SentimentScore + 0.08*s.QuestionDensity,
			Writer:         baseWriter("warm + one reciprocal question"),
		},
	}

	if len(in.Catalog) > 0 && s.PriceIntent >= 0.45 {
		cands = append(cands, Candidate{
			ID:             "ppv_offer_v1",
			TemplateFamily: "ppv_offer",
			Pack:           packOf(ppvLines, ds.SendMode),
			Forecast:       0.60 + 0.20*s.PriceIntent - 0.05*(1.0-s.SentimentScore),
			Writer:         baseWriter("playful confident nudge"),
		})
	}

	return cands
}
