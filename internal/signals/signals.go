// Package signals derives the bounded feature vector the mission selector
// consumes from the raw recent fan messages. Everything here is a pure
// function of the message window; nothing is cached across requests.
package signals

import (
	"regexp"
	"strings"

	"chatbrain/internal/contracts"
)

var (
	emojiRe = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}]`)
	qRe     = regexp.MustCompile(`\?+`)
	excRe   = regexp.MustCompile(`!+`)
	tokenRe = regexp.MustCompile(`[a-z']+`)
)

var imperatives = map[string]struct{}{
	"send": {}, "show": {}, "tell": {}, "gimme": {}, "give": {},
	"call": {}, "answer": {}, "reply": {}, "prove": {},
}

var positiveMarks = []string{"love", "like", "sweet", "cute", "nice", "great", "good", "😍", "🥰"}
var negativeMarks = []string{"hate", "mad", "angry", "annoy", "bad", "worst", "🙄", "😠"}

var priceWords = []string{"price", "cost", "how much", "send pic", "send video", "pay", "tip", "buy"}

// windowSize is the fixed recency horizon: only the last 8 fan messages
// contribute to signal derivation.
const windowSize = 8

func rate(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return clamp(float64(n)/float64(d), 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sentimentGuess(text string) float64 {
	t := strings.ToLower(text)
	pos := 0
	for _, k := range positiveMarks {
		pos += strings.Count(t, k)
	}
	neg := 0
	for _, k := range negativeMarks {
		neg += strings.Count(t, k)
	}
	return clamp(float64(pos-neg)/5.0, -1, 1)
}

func hasImperative(text string) bool {
	for _, tok := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		if _, ok := imperatives[tok]; ok {
			return true
		}
	}
	return false
}

// Derive computes Signals from the fan's recent messages. Messages beyond
// the recency horizon are ignored entirely, not averaged in.
func Derive(fanLast []contracts.MessageLine) contracts.Signals {
	texts := make([]string, 0, len(fanLast))
	for _, m := range fanLast {
		texts = append(texts, m.Text)
	}
	if len(texts) > windowSize {
		texts = texts[len(texts)-windowSize:]
	}
	total := len(texts)

	emojiHits, qHits, excHits, imper := 0, 0, 0, 0
	charSum := 0
	for _, t := range texts {
		if emojiRe.MatchString(t) {
			emojiHits++
		}
		if qRe.MatchString(t) {
			qHits++
		}
		if excRe.MatchString(t) {
			excHits++
		}
		if hasImperative(t) {
			imper++
		}
		charSum += len([]rune(t))
	}

	avgChars := 0.0
	if total > 0 {
		avgChars = float64(charSum) / float64(total)
	}
	styleFP := map[string]float64{
		"avg_chars":     avgChars,
		"emoji_rate":    rate(emojiHits, total),
		"question_rate": rate(qHits, total),
		"exclaim_rate":  rate(excHits, total),
	}

	burst := 0
	tail := texts
	if len(tail) > 3 {
		tail = tail[len(tail)-3:]
	}
	for _, t := range tail {
		if len([]rune(t)) <= 40 {
			burst++
		}
	}

	replyUrgency := clamp(0.25+0.18*rate(qHits, total)+0.15*rate(imper, total)+0.18*rate(burst, 3), 0, 1)

	sentiment := 0.0
	if total > 0 {
		sum := 0.0
		for _, t := range tail {
			sum += sentimentGuess(t)
		}
		n := total
		if n > 3 {
			n = 3
		}
		sentiment = sum / float64(n)
	}

	priceIntent := 0.0
	joined := strings.ToLower(strings.Join(texts, " "))
	for _, w := range priceWords {
		if strings.Contains(joined, w) {
			priceIntent = 0.55 + 0.15*rate(imper, total) + 0.1*rate(qHits, total)
			if priceIntent > 1 {
				priceIntent = 1
			}
			break
		}
	}

	return contracts.Signals{
		ReplyUrgency:    replyUrgency,
		SentimentScore:  sentiment,
		PriceIntent:     priceIntent,
		FanBurstCount:   burst,
		Interruption:    burst >= 2 && qHits >= 1,
		QuestionDensity: rate(qHits, total),
		ImperativeHits:  imper,
		StyleFP:         styleFP,
	}
}
