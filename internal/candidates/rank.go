package candidates

import (
	"errors"

	"chatbrain/internal/contracts"
	"chatbrain/internal/mission"
)

// ErrNoCandidates signals an empty candidate set. This indicates a generator
// bug and must surface to the caller rather than be recovered silently.
var ErrNoCandidates = errors.New("no candidates")

const (
	familyMismatchPenalty = 0.97
	interruptionBonus     = 1.02
)

// Rank selects the single best candidate deterministically. Scores start at
// each candidate's forecast, take a gentle penalty when the template family
// does not match the selected mission, and a small boost when the fan is
// mid-interruption and the pack has at least two bubbles. Selection is a
// strict-greater-than argmax, so the first candidate in input order wins
// all ties.
func Rank(in contracts.BrainInput, brief mission.Brief, cands []Candidate) (Candidate, error) {
	if len(cands) == 0 {
		return Candidate{}, ErrNoCandidates
	}

	best := cands[0]
	bestScore := -1.0
	for _, c := range cands {
		score := c.Forecast
		if c.TemplateFamily != brief.Mission {
			score *= familyMismatchPenalty
		}
		if in.Signals.Interruption && len(c.Pack.Bubbles) >= 2 {
			score *= interruptionBonus
		}
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best, nil
}
