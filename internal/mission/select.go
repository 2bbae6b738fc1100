// Package mission maps derived signals to the discrete conversational
// objective for the current turn. Selection is an ordered rule waterfall;
// the stage scorer in score.go is a separate advisory surface and never
// feeds back into selection.
package mission

import "chatbrain/internal/contracts"

// Mission labels produced by Select. These are the coarse stage ids shared
// with the advisory scorer.
const (
	DiscoveryBasic   = "discovery_basic"
	RapportValueAdd  = "rapport_value_add"
	SoftTease        = "soft_tease"
	PPVPitch         = "ppv_pitch"
	AftercareCheckin = "aftercare_checkin"
	CoolingOff       = "cooling_off"
)

// StageIDs lists every stage label in canonical order.
var StageIDs = []string{
	DiscoveryBasic,
	RapportValueAdd,
	SoftTease,
	PPVPitch,
	AftercareCheckin,
	CoolingOff,
}

// Brief is the mission decision plus its audit rationale.
type Brief struct {
	Mission string
	Why     contracts.Rationale
}

// Select evaluates the mission rules in fixed priority order and returns the
// first match. It is total: every signal combination resolves to a mission,
// with rapport_value_add as the default.
func Select(in contracts.BrainInput) Brief {
	s := in.Signals

	switch {
	case s.PriceIntent >= 0.5:
		return Brief{
			Mission: PPVPitch,
			Why:     contracts.Rationale{Reason: "high price intent", Signals: s},
		}
	case s.Interruption && s.ReplyUrgency >= 0.55:
		// Fan is actively pinging; keep it light to maintain flow.
		return Brief{
			Mission: SoftTease,
			Why:     contracts.Rationale{Reason: "fan burst + pinging", Signals: s},
		}
	case s.QuestionDensity >= 0.5:
		return Brief{
			Mission: DiscoveryBasic,
			Why:     contracts.Rationale{Reason: "lots of questions", Signals: s},
		}
	case s.SentimentScore <= -0.3:
		return Brief{
			Mission: AftercareCheckin,
			Why:     contracts.Rationale{Reason: "cool/negative vibe", Signals: s},
		}
	default:
		return Brief{
			Mission: RapportValueAdd,
			Why:     contracts.Rationale{Reason: "baseline rapport", Signals: s},
		}
	}
}
