package mission

import "math"

// ScoreStages computes a comparative confidence vector over the stage
// labels from a loosely typed signal map. Every stage starts at 0.5, picks
// up signal-weighted contributions, and the vector is normalized by its
// maximum so the top stage scores 1.0.
//
// This is telemetry, not a decision: the waterfall in Select is the only
// authority on the chosen mission.
func ScoreStages(signals map[string]float64) map[string]float64 {
	get := func(key string) float64 {
		return signals[key]
	}
	pos := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}

	base := make(map[string]float64, len(StageIDs))
	for _, id := range StageIDs {
		base[id] = 0.5
	}

	base[DiscoveryBasic] += 0.4 * pos(get("question_ratio"))
	base[RapportValueAdd] += 0.3 * pos(get("sentiment_score"))
	base[SoftTease] += 0.3*pos(get("escalation")) + 0.2*pos(get("sentiment_score"))
	base[PPVPitch] += 0.6*pos(get("price_intent")) + 0.5*pos(get("escalation"))
	base[AftercareCheckin] += 0.1 + 0.1*pos(get("sentiment_score"))
	base[CoolingOff] += 0.6 * pos(-get("sentiment_score"))

	mx := 0.0
	for _, v := range base {
		if v > mx {
			mx = v
		}
	}
	if mx == 0 {
		mx = 1
	}
	for k, v := range base {
		base[k] = math.Round(v/mx*1000) / 1000
	}
	return base
}
