package mission

import (
	"reflect"
	"testing"

	"chatbrain/internal/contracts"
)

func inputWith(s contracts.Signals) contracts.BrainInput {
	return contracts.BrainInput{Signals: s}
}

func TestSelectWaterfallOrder(t *testing.T) {
	tests := []struct {
		name    string
		signals contracts.Signals
		want    string
	}{
		{
			name:    "price intent wins",
			signals: contracts.Signals{PriceIntent: 0.6},
			want:    PPVPitch,
		},
		{
			// Price intent outranks every later rule even when they match too.
			name: "price intent outranks interruption and questions",
			signals: contracts.Signals{
				PriceIntent:     0.6,
				Interruption:    true,
				ReplyUrgency:    0.9,
				QuestionDensity: 1.0,
				SentimentScore:  -0.9,
			},
			want: PPVPitch,
		},
		{
			name:    "interruption with urgency",
			signals: contracts.Signals{Interruption: true, ReplyUrgency: 0.55},
			want:    SoftTease,
		},
		{
			name:    "interruption without urgency falls through",
			signals: contracts.Signals{Interruption: true, ReplyUrgency: 0.5},
			want:    RapportValueAdd,
		},
		{
			name:    "question density",
			signals: contracts.Signals{QuestionDensity: 0.5},
			want:    DiscoveryBasic,
		},
		{
			name:    "negative sentiment",
			signals: contracts.Signals{SentimentScore: -0.3},
			want:    AftercareCheckin,
		},
		{
			name:    "default",
			signals: contracts.Signals{},
			want:    RapportValueAdd,
		},
	}

	for _, tt := range tests {
		brief := Select(inputWith(tt.signals))
		if brief.Mission != tt.want {
			t.Fatalf("%s: mission = %q, want %q", tt.name, brief.Mission, tt.want)
		}
		if brief.Why.Reason == "" {
			t.Fatalf("%s: rationale reason is empty", tt.name)
		}
		if !reflect.DeepEqual(brief.Why.Signals, tt.signals) {
			t.Fatalf("%s: rationale snapshot does not match input signals", tt.name)
		}
	}
}

func TestSelectDeterministic(t *testing.T) {
	in := inputWith(contracts.Signals{PriceIntent: 0.51, QuestionDensity: 0.7})
	first := Select(in)
	for i := 0; i < 10; i++ {
		if got := Select(in); got.Mission != first.Mission {
			t.Fatalf("selection not deterministic: %q vs %q", got.Mission, first.Mission)
		}
	}
}

func TestScoreStagesNormalized(t *testing.T) {
	scores := ScoreStages(map[string]float64{
		"price_intent":    0.8,
		"escalation":      0.5,
		"sentiment_score": 0.3,
		"question_ratio":  0.2,
	})

	if len(scores) != len(StageIDs) {
		t.Fatalf("got %d stages, want %d", len(scores), len(StageIDs))
	}
	max := 0.0
	for _, v := range scores {
		if v < 0 || v > 1 {
			t.Fatalf("score out of range: %g", v)
		}
		if v > max {
			max = v
		}
	}
	if max != 1.0 {
		t.Fatalf("top stage = %g, want 1.0 after normalization", max)
	}
	if scores[PPVPitch] != 1.0 {
		t.Fatalf("ppv_pitch = %g, want top stage with high price intent", scores[PPVPitch])
	}
}

func TestScoreStagesNegativeSentimentFavorsCoolingOff(t *testing.T) {
	scores := ScoreStages(map[string]float64{"sentiment_score": -1.0})
	if scores[CoolingOff] != 1.0 {
		t.Fatalf("cooling_off = %g, want 1.0 with strongly negative sentiment", scores[CoolingOff])
	}
}

func TestScorerNeverOverridesWaterfall(t *testing.T) {
	// Signals where the scorer's top stage disagrees with the waterfall:
	// high escalation pushes the scorer toward ppv_pitch, but the waterfall
	// sees no price intent and defaults to rapport.
	s := contracts.Signals{}
	brief := Select(inputWith(s))
	scores := ScoreStages(map[string]float64{"escalation": 1.0})

	if scores[PPVPitch] != 1.0 {
		t.Fatalf("scorer top = %g for ppv_pitch, want 1.0", scores[PPVPitch])
	}
	if brief.Mission != RapportValueAdd {
		t.Fatalf("waterfall mission = %q, want rapport_value_add regardless of scorer", brief.Mission)
	}
}
