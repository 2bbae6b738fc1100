// Package pipeline is the conductor for one decision request: validate,
// select a mission, generate and rank candidates, and attach the optional
// monetization plan. The pipeline holds no state across requests.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chatbrain/internal/audit"
	"chatbrain/internal/candidates"
	"chatbrain/internal/contracts"
	"chatbrain/internal/mission"
	"chatbrain/internal/pricing"
	"chatbrain/internal/signals"
	"chatbrain/internal/strategist"
)

// ppvIntentThreshold gates the monetization plan alongside the mission gate.
const ppvIntentThreshold = 0.45

// Decide runs the full pipeline over an input whose signals are already
// present. The input is validated (and its documented defaults applied)
// before any decision logic runs.
func Decide(in contracts.BrainInput, log *zap.Logger) (contracts.Decision, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := contracts.ValidateInput(&in); err != nil {
		return contracts.Decision{}, err
	}

	brief := mission.Select(in)
	cands := candidates.Generate(in, brief)
	chosen, err := candidates.Rank(in, brief, cands)
	if err != nil {
		return contracts.Decision{}, fmt.Errorf("rank candidates: %w", err)
	}

	var ppv *contracts.PPVPlan
	if brief.Mission == mission.PPVPitch && len(in.Catalog) > 0 && in.Signals.PriceIntent >= ppvIntentThreshold {
		item := in.Catalog[0]
		ppv = &contracts.PPVPlan{
			PPVAssetID:  item.PPVAssetID,
			Price:       pricing.TierPrice(in.Budgets, item, in.Profile.Tier),
			Description: item.Description,
		}
	}

	alternatives := make([]contracts.Alternative, 0, len(cands))
	for _, c := range cands {
		if c.ID == chosen.ID {
			continue
		}
		alternatives = append(alternatives, contracts.Alternative{ID: c.ID, Forecast: c.Forecast})
	}

	decision := contracts.Decision{
		DecisionID:         uuid.NewString(),
		Mission:            brief.Mission,
		ChosenID:           chosen.ID,
		Pack:               chosen.Pack,
		WriterInstructions: chosen.Writer,
		PPV:                ppv,
		Why:                []contracts.Rationale{brief.Why},
		Alternatives:       alternatives,
		BudgetUsed:         in.Budgets,
		SendNow:            true,
	}

	log.Debug("decision made",
		zap.String("decision_id", decision.DecisionID),
		zap.String("mission", decision.Mission),
		zap.String("chosen_id", decision.ChosenID),
		zap.Bool("ppv", ppv != nil),
		zap.Int("alternatives", len(alternatives)),
	)
	return decision, nil
}

// Plan runs the strategist path and records its outcome in the audit log:
// an accept event carrying the validated plan, or a reject event carrying
// the parse/schema detail. The audit logger may be nil to disable audit
// writes; audit failures are logged and never mask the plan result.
func Plan(ctx context.Context, in strategist.StrategistInput, gen strategist.Generator, auditLog *audit.Logger, log *zap.Logger) (strategist.StrategistOut, error) {
	if log == nil {
		log = zap.NewNop()
	}
	requestID := uuid.NewString()

	out, err := strategist.Plan(ctx, in, gen)
	if err != nil {
		recordPlanEvent(auditLog, log, requestID, audit.EventStrategistError, rejectPayload(err))
		return strategist.StrategistOut{}, err
	}
	recordPlanEvent(auditLog, log, requestID, audit.EventStrategistPlan, out)
	return out, nil
}

func rejectPayload(err error) map[string]any {
	payload := map[string]any{"error": err.Error()}
	var schemaErr *strategist.SchemaError
	var parseErr *strategist.ParseError
	switch {
	case errors.As(err, &schemaErr):
		payload["field"] = schemaErr.Field
		payload["detail"] = schemaErr.Detail
	case errors.As(err, &parseErr):
		payload["raw_prefix"] = parseErr.RawPrefix
	}
	return payload
}

func recordPlanEvent(auditLog *audit.Logger, log *zap.Logger, requestID, eventType string, payload any) {
	if auditLog == nil {
		return
	}
	if err := auditLog.LogEvent(requestID, eventType, payload); err != nil {
		log.Warn("audit write failed", zap.Error(err))
	}
}

// AutoDecide derives signals from the raw message window, then runs the
// same pipeline.
func AutoDecide(in contracts.AutoInput, log *zap.Logger) (contracts.Decision, error) {
	core := contracts.BrainInput{
		Messages: in.Messages,
		Memory:   in.Memory,
		Signals:  signals.Derive(in.Messages.FanLast),
		Profile:  in.Profile,
		Budgets:  in.Budgets,
		Context:  in.Context,
		Catalog:  in.Catalog,
	}
	return Decide(core, log)
}
