package httpapi

import (
	"encoding/json"
	"net/http"

	"chatbrain/internal/contracts"
	"chatbrain/internal/pipeline"
)

// legacyRequest is the old sidecar SuggestRequest shape. The handler only
// translates; the pipeline it runs is the same one behind /decide.
type legacyRequest struct {
	Messages []struct {
		Role string `json:"role"`
		Text string `json:"text"`
	} `json:"messages"`
	Profile struct {
		UserID              string `json:"user_id"`
		FanID               string `json:"fan_id"`
		Tier                string `json:"tier"`
		RelationshipAgeDays int    `json:"relationship_age_days"`
	} `json:"profile"`
	PPVCatalog []struct {
		PPVAssetID  string   `json:"ppv_asset_id"`
		Title       string   `json:"title"`
		Name        string   `json:"name"`
		Description string   `json:"description"`
		MediaType   string   `json:"media_type"`
		Tags        []string `json:"tags"`
		BasePrice   *float64 `json:"base_price"`
	} `json:"ppv_catalog"`
	Budget map[string]any `json:"budget"`
}

// legacyResponse mirrors the old SuggestResponse shape: bubbles only, no
// waits.
type legacyResponse struct {
	ChosenStageID    string                  `json:"chosen_stage_id"`
	ChosenStrategyID string                  `json:"chosen_strategy_id"`
	SendNow          bool                    `json:"send_now"`
	SendAt           *string                 `json:"send_at"`
	MessagePack      contracts.Pack          `json:"message_pack"`
	PPV              *contracts.PPVPlan      `json:"ppv"`
	Why              []contracts.Rationale   `json:"why"`
	Alternatives     []contracts.Alternative `json:"alternatives"`
	BudgetUsed       contracts.Budgets       `json:"budget_used"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req legacyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "decode request: "+err.Error())
		return
	}

	in := translateLegacy(req)
	in.Catalog = s.ensureCatalog(in.Catalog)
	decision, err := pipeline.AutoDecide(in, s.log)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	s.recordDecision(decision)

	writeJSON(w, http.StatusOK, legacyResponse{
		ChosenStageID:    decision.Mission,
		ChosenStrategyID: decision.ChosenID,
		SendNow:          decision.SendNow,
		SendAt:           decision.SendAt,
		MessagePack:      decision.Pack,
		PPV:              decision.PPV,
		Why:              decision.Why,
		Alternatives:     decision.Alternatives,
		BudgetUsed:       decision.BudgetUsed,
	})
}

func translateLegacy(req legacyRequest) contracts.AutoInput {
	var fanLast, creatorLast []contracts.MessageLine
	for _, m := range req.Messages {
		switch m.Role {
		case "fan":
			fanLast = append(fanLast, contracts.MessageLine{Text: m.Text})
		case "creator":
			creatorLast = append(creatorLast, contracts.MessageLine{Text: m.Text})
		}
	}
	if len(fanLast) > 8 {
		fanLast = fanLast[len(fanLast)-8:]
	}
	if len(creatorLast) > 8 {
		creatorLast = creatorLast[len(creatorLast)-8:]
	}

	budgets := contracts.Budgets{
		MaxPaidPer24hUser:   legacyFloat(req.Budget, "max_paid_per_24h_user", 3),
		MinHoursBetweenPaid: legacyFloat(req.Budget, "min_hours_between_paid", 1.0),
		PriceFloor:          legacyFloat(req.Budget, "price_floor", 9.0),
		PriceCeiling:        legacyFloat(req.Budget, "price_ceiling", 120.0),
		PriceStep:           legacyFloat(req.Budget, "price_step", 1.0),
		ExplorationQuota:    legacyFloat(req.Budget, "exploration_quota", 0.2),
		ComputeTier:         legacyString(req.Budget, "compute_tier", "balanced"),
	}

	var items []contracts.CatalogItem
	for _, c := range req.PPVCatalog {
		title := c.Title
		if title == "" {
			title = c.Name
		}
		basePrice := budgets.PriceFloor
		if c.BasePrice != nil {
			basePrice = *c.BasePrice
		}
		assetID := c.PPVAssetID
		if assetID == "" {
			assetID = "ppv_demo"
		}
		mediaType := c.MediaType
		if mediaType == "" {
			mediaType = "photo"
		}
		items = append(items, contracts.CatalogItem{
			PPVAssetID:  assetID,
			Title:       title,
			Description: c.Description,
			MediaType:   mediaType,
			Tags:        c.Tags,
			BasePrice:   basePrice,
		})
	}

	fanID := req.Profile.UserID
	if fanID == "" {
		fanID = req.Profile.FanID
	}
	if fanID == "" {
		fanID = "u"
	}

	return contracts.AutoInput{
		Messages: contracts.Messages{FanLast: fanLast, CreatorLast: creatorLast},
		Profile: contracts.Profile{
			FanID:               fanID,
			Tier:                contracts.NormalizeTier(req.Profile.Tier),
			RelationshipAgeDays: req.Profile.RelationshipAgeDays,
		},
		Budgets: budgets,
		Catalog: items,
	}
}

func legacyFloat(m map[string]any, key string, fallback float64) float64 {
	if m == nil {
		return fallback
	}
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return fallback
}

func legacyString(m map[string]any, key string, fallback string) string {
	if m == nil {
		return fallback
	}
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
