package httpapi

import "net/http"

// handleDemoPayload returns a ready-to-send /auto_decide body so the service
// can be poked end-to-end without composing a request by hand.
func (s *Server) handleDemoPayload(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"messages": map[string]any{
			"fan_last": []map[string]string{
				{"text": "hey babe 😊 what do you like? any pics"},
			},
			"creator_last": []map[string]string{},
		},
		"memory": map[string]any{
			"storybook": "we joked about tacos yesterday",
		},
		"profile": map[string]any{
			"fan_id":                "u1",
			"tier":                  "silver",
			"relationship_age_days": 3,
		},
		"budgets": map[string]any{
			"max_paid_per_24h_user":  5,
			"min_hours_between_paid": 0.75,
			"price_floor":            9,
			"price_ceiling":          120,
			"price_step":             1.0,
			"exploration_quota":      0.2,
			"compute_tier":           "balanced",
		},
		"context": map[string]any{
			"local_hour":           21,
			"consecutive_no_reply": 0,
			"tz":                   "America/New_York",
		},
		"catalog": []any{},
	})
}
