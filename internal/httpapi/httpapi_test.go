package httpapi

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatbrain/internal/audit"
	"chatbrain/internal/contracts"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	return NewServer(nil, nil, nil).Routes()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "chatbrain", body["service"])
	assert.Equal(t, "1.2.0", body["version"])
}

func TestDecideReturnsDecision(t *testing.T) {
	in := contracts.BrainInput{
		Signals: contracts.Signals{PriceIntent: 0.6},
		Profile: contracts.Profile{FanID: "u1", Tier: "gold"},
		Budgets: contracts.DefaultBudgets(),
		Catalog: []contracts.CatalogItem{
			{PPVAssetID: "ppv_1", MediaType: "photo", BasePrice: 10},
		},
	}
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/decide", in)
	require.Equal(t, http.StatusOK, rec.Code)

	var d contracts.Decision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, "ppv_pitch", d.Mission)
	assert.NotEmpty(t, d.DecisionID)
	require.NotNil(t, d.PPV)
	assert.Equal(t, 13.0, d.PPV.Price, "gold tier scales 10.0 by 1.3")
	assert.True(t, d.SendNow)
}

func TestDecideBadBudgetsIs400(t *testing.T) {
	in := contracts.BrainInput{
		Budgets: contracts.Budgets{PriceFloor: 50, PriceCeiling: 10, PriceStep: 0},
	}
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/decide", in)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["detail"], "budgets.price_step")
}

func TestDecideMalformedBodyIs400(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/decide", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAutoDecideDerivesSignals(t *testing.T) {
	in := map[string]any{
		"messages": map[string]any{
			"fan_last": []map[string]string{{"text": "how much for a video?? 😍"}},
		},
		"profile": map[string]any{"fan_id": "u1", "tier": "silver"},
	}
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/auto_decide", in)
	require.Equal(t, http.StatusOK, rec.Code)

	var d contracts.Decision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, "ppv_pitch", d.Mission)
	require.NotNil(t, d.PPV, "demo catalog applies when the caller sends none")
	assert.Equal(t, "ppv_1001", d.PPV.PPVAssetID)
}

func TestConfiguredCatalogDefault(t *testing.T) {
	configured := []contracts.CatalogItem{
		{PPVAssetID: "ppv_cfg", MediaType: "video", BasePrice: 30, Description: "configured"},
	}
	h := NewServer(nil, nil, configured).Routes()

	in := map[string]any{
		"messages": map[string]any{
			"fan_last": []map[string]string{{"text": "how much for a video?? 😍"}},
		},
		"profile": map[string]any{"fan_id": "u1", "tier": "silver"},
	}
	rec := doJSON(t, h, http.MethodPost, "/auto_decide", in)
	require.Equal(t, http.StatusOK, rec.Code)

	var d contracts.Decision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	require.NotNil(t, d.PPV)
	assert.Equal(t, "ppv_cfg", d.PPV.PPVAssetID, "configured catalog replaces the demo fallback")

	// A caller-supplied catalog still wins over the configured default.
	in["catalog"] = []map[string]any{
		{"ppv_asset_id": "ppv_caller", "media_type": "photo", "base_price": 12.0, "description": "caller"},
	}
	rec = doJSON(t, h, http.MethodPost, "/auto_decide", in)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	require.NotNil(t, d.PPV)
	assert.Equal(t, "ppv_caller", d.PPV.PPVAssetID)
}

func TestSuggestLegacyShape(t *testing.T) {
	body := map[string]any{
		"messages": []map[string]string{
			{"role": "creator", "text": "hey you"},
			{"role": "fan", "text": "how much for a pic??"},
		},
		"profile": map[string]any{"user_id": "legacy-7", "tier": "gold"},
		"ppv_catalog": []map[string]any{
			{"name": "beach set", "media_type": "photo", "base_price": 10.0},
		},
		"budget": map[string]any{"price_floor": 9, "price_ceiling": 120, "price_step": 1},
	}
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/suggest", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	for _, field := range []string{
		"chosen_stage_id", "chosen_strategy_id", "send_now", "send_at",
		"message_pack", "ppv", "why", "alternatives", "budget_used",
	} {
		assert.Contains(t, resp, field, "legacy response missing %s", field)
	}
	assert.NotContains(t, resp, "mission", "new field names must not leak into /suggest")

	var stage string
	require.NoError(t, json.Unmarshal(resp["chosen_stage_id"], &stage))
	assert.Equal(t, "ppv_pitch", stage)
}

func TestSuggestDefaultsEmptyRequest(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/suggest", map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp legacyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "rapport_value_add", resp.ChosenStageID)
	assert.Equal(t, 9.0, resp.BudgetUsed.PriceFloor)
	assert.Equal(t, "balanced", resp.BudgetUsed.ComputeTier)
}

func TestDemoPayloadRoundTrips(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/demo/auto_payload", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The demo payload must itself be a valid /auto_decide body.
	req := httptest.NewRequest(http.MethodPost, "/auto_decide", bytes.NewReader(rec.Body.Bytes()))
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusOK, rec2.Code)

	var d contracts.Decision
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &d))
	assert.NotEmpty(t, d.Mission)
	assert.NotEmpty(t, d.Pack.Bubbles)
}

func TestMethodRouting(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/decide", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/nope", map[string]any{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDecisionsAreAudited(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "events.db")
	h := NewServer(nil, audit.NewLogger(dbPath), nil).Routes()

	in := contracts.BrainInput{Profile: contracts.Profile{FanID: "u1"}}
	rec := doJSON(t, h, http.MethodPost, "/decide", in)
	require.Equal(t, http.StatusOK, rec.Code)

	var d contracts.Decision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	var count int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM events WHERE request_id = ? AND type = ?",
		d.DecisionID, audit.EventDecision,
	).Scan(&count))
	assert.Equal(t, 1, count)
}
