package strategist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPGeneratorConfig configures the hosted-model generator.
type HTTPGeneratorConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// DefaultHTTPGeneratorConfig returns defaults for the Gemini generateContent
// endpoint.
func DefaultHTTPGeneratorConfig(apiKey string) HTTPGeneratorConfig {
	return HTTPGeneratorConfig{
		APIKey:  apiKey,
		BaseURL: "https://generativelanguage.googleapis.com/v1beta",
		Model:   "gemini-2.5-flash",
	}
}

// HTTPGenerator calls a Gemini-style generateContent REST endpoint. It makes
// a single synchronous call; deadlines and cancellation belong to the
// caller's context, and no retry policy lives here.
type HTTPGenerator struct {
	cfg    HTTPGeneratorConfig
	client *http.Client
}

// NewHTTPGenerator creates a hosted-model generator.
func NewHTTPGenerator(cfg HTTPGeneratorConfig) (*HTTPGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("generator api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultHTTPGeneratorConfig("").BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultHTTPGeneratorConfig("").Model
	}
	return &HTTPGenerator{cfg: cfg, client: &http.Client{}}, nil
}

type generateRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate issues the generateContent call and returns the raw model text.
func (g *HTTPGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemPrompt}}},
		Contents: []content{
			{Role: "user", Parts: []part{{Text: userPrompt}}},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.cfg.BaseURL, g.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.cfg.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call generator: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generator response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generator returned %d: %s", resp.StatusCode, rawPrefix(string(body)))
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode generator response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generator returned no candidates")
	}

	var text strings.Builder
	for _, p := range decoded.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return strings.TrimSpace(text.String()), nil
}
