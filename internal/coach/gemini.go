package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/liftlog/backend/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	retryDelay = 500 * time.Millisecond
)

var ErrGeminiEmptyResponse = errors.New("gemini returned no candidates")

type Part struct {
	Text string `json:"text"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateContentRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content Content `json:"content"`
	} `json:"candidates"`
}

// GeminiAPI is a minimal client for the Gemini generateContent REST endpoint.
type GeminiAPI struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

func NewGeminiAPI(baseURL, model, apiKey string, httpClient *http.Client) *GeminiAPI {
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	return &GeminiAPI{
		baseURL:    baseURL,
		model:      model,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (g *GeminiAPI) post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return g.httpClient.Do(req)
}

// UserPrompt wraps a single prompt into the contents shape Gemini expects.
func UserPrompt(prompt string) []Content {
	return []Content{
		{Role: "user", Parts: []Part{{Text: prompt}}},
	}
}

func (g *GeminiAPI) Generate(ctx context.Context, contents []Content, cfg *GenerationConfig) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gemini.generate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("gemini.model", g.model))

	reqBytes, err := json.Marshal(generateContentRequest{
		Contents:         contents,
		GenerationConfig: cfg,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	resp, err := g.post(ctx, url, reqBytes)
	if err != nil {
		// one retry on transport errors, they are often transient
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(retryDelay):
		}
		log.Tracef("gemini request failed, retrying: %s", err)
		if resp, err = g.post(ctx, url, reqBytes); err != nil {
			return "", fmt.Errorf("gemini request: %w", err)
		}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("gemini response status %d: %s", resp.StatusCode, respBody)
	}

	var genResp generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", ErrGeminiEmptyResponse
	}

	return genResp.Candidates[0].Content.Parts[0].Text, nil
}
