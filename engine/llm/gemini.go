package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultGeminiModel = "gemini-1.5-flash"

// Gemini generates answers through Google's generateContent API. Gemini has
// no separate system role, so the system prompt, context, and question are
// combined into a single text part.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *remoteClient
}

func NewGemini(apiKey, model string, timeout time.Duration) *Gemini {
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
		client:  newRemoteClient(timeout),
	}
}

func (g *Gemini) Provider() string { return "gemini" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) Generate(ctx context.Context, systemPrompt, userQuery, contextText string) (string, error) {
	prompt := fmt.Sprintf("%s\n\nContext:\n%s\n\nUser Question: %s", systemPrompt, contextText, userQuery)

	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	reqBody.GenerationConfig.Temperature = 0.3
	reqBody.GenerationConfig.MaxOutputTokens = 1000

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("llm: marshal gemini request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, url.QueryEscape(g.apiKey))

	var answer string
	err = g.client.call(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("llm: build gemini request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := g.client.http.Do(req)
		if err != nil {
			return fmt.Errorf("llm: gemini request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return fmt.Errorf("llm: gemini status %d: %s", resp.StatusCode, msg)
		}

		var parsed geminiResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return fmt.Errorf("llm: decode gemini response: %w", err)
		}
		if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
			return fmt.Errorf("llm: unexpected gemini response shape")
		}
		answer = parsed.Candidates[0].Content.Parts[0].Text
		return nil
	})
	return answer, err
}
