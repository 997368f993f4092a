package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.2"
)

// Ollama generates answers through a local Ollama server.
type Ollama struct {
	baseURL string
	model   string
	client  *remoteClient
}

func NewOllama(baseURL, model string, timeout time.Duration) *Ollama {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if model == "" {
		model = defaultOllamaModel
	}
	return &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  newRemoteClient(timeout),
	}
}

func (o *Ollama) Provider() string { return "ollama" }

type ollamaRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Stream  bool   `json:"stream"`
	Options struct {
		Temperature float64 `json:"temperature"`
	} `json:"options"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func (o *Ollama) Generate(ctx context.Context, systemPrompt, userQuery, contextText string) (string, error) {
	reqBody := ollamaRequest{
		Model:  o.model,
		Prompt: fmt.Sprintf("%s\n\nContext:\n%s\n\nUser Question: %s", systemPrompt, contextText, userQuery),
		Stream: false,
	}
	reqBody.Options.Temperature = 0.3

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("llm: marshal ollama request: %w", err)
	}

	var answer string
	err = o.client.call(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("llm: build ollama request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := o.client.http.Do(req)
		if err != nil {
			return fmt.Errorf("llm: ollama request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return fmt.Errorf("llm: ollama status %d: %s", resp.StatusCode, msg)
		}

		var parsed ollamaResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return fmt.Errorf("llm: decode ollama response: %w", err)
		}
		answer = parsed.Response
		return nil
	})
	return answer, err
}
