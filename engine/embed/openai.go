package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bankrag/bankrag/pkg/fn"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	openaiEmbedURL = "https://api.openai.com/v1/embeddings"

	// openaiBatchChunk bounds inputs per request to stay under provider
	// payload limits.
	openaiBatchChunk = 100
)

// OpenAI is a remote embedder backed by the OpenAI embeddings API. Unlike
// the local embedder its failures are hard errors: without a query vector no
// retrieval is possible.
type OpenAI struct {
	apiKey  string
	model   string
	dim     int
	baseURL string
	limiter *rate.Limiter
	client  *http.Client
	retry   fn.RetryOpts
}

// NewOpenAI creates an OpenAI embedder. Requests are rate limited client-side
// and instrumented with otelhttp.
func NewOpenAI(apiKey, model string, dim int, timeout time.Duration) *OpenAI {
	if model == "" {
		model = "text-embedding-3-small"
	}
	if dim <= 0 {
		dim = DefaultDimension
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAI{
		apiKey:  apiKey,
		model:   model,
		dim:     dim,
		baseURL: openaiEmbedURL,
		limiter: rate.NewLimiter(rate.Limit(5), 10),
		retry:   fn.RetryOpts{MaxAttempts: 3, InitialWait: 500 * time.Millisecond, MaxWait: 5 * time.Second, Jitter: true},
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Dimension implements Embedder.
func (o *OpenAI) Dimension() int { return o.dim }

// Provider implements Embedder.
func (o *OpenAI) Provider() string { return "openai" }

type openaiEmbedReq struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type openaiEmbedResp struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed implements Embedder.
func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := o.request(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch implements Embedder. Large batches are chunked so a single
// request never exceeds the provider's input limit.
func (o *OpenAI) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += openaiBatchChunk {
		end := i + openaiBatchChunk
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := o.request(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("embed: batch chunk %d: %w", i/openaiBatchChunk, err)
		}
		out = append(out, vecs...)
	}
	return out, nil
}

// request retries transient failures with backoff; the attempt budget comes
// from o.retry.
func (o *OpenAI) request(ctx context.Context, input []string) ([][]float32, error) {
	return fn.Retry(ctx, o.retry, func(ctx context.Context) fn.Result[[][]float32] {
		return fn.FromPair(o.requestOnce(ctx, input))
	}).Unwrap()
}

func (o *OpenAI) requestOnce(ctx context.Context, input []string) ([][]float32, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("embed: rate limit wait: %w", err)
	}

	body, err := json.Marshal(openaiEmbedReq{Model: o.model, Input: input, Dimensions: o.dim})
	if err != nil {
		return nil, fmt.Errorf("embed: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embed: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed: openai call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embed: openai status %d", resp.StatusCode)
	}

	var parsed openaiEmbedResp
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("embed: decode response: %w", err)
	}
	if len(parsed.Data) != len(input) {
		return nil, fmt.Errorf("embed: got %d embeddings for %d inputs", len(parsed.Data), len(input))
	}

	out := make([][]float32, len(input))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("embed: embedding index %d out of range", d.Index)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}
