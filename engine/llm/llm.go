// Package llm dispatches (system prompt, user query, context) to one of
// several interchangeable text-generation strategies. The strategy is chosen
// once at construction from configuration; remote failures are normalized
// into an answer string carrying an error marker so the pipeline always
// returns some text.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bankrag/bankrag/pkg/resilience"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrorMarker prefixes answers produced from a failed generation call.
const ErrorMarker = "Error generating response"

// Generator produces text given a prompt, query, and context.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userQuery, contextText string) (string, error)
	Provider() string
}

// Config selects and parameterizes the generation strategy. Selection is
// static per deployment.
type Config struct {
	Provider string // "mock", "openai", "gemini", "ollama"

	OpenAIKey   string
	OpenAIModel string
	GeminiKey   string
	GeminiModel string
	OllamaURL   string
	OllamaModel string

	Timeout time.Duration
}

// Dispatcher wraps the selected Generator and normalizes failures into
// marker-prefixed answer strings.
type Dispatcher struct {
	gen    Generator
	logger *slog.Logger
}

// New builds a Dispatcher for the configured provider. An empty provider
// selects the zero-dependency mock strategy.
func New(cfg Config, logger *slog.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var gen Generator
	switch cfg.Provider {
	case "", "mock":
		gen = NewMock()
	case "openai":
		gen = NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel, cfg.Timeout)
	case "gemini":
		gen = NewGemini(cfg.GeminiKey, cfg.GeminiModel, cfg.Timeout)
	case "ollama":
		gen = NewOllama(cfg.OllamaURL, cfg.OllamaModel, cfg.Timeout)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}

	return &Dispatcher{gen: gen, logger: logger}, nil
}

// NewWithGenerator wraps an explicit Generator, for tests and custom wiring.
func NewWithGenerator(gen Generator, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{gen: gen, logger: logger}
}

// Provider identifies the active strategy.
func (d *Dispatcher) Provider() string { return d.gen.Provider() }

// Generate always returns answer text. A strategy failure is logged and
// surfaced as a marker-prefixed string, never as an error.
func (d *Dispatcher) Generate(ctx context.Context, systemPrompt, userQuery, contextText string) string {
	answer, err := d.gen.Generate(ctx, systemPrompt, userQuery, contextText)
	if err != nil {
		d.logger.Error("llm: generation failed", "provider", d.gen.Provider(), "err", err)
		return fmt.Sprintf("%s: %v", ErrorMarker, err)
	}
	return answer
}

// remoteClient bundles the HTTP client, rate limiter, and circuit breaker
// shared by all remote strategies.
type remoteClient struct {
	http    *http.Client
	limiter *resilience.Limiter
	breaker *resilience.Breaker
}

func newRemoteClient(timeout time.Duration) *remoteClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &remoteClient{
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: resilience.NewLimiter(resilience.LimiterOpts{Rate: 2, Burst: 4}),
		breaker: resilience.NewBreaker(resilience.DefaultBreakerOpts),
	}
}

// call runs f under the rate limiter and circuit breaker.
func (rc *remoteClient) call(ctx context.Context, f func(context.Context) error) error {
	return rc.limiter.CallWait(ctx, func(ctx context.Context) error {
		return rc.breaker.Call(ctx, f)
	})
}
