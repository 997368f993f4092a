// Package rag runs the retrieval-augmented pipeline for one query: embed,
// retrieve, assemble context, generate, persist the exchange, respond.
package rag

import (
	"context"
	"log/slog"
	"time"

	"github.com/bankrag/bankrag/engine/domain"
	"github.com/bankrag/bankrag/engine/embed"
	"github.com/bankrag/bankrag/engine/history"
	"github.com/bankrag/bankrag/engine/prompt"
	"github.com/bankrag/bankrag/pkg/metrics"
	"github.com/google/uuid"
)

// SystemPrompt frames every generation call. The grounding instruction is
// load-bearing: answers must come from retrieved context only.
const SystemPrompt = `You are a knowledgeable banking assistant with access to customer accounts, transaction data, and banking policies. Answer questions accurately based on the provided context. If the context doesn't contain enough information to answer fully, say so clearly. Always be helpful and professional.

When discussing specific customers or accounts, reference them by their IDs. When discussing policies, cite the specific policy. For numerical data, be precise. If asked about trends, analyze the transaction patterns provided.

Important: Never fabricate data. Only reference information present in the context below.`

// Searcher is the retrieval gateway contract as the orchestrator sees it:
// degrade-to-empty, no error path.
type Searcher interface {
	Search(ctx context.Context, vector []float32, topK int, threshold float64, typeFilter domain.SourceType) []domain.RankedResult
}

// Generator is the generation dispatcher contract: failures arrive as
// marker-prefixed answer text, never as errors.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userQuery, contextText string) string
	Provider() string
}

// Options tune the retrieval stage. Threshold is taken as given, including
// 0 and negative values (the cosine domain is [-1, 1]); start from
// DefaultOptions to get the tuned default.
type Options struct {
	// TopK bounds how many documents are retrieved per query.
	TopK int
	// Threshold is the minimum cosine similarity for a document to be used.
	// Empirically tuned and corpus-dependent.
	Threshold float64
}

func DefaultOptions() Options {
	return Options{TopK: 5, Threshold: 0.3}
}

// Service is the retrieval orchestrator.
type Service struct {
	embedder  embed.Embedder
	gateway   Searcher
	assembler *prompt.Assembler
	generator Generator
	turns     history.Store
	opts      Options
	logger    *slog.Logger

	queries   *metrics.Counter
	retrieved *metrics.Histogram
	latency   *metrics.Histogram
}

// New wires the pipeline stages together.
func New(embedder embed.Embedder, gateway Searcher, generator Generator, turns history.Store, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultOptions().TopK
	}
	reg := metrics.Default
	return &Service{
		embedder:  embedder,
		gateway:   gateway,
		assembler: prompt.New(turns, logger),
		generator: generator,
		turns:     turns,
		opts:      opts,
		logger:    logger,
		queries:   reg.Counter(metrics.Labeled("rag_queries_total", "llm", generator.Provider()), "Queries processed."),
		retrieved: reg.Histogram("rag_documents_retrieved", "Documents retrieved per query.", []float64{0, 1, 2, 3, 5, 10, 20}),
		latency:   reg.Histogram("rag_pipeline_seconds", "End-to-end pipeline latency.", nil),
	}
}

// Query runs the full pipeline. An empty sessionID starts a fresh session;
// a non-empty typeFilter restricts retrieval to one source type. The only
// hard failures are query validation and embedding: retrieval and generation
// degrade inside their own stages.
func (s *Service) Query(ctx context.Context, userQuery, sessionID string, typeFilter domain.SourceType) (domain.Response, error) {
	start := time.Now()

	if err := domain.ValidateQuery(userQuery); err != nil {
		return domain.Response{}, err
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	s.logger.Info("rag: query", "session_id", sessionID, "query", userQuery)
	s.queries.Inc()

	vector, err := s.embedder.Embed(ctx, userQuery)
	if err != nil {
		return domain.Response{}, err
	}

	results := s.gateway.Search(ctx, vector, s.opts.TopK, s.opts.Threshold, typeFilter)
	s.retrieved.Observe(float64(len(results)))
	s.logger.Info("rag: retrieved documents", "count", len(results), "threshold", s.opts.Threshold)

	docContext := s.assembler.BuildContext(results)
	convContext := s.assembler.BuildConversationContext(ctx, sessionID)
	fullContext := prompt.Merge(convContext, docContext)

	answer := s.generator.Generate(ctx, SystemPrompt, userQuery, fullContext)

	// The exchange is persisted even when the answer carries an error
	// marker, so the session transcript stays complete.
	s.persist(ctx, sessionID, domain.RoleUser, userQuery)
	s.persist(ctx, sessionID, domain.RoleAssistant, answer)

	sources := make([]domain.SourceRef, 0, len(results))
	for _, r := range results {
		sources = append(sources, domain.SourceRef{
			SourceType: r.SourceType,
			SourceID:   r.SourceID,
			Similarity: r.Similarity,
			Excerpt:    domain.Excerpt(r.Content),
		})
	}

	elapsed := time.Since(start)
	s.latency.Observe(elapsed.Seconds())
	s.logger.Info("rag: response generated", "session_id", sessionID, "latency_ms", elapsed.Milliseconds())

	return domain.Response{
		Answer:             answer,
		SessionID:          sessionID,
		Sources:            sources,
		DocumentsRetrieved: len(results),
		LatencyMs:          elapsed.Milliseconds(),
		EmbeddingProvider:  s.embedder.Provider(),
		LLMProvider:        s.generator.Provider(),
	}, nil
}

func (s *Service) persist(ctx context.Context, sessionID string, role domain.Role, content string) {
	err := s.turns.Append(ctx, domain.Turn{SessionID: sessionID, Role: role, Content: content})
	if err != nil {
		s.logger.Warn("rag: failed to persist turn", "session_id", sessionID, "role", string(role), "err", err)
	}
}
