// Package retrieval provides the similarity search gateway between the RAG
// orchestrator and the vector store. Store failures degrade to an empty
// result set: the pipeline prefers "no context found" over a hard failure.
package retrieval

import (
	"context"
	"log/slog"
	"time"

	"github.com/bankrag/bankrag/engine/domain"
)

// DocumentStore abstracts the vector-capable store. Both semantic.VectorStore
// and semantic.MemStore satisfy it.
type DocumentStore interface {
	Insert(ctx context.Context, doc domain.Document) error
	BatchInsert(ctx context.Context, docs []domain.Document) error
	Search(ctx context.Context, vector []float32, topK int, threshold float64, typeFilter domain.SourceType) ([]domain.RankedResult, error)
	Count(ctx context.Context) (uint64, error)
	DeleteAll(ctx context.Context) error
}

// Gateway issues nearest-neighbor queries and enforces the degrade-to-empty
// failure policy.
type Gateway struct {
	store   DocumentStore
	timeout time.Duration
	logger  *slog.Logger
}

// NewGateway creates a Gateway. timeout <= 0 disables the per-search bound.
func NewGateway(store DocumentStore, timeout time.Duration, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{store: store, timeout: timeout, logger: logger}
}

// Search returns at most topK results ordered by non-increasing similarity,
// each at or above threshold. With an empty typeFilter the chat source type
// is excluded. A store failure is logged and returns an empty slice, never
// an error.
func (g *Gateway) Search(ctx context.Context, vector []float32, topK int, threshold float64, typeFilter domain.SourceType) []domain.RankedResult {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	results, err := g.store.Search(ctx, vector, topK, threshold, typeFilter)
	if err != nil {
		g.logger.Warn("retrieval: search failed, degrading to empty results",
			"err", err, "top_k", topK, "threshold", threshold, "filter", string(typeFilter))
		return nil
	}
	return results
}
