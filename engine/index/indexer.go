// Package index loads documents into the vector store: the static policy
// corpus, caller-supplied document sets, and single documents arriving over
// the message bus.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bankrag/bankrag/engine/domain"
	"github.com/bankrag/bankrag/engine/embed"
	"github.com/bankrag/bankrag/engine/retrieval"
	"github.com/bankrag/bankrag/pkg/metrics"
)

// batchSize bounds one embed-and-insert round trip.
const batchSize = 100

// Stats summarizes one indexing pass.
type Stats struct {
	Indexed int           `json:"indexed"`
	Skipped bool          `json:"skipped"`
	Elapsed time.Duration `json:"elapsed"`
}

// Indexer embeds documents and writes them to the store.
type Indexer struct {
	embedder embed.Embedder
	store    retrieval.DocumentStore
	logger   *slog.Logger
	indexed  *metrics.Counter
	duration *metrics.Histogram
}

func New(embedder embed.Embedder, store retrieval.DocumentStore, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		embedder: embedder,
		store:    store,
		logger:   logger,
		indexed:  metrics.Default.Counter("index_documents_total", "Documents indexed."),
		duration: metrics.Default.Histogram("index_pass_seconds", "Bulk indexing pass duration.", nil),
	}
}

// IndexAll loads docs plus the policy corpus. Idempotent: a non-empty store
// is left untouched.
func (ix *Indexer) IndexAll(ctx context.Context, docs []domain.Document) (Stats, error) {
	existing, err := ix.store.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("index: count existing: %w", err)
	}
	if existing > 0 {
		ix.logger.Info("index: store already populated, skipping", "count", existing)
		return Stats{Skipped: true}, nil
	}
	return ix.indexPass(ctx, docs)
}

// ReindexAll drops every stored document and rebuilds from scratch.
func (ix *Indexer) ReindexAll(ctx context.Context, docs []domain.Document) (Stats, error) {
	ix.logger.Info("index: deleting all documents for reindex")
	if err := ix.store.DeleteAll(ctx); err != nil {
		return Stats{}, fmt.Errorf("index: delete all: %w", err)
	}
	return ix.indexPass(ctx, docs)
}

func (ix *Indexer) indexPass(ctx context.Context, docs []domain.Document) (Stats, error) {
	start := time.Now()
	all := make([]domain.Document, 0, len(docs)+len(Policies))
	all = append(all, docs...)
	all = append(all, Policies...)

	total := 0
	for begin := 0; begin < len(all); begin += batchSize {
		end := min(begin+batchSize, len(all))
		n, err := ix.indexBatch(ctx, all[begin:end])
		if err != nil {
			return Stats{Indexed: total, Elapsed: time.Since(start)}, err
		}
		total += n
		if total%(batchSize*5) == 0 {
			ix.logger.Info("index: progress", "indexed", total)
		}
	}

	elapsed := time.Since(start)
	ix.duration.Observe(elapsed.Seconds())
	ix.logger.Info("index: pass complete", "indexed", total, "elapsed_ms", elapsed.Milliseconds())
	return Stats{Indexed: total, Elapsed: elapsed}, nil
}

func (ix *Indexer) indexBatch(ctx context.Context, docs []domain.Document) (int, error) {
	texts := make([]string, len(docs))
	for i, d := range docs {
		if err := domain.ValidateDocument(d, 0); err != nil {
			return 0, err
		}
		texts[i] = d.Content
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("index: embed batch: %w", err)
	}

	out := make([]domain.Document, len(docs))
	for i, d := range docs {
		d.Embedding = vectors[i]
		out[i] = d
	}
	if err := ix.store.BatchInsert(ctx, out); err != nil {
		return 0, fmt.Errorf("index: batch insert: %w", err)
	}
	ix.indexed.Add(int64(len(out)))
	return len(out), nil
}

// IndexOne embeds and stores a single document, for bus-driven updates.
func (ix *Indexer) IndexOne(ctx context.Context, doc domain.Document) error {
	if err := domain.ValidateDocument(doc, 0); err != nil {
		return err
	}
	vector, err := ix.embedder.Embed(ctx, doc.Content)
	if err != nil {
		return fmt.Errorf("index: embed %s: %w", doc.SourceID, err)
	}
	doc.Embedding = vector
	if err := ix.store.Insert(ctx, doc); err != nil {
		return fmt.Errorf("index: insert %s: %w", doc.SourceID, err)
	}
	ix.indexed.Inc()
	return nil
}
