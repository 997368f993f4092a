// Package embed turns text into fixed-dimension vectors for similarity
// search. The default implementation is a deterministic hash-based projection
// that needs no model and no network; an OpenAI-backed implementation with
// the same contract can be substituted by configuration.
package embed

import "context"

// DefaultDimension is the vector width used unless configured otherwise.
// Changing it requires re-embedding the whole corpus.
const DefaultDimension = 384

// Embedder is the fingerprint backend contract. Implementations must be safe
// for concurrent use.
type Embedder interface {
	// Embed returns a vector of exactly Dimension() entries. The local
	// implementation is bit-identical for identical input.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch embeds texts in order. Remote implementations chunk the
	// batch to provider limits.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension is the fixed output width.
	Dimension() int
	// Provider identifies the strategy for observability.
	Provider() string
}
