package semantic

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/bankrag/bankrag/engine/domain"
)

// MemStore is an in-memory document store with the same search semantics as
// the Qdrant-backed VectorStore: cosine similarity, threshold, top-k, and
// chat-history exclusion on the unfiltered path. Ties keep insertion order.
type MemStore struct {
	mu   sync.RWMutex
	docs []domain.Document
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Insert stores a single embedded document.
func (m *MemStore) Insert(_ context.Context, doc domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, doc)
	return nil
}

// BatchInsert stores embedded documents in order.
func (m *MemStore) BatchInsert(_ context.Context, docs []domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, docs...)
	return nil
}

// Search ranks stored documents by cosine similarity to the query vector.
func (m *MemStore) Search(_ context.Context, vector []float32, topK int, threshold float64, typeFilter domain.SourceType) ([]domain.RankedResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []domain.RankedResult
	for _, doc := range m.docs {
		if typeFilter != "" {
			if doc.SourceType != typeFilter {
				continue
			}
		} else if doc.SourceType == domain.SourceChatHistory {
			continue
		}

		sim := cosineSimilarity(vector, doc.Embedding)
		if sim < threshold {
			continue
		}
		results = append(results, domain.RankedResult{
			Content:    doc.Content,
			SourceType: doc.SourceType,
			SourceID:   doc.SourceID,
			Metadata:   doc.Metadata,
			Similarity: sim,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if topK >= 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Count returns the number of stored documents.
func (m *MemStore) Count(_ context.Context) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.docs)), nil
}

// DeleteAll removes every stored document.
func (m *MemStore) DeleteAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = nil
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
