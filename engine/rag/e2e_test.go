package rag

import (
	"context"
	"strings"
	"testing"

	"github.com/bankrag/bankrag/engine/domain"
	"github.com/bankrag/bankrag/engine/embed"
	"github.com/bankrag/bankrag/engine/history"
	"github.com/bankrag/bankrag/engine/llm"
	"github.com/bankrag/bankrag/engine/retrieval"
	"github.com/bankrag/bankrag/engine/semantic"
)

// End-to-end pass over real components: local embedder, in-memory vector
// store, mock generation. No network.
func TestPipelineEndToEnd(t *testing.T) {
	ctx := context.Background()
	embedder := embed.NewLocal(embed.DefaultDimension)
	store := semantic.NewMemStore()

	index := func(content, id string, st domain.SourceType) {
		vec, err := embedder.Embed(ctx, content)
		if err != nil {
			t.Fatal(err)
		}
		doc := domain.Document{Content: content, SourceType: st, SourceID: id, Embedding: vec}
		if err := store.Insert(ctx, doc); err != nil {
			t.Fatal(err)
		}
	}
	index("Overdraft fee is $35 per transaction, maximum 3 fees per day.", "overdraft-policy", domain.SourcePolicy)
	index("Wire transfers require two-factor verification above $10,000.", "wire-transfer", domain.SourcePolicy)

	gateway := retrieval.NewGateway(store, 0, nil)
	dispatcher, err := llm.New(llm.Config{Provider: "mock"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	turns := history.NewMemStore()

	// Hash-derived vectors only correlate lexically, so the e2e pass keeps
	// the threshold at zero and relies on ranking.
	svc := New(embedder, gateway, dispatcher, turns, Options{TopK: 1, Threshold: 0.0}, nil)

	resp, err := svc.Query(ctx, "What is the overdraft fee?", "", "")
	if err != nil {
		t.Fatal(err)
	}

	if resp.DocumentsRetrieved != 1 {
		t.Fatalf("retrieved %d documents, want 1", resp.DocumentsRetrieved)
	}
	if resp.Sources[0].SourceID != "overdraft-policy" {
		t.Errorf("top source = %q, want overdraft-policy", resp.Sources[0].SourceID)
	}
	if resp.Sources[0].Similarity <= 0 {
		t.Errorf("similarity = %v, want > 0", resp.Sources[0].Similarity)
	}
	if !strings.Contains(resp.Answer, "=== RAG Response (Mock LLM) ===") {
		t.Errorf("answer is not the mock format:\n%s", resp.Answer)
	}
	if !strings.Contains(resp.Answer, "overdraft-policy") {
		t.Errorf("answer does not cite the retrieved policy:\n%s", resp.Answer)
	}
	if resp.EmbeddingProvider != "local" || resp.LLMProvider != "mock" {
		t.Errorf("providers = %q/%q", resp.EmbeddingProvider, resp.LLMProvider)
	}

	// The exchange lands in the session history.
	got, err := turns.RecentBySession(ctx, resp.SessionID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("history has %d turns, want 2", len(got))
	}
}
