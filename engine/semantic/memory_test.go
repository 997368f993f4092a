package semantic

import (
	"context"
	"testing"

	"github.com/bankrag/bankrag/engine/domain"
	"github.com/bankrag/bankrag/engine/embed"
)

func seedMemStore(t *testing.T) (*MemStore, *embed.Local) {
	t.Helper()
	store := NewMemStore()
	emb := embed.NewLocal(64)
	ctx := context.Background()

	docs := []domain.Document{
		{Content: "Overdraft fee is $35 per occurrence.", SourceType: domain.SourcePolicy, SourceID: "overdraft-policy"},
		{Content: "Savings accounts earn up to 5.0% APY.", SourceType: domain.SourcePolicy, SourceID: "interest-rates"},
		{Content: "Customer profile, location: New York, NY", SourceType: domain.SourceCustomerProfile, SourceID: "CUST-001"},
		{Content: "user asked about overdraft fee earlier", SourceType: domain.SourceChatHistory, SourceID: "session-1"},
	}
	for i := range docs {
		vec, err := emb.Embed(ctx, docs[i].Content)
		if err != nil {
			t.Fatalf("embed: %v", err)
		}
		docs[i].Embedding = vec
	}
	if err := store.BatchInsert(ctx, docs); err != nil {
		t.Fatalf("BatchInsert: %v", err)
	}
	return store, emb
}

func TestMemStoreExcludesChatHistory(t *testing.T) {
	store, emb := seedMemStore(t)
	ctx := context.Background()

	// The chat turn shares every token with this query, so it would rank
	// first if the exclusion were broken.
	query, _ := emb.Embed(ctx, "user asked about overdraft fee earlier")

	for _, threshold := range []float64{0, 0.1, 0.5} {
		results, err := store.Search(ctx, query, 10, threshold, "")
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		for _, r := range results {
			if r.SourceType == domain.SourceChatHistory {
				t.Fatalf("threshold %v: unfiltered search returned a chat document", threshold)
			}
		}
	}
}

func TestMemStoreTypeFilter(t *testing.T) {
	store, emb := seedMemStore(t)
	ctx := context.Background()
	query, _ := emb.Embed(ctx, "overdraft fee")

	results, err := store.Search(ctx, query, 10, -1, domain.SourcePolicy)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected policy results")
	}
	for _, r := range results {
		if r.SourceType != domain.SourcePolicy {
			t.Fatalf("filter returned type %s", r.SourceType)
		}
	}
}

func TestMemStoreThresholdMonotonicity(t *testing.T) {
	store, emb := seedMemStore(t)
	ctx := context.Background()
	query, _ := emb.Embed(ctx, "overdraft fee policy")

	prev := -1
	for _, threshold := range []float64{-1, 0, 0.2, 0.5, 0.9, 1.0} {
		results, err := store.Search(ctx, query, 10, threshold, "")
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		for _, r := range results {
			if r.Similarity < threshold {
				t.Fatalf("result %s below threshold: %v < %v", r.SourceID, r.Similarity, threshold)
			}
		}
		if prev >= 0 && len(results) > prev {
			t.Fatalf("raising threshold to %v increased result count %d -> %d", threshold, prev, len(results))
		}
		prev = len(results)
	}
}

func TestMemStoreTopKBoundAndOrdering(t *testing.T) {
	store, emb := seedMemStore(t)
	ctx := context.Background()
	query, _ := emb.Embed(ctx, "account fee policy customer")

	for _, k := range []int{0, 1, 2, 10} {
		results, err := store.Search(ctx, query, k, -1, "")
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(results) > k {
			t.Fatalf("topK=%d returned %d results", k, len(results))
		}
		for i := 1; i < len(results); i++ {
			if results[i].Similarity > results[i-1].Similarity {
				t.Fatalf("results not in non-increasing order at %d", i)
			}
		}
	}
}

func TestMemStoreCountAndDeleteAll(t *testing.T) {
	store, _ := seedMemStore(t)
	ctx := context.Background()

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 4 {
		t.Errorf("count = %d, want 4", n)
	}

	if err := store.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	n, _ = store.Count(ctx)
	if n != 0 {
		t.Errorf("count after delete = %d", n)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if got < tt.want-1e-9 || got > tt.want+1e-9 {
				t.Errorf("cosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}
