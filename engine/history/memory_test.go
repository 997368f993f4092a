package history

import (
	"context"
	"fmt"
	"testing"

	"github.com/bankrag/bankrag/engine/domain"
)

func TestMemStoreAppendAndRecent(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		err := store.Append(ctx, domain.Turn{
			SessionID: "s1",
			Role:      role,
			Content:   fmt.Sprintf("message %d", i),
		})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	turns, err := store.RecentBySession(ctx, "s1", 6)
	if err != nil {
		t.Fatalf("RecentBySession: %v", err)
	}
	if len(turns) != 6 {
		t.Fatalf("got %d turns, want 6", len(turns))
	}
	// Bounded suffix in chronological order.
	if turns[0].Content != "message 4" || turns[5].Content != "message 9" {
		t.Errorf("wrong window: first=%q last=%q", turns[0].Content, turns[5].Content)
	}
}

func TestMemStoreUnknownSession(t *testing.T) {
	store := NewMemStore()
	turns, err := store.RecentBySession(context.Background(), "nope", 6)
	if err != nil {
		t.Fatalf("RecentBySession: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("expected empty history, got %d turns", len(turns))
	}
}

func TestMemStoreSessionsIsolated(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	store.Append(ctx, domain.Turn{SessionID: "a", Role: domain.RoleUser, Content: "in a"})
	store.Append(ctx, domain.Turn{SessionID: "b", Role: domain.RoleUser, Content: "in b"})

	turns, _ := store.RecentBySession(ctx, "a", 10)
	if len(turns) != 1 || turns[0].Content != "in a" {
		t.Errorf("session a leaked: %+v", turns)
	}
}

func TestMemStoreSetsCreatedAt(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	store.Append(ctx, domain.Turn{SessionID: "s", Role: domain.RoleUser, Content: "hi"})
	turns, _ := store.RecentBySession(ctx, "s", 1)
	if turns[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be stamped on append")
	}
}

func TestMemStoreZeroLimitReturnsAll(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		store.Append(ctx, domain.Turn{SessionID: "s", Role: domain.RoleUser, Content: "m"})
	}
	turns, _ := store.RecentBySession(ctx, "s", 0)
	if len(turns) != 3 {
		t.Errorf("limit 0 should return full history, got %d", len(turns))
	}
}
