// Package history stores conversation turns. Turns are append-only: nothing
// mutates or deletes an individual turn, and readers only ever pull a bounded
// suffix of a session.
package history

import (
	"context"

	"github.com/bankrag/bankrag/engine/domain"
)

// Store is the conversation store contract.
type Store interface {
	// Append records a turn at the end of its session's history.
	Append(ctx context.Context, turn domain.Turn) error
	// RecentBySession returns up to limit most recent turns of a session in
	// chronological order. An unknown session yields an empty slice.
	RecentBySession(ctx context.Context, sessionID string, limit int) ([]domain.Turn, error)
}
