// Package prompt assembles the bounded context window handed to generation:
// ranked retrieval results plus a short suffix of the session's conversation.
// Conversation history never feeds the vector search itself; it is merged in
// only after retrieval.
package prompt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bankrag/bankrag/engine/domain"
	"github.com/bankrag/bankrag/engine/history"
)

// NoContextSentinel is emitted when retrieval found nothing. It is passed to
// generation as-is so a strategy can react to it explicitly.
const NoContextSentinel = "No relevant information found in the knowledge base."

// Separator sits between document entries in the assembled context. The mock
// generation strategy splits on it.
const Separator = "---\n"

// ConversationWindow is the number of most recent turns read back per session.
const ConversationWindow = 6

// Assembler builds prompt context strings.
type Assembler struct {
	turns  history.Store
	window int
	logger *slog.Logger
}

// New creates an Assembler over the given conversation store.
func New(turns history.Store, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{turns: turns, window: ConversationWindow, logger: logger}
}

// BuildContext formats ranked results into the document context. Entries keep
// ranking order; each carries its type, source id, and a two-decimal
// relevance score.
func (a *Assembler) BuildContext(results []domain.RankedResult) string {
	if len(results) == 0 {
		return NoContextSentinel
	}

	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "[Source: %s | ID: %s | Relevance: %.2f]\n", r.SourceType, r.SourceID, r.Similarity)
		b.WriteString(r.Content)
		b.WriteString("\n")
		if i < len(results)-1 {
			b.WriteString(Separator)
		}
	}
	return b.String()
}

// BuildConversationContext formats the session's recent turns as
// "ROLE: content" lines in chronological order. Sessions with no history
// yield an empty string. A history store failure also yields an empty string:
// losing conversational grounding is preferable to failing the query.
func (a *Assembler) BuildConversationContext(ctx context.Context, sessionID string) string {
	turns, err := a.turns.RecentBySession(ctx, sessionID, a.window)
	if err != nil {
		a.logger.Warn("prompt: conversation history unavailable", "err", err, "session_id", sessionID)
		return ""
	}
	if len(turns) == 0 {
		return ""
	}

	var b strings.Builder
	for _, turn := range turns {
		b.WriteString(string(turn.Role))
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// Merge prefixes the conversation context, when present, before the document
// context with labeled sections. With no history the document context stands
// alone.
func Merge(conversationContext, documentContext string) string {
	if conversationContext == "" {
		return documentContext
	}
	return "Previous conversation:\n" + conversationContext + "\n\nRelevant data:\n" + documentContext
}
