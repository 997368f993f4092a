// Package domain defines the core types shared across the bankrag engine
// pipeline: embedded documents, conversation turns, ranked retrieval results,
// and the structured query response. It also acts as the validation gate at
// pipeline entry points.
package domain

import "time"

// SourceType partitions the retrievable corpus.
type SourceType string

const (
	SourceCustomerProfile    SourceType = "CUSTOMER_PROFILE"
	SourceAccountSummary     SourceType = "ACCOUNT_SUMMARY"
	SourceTransactionPattern SourceType = "TRANSACTION_PATTERN"
	SourcePolicy             SourceType = "POLICY"

	// SourceChatHistory is reserved for conversational turns mirrored into
	// the store. It is never returned by the default (unfiltered) search.
	SourceChatHistory SourceType = "CHAT_HISTORY"
)

// ValidSourceTypes is the set of source types accepted for indexing.
var ValidSourceTypes = map[SourceType]bool{
	SourceCustomerProfile:    true,
	SourceAccountSummary:     true,
	SourceTransactionPattern: true,
	SourcePolicy:             true,
	SourceChatHistory:        true,
}

// Document is one retrievable unit of knowledge. Created during a bulk
// indexing pass and immutable thereafter.
type Document struct {
	Content    string            `json:"content"`
	SourceType SourceType        `json:"source_type"`
	SourceID   string            `json:"source_id"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Embedding  []float32         `json:"embedding,omitempty"`
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAssistant Role = "ASSISTANT"
	RoleSystem    Role = "SYSTEM"
)

// Turn is one message in a session's history. Turns are append-only.
type Turn struct {
	SessionID string    `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// RankedResult is an ephemeral projection of a Document plus its cosine
// similarity to the query, in [-1, 1]. Produced fresh per query, never cached.
type RankedResult struct {
	Content    string            `json:"content"`
	SourceType SourceType        `json:"source_type"`
	SourceID   string            `json:"source_id"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Similarity float64           `json:"similarity"`
}
